package staff

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/jhoicas/panel-api/internal/application/ports"
	"github.com/jhoicas/panel-api/internal/application/view"
	"github.com/jhoicas/panel-api/internal/domain"
	"github.com/jhoicas/panel-api/internal/domain/access"
	"github.com/jhoicas/panel-api/internal/domain/entity"
	"github.com/jhoicas/panel-api/internal/domain/repository"
)

const (
	msgCreated       = "Empleado agregado correctamente"
	msgUpdated       = "Empleado actualizado correctamente"
	msgDeleted       = "Empleado eliminado correctamente"
	msgSignUpFailed  = "Error al crear las credenciales del empleado"
	msgInsertFailed  = "La credencial se creó pero no se pudo registrar al empleado"
	msgUpdateFailed  = "Error al actualizar empleado"
	msgDeleteFailed  = "Error al eliminar empleado"
	msgLoadFailed    = "Error al cargar empleados"
	phaseCredential  = "credencial"
	phaseStaffRecord = "registro de personal"
)

// Directory directorio de personal de una sesión (solo admin).
type Directory struct {
	store       repository.RecordStore
	credentials ports.CredentialProvider
	remover     ports.StaffRemover
	identity    ports.IdentityContext
	notifier    ports.Notifier
	recorder    ports.OperationRecorder
	gate        access.Gate
	cache       *view.Cache[entity.StaffRecord]
	log         zerolog.Logger
}

// Deps colaboradores del directorio.
type Deps struct {
	Store       repository.RecordStore
	Credentials ports.CredentialProvider
	Remover     ports.StaffRemover
	Identity    ports.IdentityContext
	Notifier    ports.Notifier
	Recorder    ports.OperationRecorder
	Log         zerolog.Logger
}

// NewDirectory construye el directorio atado al ciclo de vida ctx de la vista.
func NewDirectory(ctx context.Context, deps Deps) *Directory {
	recorder := deps.Recorder
	if recorder == nil {
		recorder = ports.NopRecorder{}
	}
	identity := deps.Identity.Identity()
	d := &Directory{
		store:       deps.Store,
		credentials: deps.Credentials,
		remover:     deps.Remover,
		identity:    deps.Identity,
		notifier:    deps.Notifier,
		recorder:    recorder,
		gate:        access.NewGate(identity),
		log:         deps.Log.With().Str("component", "staff_directory").Str("identity", identity.ID).Logger(),
	}
	d.cache = view.New(ctx, d.fetch, recordFields)
	return d
}

func (d *Directory) fetch(ctx context.Context) ([]entity.StaffRecord, error) {
	rows, err := d.store.Select(ctx, repository.ResourceStaff, entity.StaffColumns)
	if err != nil {
		return nil, err
	}
	out := make([]entity.StaffRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, recordFromRow(r))
	}
	return out, nil
}

// Load reemplaza la caché con todo el personal. Requiere admin.
func (d *Directory) Load(ctx context.Context) error {
	if err := d.gate.CheckView(access.ResourceStaffDirectory); err != nil {
		d.notifier.Notify(err.Error(), entity.SeverityError)
		d.recorder.Observe("staff.load", ports.OutcomeDenied)
		return err
	}
	if err := d.cache.Load(ctx); err != nil {
		return d.remoteFailure("staff.load", "cargar personal", msgLoadFailed, err)
	}
	d.recorder.Observe("staff.load", ports.OutcomeOK)
	return nil
}

// Ensure carga la caché si todavía no se cargó.
func (d *Directory) Ensure(ctx context.Context) error {
	if err := d.gate.CheckView(access.ResourceStaffDirectory); err != nil {
		return err
	}
	if err := d.cache.EnsureLoaded(ctx); err != nil {
		return d.remoteFailure("staff.load", "cargar personal", msgLoadFailed, err)
	}
	return nil
}

// Search reduce la caché actual.
func (d *Directory) Search(query string) { d.cache.Search(query) }

// Clear vuelve a cargar todo el personal.
func (d *Directory) Clear(ctx context.Context) error { return d.Load(ctx) }

// Records devuelve el contenido actual de la caché.
func (d *Directory) Records() []entity.StaffRecord { return d.cache.Items() }

// Create da de alta a un empleado en dos fases: credencial (email + documento como secreto
// inicial) y luego el registro con el ID devuelto. Si la segunda fase falla la credencial
// queda huérfana y se devuelve PartialFailureError.
func (d *Directory) Create(ctx context.Context, c entity.StaffCandidate) error {
	const opName = "staff.create"
	if err := d.gate.CheckCreateStaff(); err != nil {
		d.notifier.Notify(err.Error(), entity.SeverityError)
		d.recorder.Observe(opName, ports.OutcomeDenied)
		return err
	}
	c = normalizeCandidate(c)
	if err := ValidateCandidate(c); err != nil {
		d.notifier.Notify(err.Error(), entity.SeverityWarning)
		d.recorder.Observe(opName, ports.OutcomeInvalid)
		return err
	}

	var id string
	err := d.cache.Run(ctx, func(ctx context.Context) error {
		var err error
		id, err = d.credentials.SignUp(ctx, c.Email, c.DocumentNumber)
		return err
	})
	if err != nil {
		return d.remoteFailure(opName, "crear credencial", msgSignUpFailed, err)
	}

	err = d.cache.Run(ctx, func(ctx context.Context) error {
		_, err := d.store.Insert(ctx, repository.ResourceStaff, candidateRow(id, c))
		return err
	})
	if err != nil {
		d.log.Error().Err(err).Str("credential", id).Msg("credencial huérfana: falló el registro de personal")
		d.notifier.Notify(msgInsertFailed, entity.SeverityError)
		d.recorder.Observe(opName, ports.OutcomePartial)
		return &domain.PartialFailureError{Completed: []string{phaseCredential}, Failed: phaseStaffRecord, Err: err}
	}

	d.log.Info().Str("staff", id).Str("role", c.Role).Msg("empleado creado")
	d.notifier.Notify(msgCreated, entity.SeveritySuccess)
	d.recorder.Observe(opName, ports.OutcomeOK)
	return d.reload(ctx)
}

// Edit actualiza el registro de otro empleado. La autoprotección se evalúa antes que el rol.
func (d *Directory) Edit(ctx context.Context, rec entity.StaffRecord) error {
	const opName = "staff.edit"
	if err := d.gate.CheckMutateStaff(access.StaffEdit, rec.ID); err != nil {
		d.denied(opName, err)
		return err
	}
	c := normalizeCandidate(entity.StaffCandidate{
		Name: rec.Name, LastName: rec.LastName, DocumentNumber: rec.DocumentNumber, Role: rec.Role, Email: rec.Email,
	})
	if err := ValidateCandidate(c); err != nil {
		d.notifier.Notify(err.Error(), entity.SeverityWarning)
		d.recorder.Observe(opName, ports.OutcomeInvalid)
		return err
	}
	patch := candidateRow("", c)
	err := d.cache.Run(ctx, func(ctx context.Context) error {
		return d.store.Update(ctx, repository.ResourceStaff, rec.ID, patch)
	})
	if err != nil {
		return d.remoteFailure(opName, "actualizar empleado", msgUpdateFailed, err)
	}
	d.notifier.Notify(msgUpdated, entity.SeveritySuccess)
	d.recorder.Observe(opName, ports.OutcomeOK)
	return d.reload(ctx)
}

// Delete elimina credencial y registro del empleado vía el endpoint elevado.
func (d *Directory) Delete(ctx context.Context, id string) error {
	const opName = "staff.delete"
	if err := d.gate.CheckMutateStaff(access.StaffDelete, id); err != nil {
		d.denied(opName, err)
		return err
	}
	err := d.cache.Run(ctx, func(ctx context.Context) error {
		session, err := d.identity.Session(ctx)
		if err != nil {
			return err
		}
		return d.remover.DeleteStaff(ctx, session.Token, id)
	})
	if err != nil {
		return d.remoteFailure(opName, "eliminar empleado", msgDeleteFailed, err)
	}
	d.log.Info().Str("staff", id).Msg("empleado eliminado")
	d.notifier.Notify(msgDeleted, entity.SeveritySuccess)
	d.recorder.Observe(opName, ports.OutcomeOK)
	return d.reload(ctx)
}

// Close cancela las llamadas en curso de la vista.
func (d *Directory) Close() { d.cache.Close() }

// denied notifica la denegación: advertencia para autoprotección, error para falta de rol.
func (d *Directory) denied(opName string, err error) {
	severity := entity.SeverityError
	var authErr *domain.AuthorizationError
	if errors.As(err, &authErr) && authErr.SelfProtection() {
		severity = entity.SeverityWarning
	}
	d.notifier.Notify(err.Error(), severity)
	d.recorder.Observe(opName, ports.OutcomeDenied)
}

func (d *Directory) reload(ctx context.Context) error {
	if err := d.cache.Load(ctx); err != nil {
		return d.remoteFailure("staff.load", "recargar personal", msgLoadFailed, err)
	}
	return nil
}

func (d *Directory) remoteFailure(opName, op, message string, err error) error {
	if errors.Is(err, domain.ErrClosed) {
		return err
	}
	d.log.Error().Err(err).Str("op", opName).Msg(message)
	d.notifier.Notify(message, entity.SeverityError)
	d.recorder.Observe(opName, ports.OutcomeRemote)
	return &domain.RemoteError{Op: op, Err: err}
}
