// Package profile implementa la actualización de datos propios en dos fases:
// registro de personal primero, credencial después vía endpoint elevado.
package profile

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/panel-api/internal/application/ports"
	"github.com/jhoicas/panel-api/internal/domain"
	"github.com/jhoicas/panel-api/internal/domain/access"
	"github.com/jhoicas/panel-api/internal/domain/entity"
	"github.com/jhoicas/panel-api/internal/domain/repository"
)

const (
	msgUpdated        = "Datos actualizados exitosamente. Cerrando sesión..."
	msgPartial        = "Los datos se actualizaron solo parcialmente"
	msgFailed         = "Error al actualizar los datos"
	msgRequired       = "Nombre y apellido son obligatorios"
	msgNameDigits     = "Nombre y apellido no deben contener números."
	msgEmailAt        = "El correo debe contener el símbolo '@'."
	msgSecretMismatch = "Las contraseñas no coinciden"

	phaseRecord     = "datos personales"
	phaseCredential = "credenciales"
)

var hasDigit = regexp.MustCompile(`\d`)

// Change datos enviados por el formulario de perfil. Email solo se aplica si la
// identidad puede cambiar su propio email; Secret vacío deja la contraseña igual.
type Change struct {
	Name          string
	LastName      string
	Email         string
	Secret        string
	ConfirmSecret string
}

// UseCase autoservicio de perfil de una sesión.
type UseCase struct {
	store       repository.RecordStore
	credentials ports.ProfileCredentialUpdater
	identity    ports.IdentityContext
	notifier    ports.Notifier
	recorder    ports.OperationRecorder
	gate        access.Gate
	log         zerolog.Logger
}

// NewUseCase construye el caso de uso de perfil.
func NewUseCase(
	store repository.RecordStore,
	credentials ports.ProfileCredentialUpdater,
	identity ports.IdentityContext,
	notifier ports.Notifier,
	recorder ports.OperationRecorder,
	log zerolog.Logger,
) *UseCase {
	if recorder == nil {
		recorder = ports.NopRecorder{}
	}
	return &UseCase{
		store:       store,
		credentials: credentials,
		identity:    identity,
		notifier:    notifier,
		recorder:    recorder,
		gate:        access.NewGate(identity.Identity()),
		log:         log.With().Str("component", "profile").Str("identity", identity.Identity().ID).Logger(),
	}
}

// Current devuelve el registro propio.
func (uc *UseCase) Current(ctx context.Context) (*entity.StaffRecord, error) {
	id := uc.identity.Identity().ID
	rows, err := uc.store.Select(ctx, repository.ResourceStaff, entity.StaffColumns, repository.Eq(entity.StaffID, id))
	if err != nil {
		return nil, &domain.RemoteError{Op: "cargar perfil", Err: err}
	}
	if len(rows) == 0 {
		return nil, domain.ErrNotFound
	}
	r := rows[0]
	return &entity.StaffRecord{
		ID:             r.String(entity.StaffID),
		Name:           r.String(entity.StaffName),
		LastName:       r.String(entity.StaffLastName),
		DocumentNumber: r.String(entity.StaffDocumentNumber),
		Role:           entity.NormalizeRole(r.String(entity.StaffRole)),
		Email:          r.String(entity.StaffEmail),
	}, nil
}

// Update aplica la fase 1 (registro) y la fase 2 (credencial). La fase 2 se intenta aunque
// la fase 1 falle. Si ambas tienen éxito se cierran todas las sesiones de la identidad.
// Si solo una tiene éxito se devuelve PartialFailureError sin deshacer la otra.
func (uc *UseCase) Update(ctx context.Context, in Change) error {
	const opName = "profile.update"
	in = normalize(in)
	if err := uc.validate(in); err != nil {
		uc.notifier.Notify(err.Error(), entity.SeverityWarning)
		uc.recorder.Observe(opName, ports.OutcomeInvalid)
		return err
	}

	patch := repository.Row{entity.StaffName: in.Name, entity.StaffLastName: in.LastName}
	change := ports.CredentialChange{Secret: in.Secret}
	if uc.gate.CanChangeOwnEmail() && in.Email != "" {
		patch[entity.StaffEmail] = in.Email
		change.Email = in.Email
	}

	recordErr := uc.store.Update(ctx, repository.ResourceStaff, uc.identity.Identity().ID, patch)
	credErr := uc.updateCredential(ctx, change)

	switch {
	case recordErr == nil && credErr == nil:
		uc.log.Info().Msg("perfil actualizado, cerrando todas las sesiones")
		uc.notifier.Notify(msgUpdated, entity.SeveritySuccess)
		uc.recorder.Observe(opName, ports.OutcomeOK)
		if err := uc.identity.SignOut(ctx, entity.ScopeGlobal); err != nil {
			return &domain.RemoteError{Op: "cerrar sesiones", Err: err}
		}
		return nil
	case recordErr == nil:
		return uc.partial(opName, phaseRecord, phaseCredential, credErr)
	case credErr == nil:
		return uc.partial(opName, phaseCredential, phaseRecord, recordErr)
	default:
		uc.log.Error().AnErr("record", recordErr).AnErr("credential", credErr).Msg(msgFailed)
		uc.notifier.Notify(msgFailed, entity.SeverityError)
		uc.recorder.Observe(opName, ports.OutcomeRemote)
		return &domain.RemoteError{Op: "actualizar perfil", Err: errors.Join(recordErr, credErr)}
	}
}

func (uc *UseCase) updateCredential(ctx context.Context, change ports.CredentialChange) error {
	session, err := uc.identity.Session(ctx)
	if err != nil {
		return err
	}
	return uc.credentials.UpdateProfileCredential(ctx, session.Token, change)
}

func (uc *UseCase) partial(opName, completed, failed string, err error) error {
	uc.log.Error().Err(err).Str("completed", completed).Str("failed", failed).Msg(msgPartial)
	uc.notifier.Notify(msgPartial, entity.SeverityError)
	uc.recorder.Observe(opName, ports.OutcomePartial)
	return &domain.PartialFailureError{Completed: []string{completed}, Failed: failed, Err: err}
}

func (uc *UseCase) validate(in Change) error {
	if in.Name == "" || in.LastName == "" {
		return domain.NewValidationError("name", msgRequired)
	}
	if hasDigit.MatchString(in.Name) || hasDigit.MatchString(in.LastName) {
		return domain.NewValidationError("name", msgNameDigits)
	}
	if uc.gate.CanChangeOwnEmail() && in.Email != "" && !strings.Contains(in.Email, "@") {
		return domain.NewValidationError("email", msgEmailAt)
	}
	if in.Secret != in.ConfirmSecret {
		return domain.NewValidationError("secret", msgSecretMismatch)
	}
	return nil
}

func normalize(in Change) Change {
	in.Name = strings.TrimSpace(in.Name)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	return in
}
