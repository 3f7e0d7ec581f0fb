// Package workspace mantiene las vistas (inventario, personal, perfil) de cada sesión.
// Cerrar una sesión cancela sus llamadas en curso y descarta sus cachés.
package workspace

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/panel-api/internal/application/auth"
	"github.com/jhoicas/panel-api/internal/application/inventory"
	"github.com/jhoicas/panel-api/internal/application/ports"
	"github.com/jhoicas/panel-api/internal/application/profile"
	"github.com/jhoicas/panel-api/internal/application/staff"
	"github.com/jhoicas/panel-api/internal/domain"
	"github.com/jhoicas/panel-api/internal/domain/entity"
	"github.com/jhoicas/panel-api/internal/domain/repository"
)

// Workspace vistas de una sesión.
type Workspace struct {
	Identity  ports.IdentityContext
	Ledger    *inventory.Ledger
	Directory *staff.Directory
	Profile   *profile.UseCase
	cancel    context.CancelFunc
}

// Close cancela las vistas de la sesión.
func (w *Workspace) Close() {
	w.Ledger.Close()
	w.Directory.Close()
	w.cancel()
}

// Deps colaboradores compartidos por todas las sesiones.
type Deps struct {
	Store       repository.RecordStore
	Auth        *auth.AuthUseCase
	Credentials ports.CredentialProvider
	Remover     ports.StaffRemover
	ProfileAPI  ports.ProfileCredentialUpdater
	// Notifiers devuelve el canal de notificaciones de una identidad.
	Notifiers func(identity entity.Identity) ports.Notifier
	Recorder  ports.OperationRecorder
	Log       zerolog.Logger
	// SessionTTL vida máxima de un token; por defecto defaultSessionTTL.
	SessionTTL time.Duration
	// Now reloj del registro; por defecto time.Now.
	Now func() time.Time
}

const defaultSessionTTL = 24 * time.Hour

// Registry workspaces indexados por ID de sesión.
type Registry struct {
	mu    sync.Mutex
	base  context.Context
	deps  Deps
	items map[string]*Workspace
	// closed ID de sesión cerrada -> expiración de su token. Pasada la expiración el
	// middleware ya rechaza el token y la marca sobra.
	closed map[string]time.Time
}

// NewRegistry construye el registro. Cancelar base cierra todos los workspaces.
func NewRegistry(base context.Context, deps Deps) *Registry {
	if deps.SessionTTL <= 0 {
		deps.SessionTTL = defaultSessionTTL
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Registry{base: base, deps: deps, items: make(map[string]*Workspace), closed: make(map[string]time.Time)}
}

// Get devuelve el workspace de la sesión, creándolo la primera vez.
// Una sesión ya cerrada devuelve domain.ErrClosed.
func (r *Registry) Get(session entity.Session) (*Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if expires, ok := r.closed[session.ID]; ok {
		if r.deps.Now().Before(expires) {
			return nil, domain.ErrClosed
		}
		delete(r.closed, session.ID)
	}
	if w, ok := r.items[session.ID]; ok {
		return w, nil
	}
	w := r.build(session)
	r.items[session.ID] = w
	return w, nil
}

func (r *Registry) build(session entity.Session) *Workspace {
	ctx, cancel := context.WithCancel(r.base)
	identity := auth.NewSessionContext(session, r.deps.Auth, r.Close)
	notifier := r.deps.Notifiers(session.Identity())
	log := r.deps.Log.With().Str("session", session.ID).Logger()

	return &Workspace{
		Identity: identity,
		Ledger:   inventory.NewLedger(ctx, r.deps.Store, identity, notifier, r.deps.Recorder, log),
		Directory: staff.NewDirectory(ctx, staff.Deps{
			Store:       r.deps.Store,
			Credentials: r.deps.Credentials,
			Remover:     r.deps.Remover,
			Identity:    identity,
			Notifier:    notifier,
			Recorder:    r.deps.Recorder,
			Log:         log,
		}),
		Profile: profile.NewUseCase(r.deps.Store, r.deps.ProfileAPI, identity, notifier, r.deps.Recorder, log),
		cancel:  cancel,
	}
}

// Close cierra los workspaces de las sesiones indicadas. Las sesiones quedan marcadas
// como cerradas hasta que expira su token, para que una petición tardía no recree su workspace.
// Cada cierre purga además las marcas ya vencidas.
func (r *Registry) Close(sessionIDs ...string) {
	r.mu.Lock()
	now := r.deps.Now()
	r.purgeLocked(now)
	var closing []*Workspace
	for _, id := range sessionIDs {
		r.closed[id] = now.Add(r.deps.SessionTTL)
		if w, ok := r.items[id]; ok {
			closing = append(closing, w)
			delete(r.items, id)
		}
	}
	r.mu.Unlock()
	for _, w := range closing {
		w.Close()
	}
}

// Purge elimina las marcas de sesiones cerradas cuyo token ya expiró y devuelve cuántas quitó.
func (r *Registry) Purge() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.purgeLocked(r.deps.Now())
}

func (r *Registry) purgeLocked(now time.Time) int {
	n := 0
	for id, expires := range r.closed {
		if !now.Before(expires) {
			delete(r.closed, id)
			n++
		}
	}
	return n
}

// ClosedLen número de sesiones cerradas todavía marcadas.
func (r *Registry) ClosedLen() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.closed)
}

// CloseAll cierra todos los workspaces (apagado del servicio).
func (r *Registry) CloseAll() {
	r.mu.Lock()
	ids := make([]string, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	r.mu.Unlock()
	r.Close(ids...)
}

// Len número de workspaces abiertos.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
