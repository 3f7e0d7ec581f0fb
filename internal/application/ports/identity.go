package ports

import (
	"context"

	"github.com/jhoicas/panel-api/internal/domain/entity"
)

// IdentityContext define el puerto de la identidad de la sesión actual.
// Se inyecta en cada caso de uso; no hay estado global de sesión.
type IdentityContext interface {
	// Identity devuelve la identidad inmutable de la sesión.
	Identity() entity.Identity
	// Session devuelve la sesión con su token para llamadas a endpoints elevados.
	Session(ctx context.Context) (entity.Session, error)
	// SignOut cierra esta sesión o todas las sesiones de la identidad.
	SignOut(ctx context.Context, scope entity.SignOutScope) error
}

// Notifier canal de notificaciones al usuario. Fire-and-forget: no devuelve error.
type Notifier interface {
	Notify(message string, severity entity.Severity)
}

// OperationRecorder registra el resultado de cada operación (métricas).
type OperationRecorder interface {
	Observe(operation, outcome string)
}

// Resultados registrados por OperationRecorder.
const (
	OutcomeOK      = "ok"
	OutcomeDenied  = "denied"
	OutcomeInvalid = "invalid"
	OutcomeRemote  = "remote_error"
	OutcomePartial = "partial"
)

// NopRecorder descarta las observaciones.
type NopRecorder struct{}

// Observe no hace nada.
func (NopRecorder) Observe(string, string) {}
