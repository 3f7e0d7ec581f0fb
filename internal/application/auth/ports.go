package auth

import (
	"context"
	"time"

	"github.com/jhoicas/panel-api/internal/domain/entity"
)

// SessionRegistry registro de sesiones activas. Una sesión revocada deja de autenticar
// aunque su token todavía no haya expirado.
type SessionRegistry interface {
	Register(ctx context.Context, s entity.Session, ttl time.Duration) error
	IsActive(ctx context.Context, sessionID string) (bool, error)
	Revoke(ctx context.Context, sessionID string) error
	// RevokeAll revoca todas las sesiones de la identidad y devuelve sus IDs.
	RevokeAll(ctx context.Context, userID string) ([]string, error)
}
