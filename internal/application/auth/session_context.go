package auth

import (
	"context"

	"github.com/jhoicas/panel-api/internal/application/ports"
	"github.com/jhoicas/panel-api/internal/domain/entity"
)

var _ ports.IdentityContext = (*SessionContext)(nil)

// SessionContext implementa ports.IdentityContext para una sesión autenticada.
// onSignOut recibe los IDs de sesión revocados para cerrar sus vistas.
type SessionContext struct {
	session   entity.Session
	auth      *AuthUseCase
	onSignOut func(sessionIDs ...string)
}

// NewSessionContext construye el contexto de identidad de la sesión.
func NewSessionContext(session entity.Session, auth *AuthUseCase, onSignOut func(sessionIDs ...string)) *SessionContext {
	return &SessionContext{session: session, auth: auth, onSignOut: onSignOut}
}

// Identity devuelve la identidad de la sesión.
func (s *SessionContext) Identity() entity.Identity { return s.session.Identity() }

// Session devuelve la sesión con su token.
func (s *SessionContext) Session(context.Context) (entity.Session, error) { return s.session, nil }

// SignOut revoca según el alcance y cierra las vistas de las sesiones revocadas.
func (s *SessionContext) SignOut(ctx context.Context, scope entity.SignOutScope) error {
	ids, err := s.auth.SignOut(ctx, s.session, scope)
	if err != nil {
		return err
	}
	if s.onSignOut != nil {
		s.onSignOut(ids...)
	}
	return nil
}
