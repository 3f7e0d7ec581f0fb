package testutil

import (
	"context"
	"sync"

	"github.com/jhoicas/panel-api/internal/domain/entity"
)

// FakeIdentity implementa ports.IdentityContext con una identidad fija.
type FakeIdentity struct {
	mu         sync.Mutex
	identity   entity.Identity
	Token      string
	SignOutErr error
	signOuts   []entity.SignOutScope
}

// NewFakeIdentity crea la identidad con el rol indicado.
func NewFakeIdentity(id, role string) *FakeIdentity {
	return &FakeIdentity{identity: entity.Identity{ID: id, Role: role}, Token: "token-" + id}
}

// Identity implementa ports.IdentityContext.
func (f *FakeIdentity) Identity() entity.Identity { return f.identity }

// Session implementa ports.IdentityContext.
func (f *FakeIdentity) Session(context.Context) (entity.Session, error) {
	return entity.Session{ID: "sid-" + f.identity.ID, UserID: f.identity.ID, Role: f.identity.Role, Token: f.Token}, nil
}

// SignOut implementa ports.IdentityContext.
func (f *FakeIdentity) SignOut(_ context.Context, scope entity.SignOutScope) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signOuts = append(f.signOuts, scope)
	return f.SignOutErr
}

// SignOuts devuelve los alcances de cierre de sesión solicitados.
func (f *FakeIdentity) SignOuts() []entity.SignOutScope {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.SignOutScope(nil), f.signOuts...)
}

// Notifier registra las notificaciones emitidas.
type Notifier struct {
	mu    sync.Mutex
	items []entity.Notification
}

// Notify implementa ports.Notifier.
func (n *Notifier) Notify(message string, severity entity.Severity) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, entity.Notification{Message: message, Severity: severity})
}

// All devuelve las notificaciones en orden.
func (n *Notifier) All() []entity.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]entity.Notification(nil), n.items...)
}

// Last devuelve la última notificación (vacía si no hubo).
func (n *Notifier) Last() entity.Notification {
	all := n.All()
	if len(all) == 0 {
		return entity.Notification{}
	}
	return all[len(all)-1]
}
