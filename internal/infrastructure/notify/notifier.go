package notify

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/panel-api/internal/application/inventory"
	"github.com/jhoicas/panel-api/internal/application/ports"
	"github.com/jhoicas/panel-api/internal/domain/access"
	"github.com/jhoicas/panel-api/internal/domain/entity"
)

var (
	_ ports.Notifier      = (*SessionNotifier)(nil)
	_ inventory.AlertSink = (*AdminAlerts)(nil)
)

// SessionNotifier notificaciones de una identidad: se registran en el log y se envían por el hub.
type SessionNotifier struct {
	hub    *Hub
	userID string
	log    zerolog.Logger
	now    func() time.Time
}

// NewSessionNotifier hub puede ser nil (solo log).
func NewSessionNotifier(hub *Hub, identity entity.Identity, log zerolog.Logger) *SessionNotifier {
	return &SessionNotifier{
		hub:    hub,
		userID: identity.ID,
		log:    log.With().Str("user_id", identity.ID).Logger(),
		now:    time.Now,
	}
}

// Notify registra el mensaje en el log y lo envía al usuario de la sesión por el hub.
func (n *SessionNotifier) Notify(message string, severity entity.Severity) {
	ev := n.log.Info()
	if severity == entity.SeverityError {
		ev = n.log.Warn()
	}
	ev.Str("severity", string(severity)).Msg(message)
	if n.hub != nil {
		n.hub.Send(n.userID, entity.Notification{Message: message, Severity: severity, At: n.now()})
	}
}

// AdminAlerts difunde la alerta de bajo stock a las identidades que el Gate autoriza.
type AdminAlerts struct {
	hub *Hub
}

// NewAdminAlerts construye el difusor de alertas sobre hub.
func NewAdminAlerts(hub *Hub) *AdminAlerts {
	return &AdminAlerts{hub: hub}
}

// AlertLowStock difunde message si hay productos con bajo stock; sin productos no envía nada.
func (a *AdminAlerts) AlertLowStock(message string, items []entity.Product) {
	if len(items) == 0 {
		return
	}
	a.hub.Broadcast(entity.Notification{Message: message, Severity: entity.SeverityWarning, At: time.Now()},
		func(id entity.Identity) bool { return access.NewGate(id).CanReceiveStockAlerts() })
}
