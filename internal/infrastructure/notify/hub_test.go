package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/panel-api/internal/domain/entity"
	"github.com/jhoicas/panel-api/internal/infrastructure/notify"
)

// tokens token -> sesión
type tokens map[string]entity.Session

func (t tokens) Authenticate(_ context.Context, token string) (entity.Session, error) {
	s, ok := t[token]
	if !ok {
		return entity.Session{}, errors.New("token inválido")
	}
	return s, nil
}

var sessions = tokens{
	"tok-admin": {ID: "s1", UserID: "admin-1", Role: entity.RoleAdmin},
	"tok-staff": {ID: "s2", UserID: "staff-1", Role: entity.RoleStaff},
}

func startHub(t *testing.T) (*notify.Hub, string) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := notify.NewHub(sessions, zerolog.Nop())
	go hub.Run(ctx)
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(srv.Close)
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url, token string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url+"?token="+token, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) entity.Notification {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	var n entity.Notification
	require.NoError(t, json.Unmarshal(msg, &n))
	return n
}

func TestServeWS_SinTokenRechaza(t *testing.T) {
	_, url := startHub(t)
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(url+"?token=otro", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSessionNotifier_SoloLlegaASuIdentidad(t *testing.T) {
	hub, url := startHub(t)
	staff := dial(t, url, "tok-staff")
	admin := dial(t, url, "tok-admin")
	require.Eventually(t, func() bool { return hub.Len() == 2 }, 2*time.Second, 10*time.Millisecond)

	n := notify.NewSessionNotifier(hub, entity.Identity{ID: "staff-1", Role: entity.RoleStaff}, zerolog.Nop())
	n.Notify("Cantidad actualizada", entity.SeveritySuccess)
	notify.NewSessionNotifier(hub, entity.Identity{ID: "admin-1", Role: entity.RoleAdmin}, zerolog.Nop()).
		Notify("Producto eliminado correctamente", entity.SeveritySuccess)

	got := read(t, staff)
	assert.Equal(t, "Cantidad actualizada", got.Message)
	assert.Equal(t, entity.SeveritySuccess, got.Severity)

	assert.Equal(t, "Producto eliminado correctamente", read(t, admin).Message)
}

func TestAdminAlerts_SoloAdministradores(t *testing.T) {
	hub, url := startHub(t)
	staff := dial(t, url, "tok-staff")
	admin := dial(t, url, "tok-admin")
	require.Eventually(t, func() bool { return hub.Len() == 2 }, 2*time.Second, 10*time.Millisecond)

	alerts := notify.NewAdminAlerts(hub)
	alerts.AlertLowStock("Bajo stock (1): Arroz (5)", []entity.Product{{ID: "p1", Name: "Arroz", Quantity: 5}})

	got := read(t, admin)
	assert.Equal(t, entity.SeverityWarning, got.Severity)
	assert.Equal(t, "Bajo stock (1): Arroz (5)", got.Message)

	// el personal no recibe la alerta: lo siguiente que le llega es su propia notificación
	hub.Send("staff-1", entity.Notification{Message: "ping", Severity: entity.SeveritySuccess})
	assert.Equal(t, "ping", read(t, staff).Message)
}

func TestAdminAlerts_SinProductosNoEnvia(t *testing.T) {
	hub, url := startHub(t)
	admin := dial(t, url, "tok-admin")
	require.Eventually(t, func() bool { return hub.Len() == 1 }, 2*time.Second, 10*time.Millisecond)

	notify.NewAdminAlerts(hub).AlertLowStock("", nil)
	hub.Send("admin-1", entity.Notification{Message: "siguiente"})
	assert.Equal(t, "siguiente", read(t, admin).Message)
}

func TestHub_DesconexionLiberaCliente(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url, "tok-staff")
	require.Eventually(t, func() bool { return hub.Len() == 1 }, 2*time.Second, 10*time.Millisecond)

	_ = conn.Close()
	assert.Eventually(t, func() bool { return hub.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestSessionNotifier_SinHubSoloRegistra(t *testing.T) {
	n := notify.NewSessionNotifier(nil, entity.Identity{ID: "u1"}, zerolog.Nop())
	assert.NotPanics(t, func() { n.Notify("Error al cargar productos", entity.SeverityError) })
}
