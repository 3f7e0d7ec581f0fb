// Package notify entrega notificaciones al usuario por WebSocket.
// Cada conexión queda asociada a la identidad autenticada con el token del query param.
package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/jhoicas/panel-api/internal/domain/entity"
)

const (
	writeWait    = 10 * time.Second
	sendBuffer   = 64
	outboxBuffer = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// El panel se sirve desde otro origen en desarrollo.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Authenticator valida el token de la conexión.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (entity.Session, error)
}

// Client conexión de una sesión.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	identity entity.Identity
}

type envelope struct {
	payload []byte
	match   func(entity.Identity) bool
}

// Hub mantiene las conexiones activas y reparte los mensajes según la identidad.
type Hub struct {
	auth       Authenticator
	log        zerolog.Logger
	clients    map[*Client]bool
	outbox     chan envelope
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
}

// NewHub construye el hub. Run debe ejecutarse en su propia goroutine.
func NewHub(auth Authenticator, log zerolog.Logger) *Hub {
	return &Hub{
		auth:       auth,
		log:        log.With().Str("component", "notify").Logger(),
		clients:    make(map[*Client]bool),
		outbox:     make(chan envelope, outboxBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run despacha registros, bajas y mensajes hasta que ctx se cancela.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
			h.log.Debug().Str("user_id", c.identity.ID).Msg("websocket conectado")
		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.log.Debug().Str("user_id", c.identity.ID).Msg("websocket desconectado")
			}
			h.mu.Unlock()
		case env := <-h.outbox:
			h.mu.Lock()
			for c := range h.clients {
				if !env.match(c.identity) {
					continue
				}
				select {
				case c.send <- env.payload:
				default:
					close(c.send)
					delete(h.clients, c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Len número de conexiones registradas.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Send encola una notificación para todas las conexiones de userID.
func (h *Hub) Send(userID string, n entity.Notification) {
	h.Broadcast(n, func(id entity.Identity) bool { return id.ID == userID })
}

// Broadcast encola una notificación para las conexiones cuya identidad cumple match.
// Si la cola está llena la notificación se descarta.
func (h *Hub) Broadcast(n entity.Notification, match func(entity.Identity) bool) {
	payload, err := json.Marshal(n)
	if err != nil {
		h.log.Error().Err(err).Msg("serializar notificación")
		return
	}
	select {
	case h.outbox <- envelope{payload: payload, match: match}:
	default:
		h.log.Warn().Str("message", n.Message).Msg("cola de notificaciones llena, descartada")
	}
}

// ServeWS autentica con el query param token y registra la conexión.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "token requerido", http.StatusUnauthorized)
		return
	}
	session, err := h.auth.Authenticate(r.Context(), token)
	if err != nil {
		h.log.Debug().Err(err).Msg("websocket rechazado")
		http.Error(w, "token inválido", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	c := &Client{hub: h, conn: conn, send: make(chan []byte, sendBuffer), identity: session.Identity()}
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

func (c *Client) writePump() {
	defer func() {
		_ = c.conn.Close()
	}()
	for message := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump solo detecta el cierre; el cliente no envía mensajes.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug().Err(err).Msg("websocket read")
			}
			return
		}
	}
}
