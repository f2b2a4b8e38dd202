package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/novinresanehco/lifeos-backend/internal/pkg/logger"
)

type EventType string

const (
	EventNotification        EventType = "notification"
	EventBrowserNotification EventType = "browserNotification"
	EventAIUpdate            EventType = "aiUpdate"
	EventItemUpdate          EventType = "itemUpdate"
)

type Message struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload"`
}

// SessionResolver answers whether a session id belongs to a user. The hub
// rejects handshakes whose (userId, sessionId) pair does not resolve.
type SessionResolver func(ctx context.Context, sessionID uuid.UUID) (uuid.UUID, error)

const (
	writeWait      = 10 * time.Second
	outboundBuffer = 16
)

type conn struct {
	userID    uuid.UUID
	sessionID uuid.UUID
	ws        *websocket.Conn
	outbound  chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func (c *conn) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
}

// open reports whether the connection still accepts writes.
func (c *conn) open() bool {
	select {
	case <-c.done:
		return false
	default:
		return true
	}
}

// Hub tracks live per-user socket connections. A user may hold several
// concurrent connections (multiple tabs); each is keyed by its session id.
type Hub struct {
	mu       sync.RWMutex
	log      *logger.Logger
	clients  map[uuid.UUID][]*conn
	resolve  SessionResolver
	upgrader websocket.Upgrader
}

func NewHub(log *logger.Logger, resolve SessionResolver) *Hub {
	return &Hub{
		log:     log.With("component", "RealtimeHub"),
		clients: make(map[uuid.UUID][]*conn),
		resolve: resolve,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// ServeWS upgrades an incoming request and registers the connection. The
// handshake must carry userId and sessionId query parameters and the session
// must resolve to that user; anything else is closed with a policy-violation
// code before it reaches Open.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID, uErr := uuid.Parse(r.URL.Query().Get("userId"))
	sessionID, sErr := uuid.Parse(r.URL.Query().Get("sessionId"))

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("WebSocket upgrade failed", "error", err)
		return
	}

	if uErr != nil || sErr != nil {
		h.rejectHandshake(ws, "missing authentication")
		return
	}
	if h.resolve != nil {
		owner, err := h.resolve(r.Context(), sessionID)
		if err != nil || owner != userID {
			h.rejectHandshake(ws, "invalid session")
			return
		}
	}

	c := &conn{
		userID:    userID,
		sessionID: sessionID,
		ws:        ws,
		outbound:  make(chan []byte, outboundBuffer),
		done:      make(chan struct{}),
	}

	h.mu.Lock()
	h.clients[userID] = append(h.clients[userID], c)
	h.mu.Unlock()
	h.log.Debug("WebSocket connected", "user_id", userID, "session_id", sessionID)

	go h.writePump(c)

	h.SendToUser(userID, Message{
		Type: EventNotification,
		Payload: map[string]any{
			"title":   "Connected",
			"content": "WebSocket connection established successfully",
		},
	})

	h.readPump(c)

	h.removeConn(c)
	c.close()
	h.log.Debug("WebSocket closed", "user_id", userID, "session_id", sessionID)
}

func (h *Hub) rejectHandshake(ws *websocket.Conn, reason string) {
	deadline := time.Now().Add(writeWait)
	_ = ws.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason),
		deadline,
	)
	_ = ws.Close()
}

// readPump drains inbound frames until the peer goes away. Payloads are
// best-effort JSON; malformed ones are logged and dropped, never fatal.
func (h *Hub) readPump(c *conn) {
	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.log.Warn("Dropping malformed client message", "user_id", c.userID, "error", err)
			continue
		}
		h.log.Debug("Client message received", "user_id", c.userID, "type", msg.Type)
	}
}

func (h *Hub) writePump(c *conn) {
	for {
		select {
		case <-c.done:
			return
		case raw := <-c.outbound:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, raw); err != nil {
				c.close()
				return
			}
		}
	}
}

// removeConn drops exactly the socket matching the session id; when the
// user's list empties, the user entry goes with it.
func (h *Hub) removeConn(c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.clients[c.userID]
	kept := conns[:0]
	for _, existing := range conns {
		if existing.sessionID != c.sessionID {
			kept = append(kept, existing)
		}
	}
	if len(kept) == 0 {
		delete(h.clients, c.userID)
		return
	}
	h.clients[c.userID] = kept
}

// SendToUser serializes once and writes to every open socket the user owns.
// A user with no live sockets is simply offline; that is not an error.
func (h *Hub) SendToUser(userID uuid.UUID, msg Message) {
	raw, err := json.Marshal(msg)
	if err != nil {
		h.log.Warn("Failed to marshal realtime message", "error", err)
		return
	}

	h.mu.RLock()
	conns := append([]*conn(nil), h.clients[userID]...)
	h.mu.RUnlock()

	for _, c := range conns {
		h.enqueue(c, raw)
	}
}

// Broadcast writes to every open socket across all users.
func (h *Hub) Broadcast(msg Message) {
	raw, err := json.Marshal(msg)
	if err != nil {
		h.log.Warn("Failed to marshal realtime message", "error", err)
		return
	}

	h.mu.RLock()
	var conns []*conn
	for _, userConns := range h.clients {
		conns = append(conns, userConns...)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		h.enqueue(c, raw)
	}
}

func (h *Hub) enqueue(c *conn, raw []byte) {
	if !c.open() {
		return
	}
	select {
	case c.outbound <- raw:
	default:
		h.log.Warn("Dropping realtime message; outbound buffer full", "user_id", c.userID)
	}
}

// ConnectionCount reports the number of live sockets for a user.
func (h *Hub) ConnectionCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Shutdown closes every connection and clears the registry.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, conns := range h.clients {
		for _, c := range conns {
			c.close()
		}
	}
	h.clients = make(map[uuid.UUID][]*conn)
}
