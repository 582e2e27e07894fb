package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-connect4/internal/config"
	"github.com/vovakirdan/tui-connect4/internal/games/connect4"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Queue sizes used when the config leaves them unset.
	defaultBroadcastBuffer = 64
	defaultClientBuffer    = 16
)

// Events pushed to WebSocket clients.
const (
	EventState   = "state"
	EventReset   = "reset"
	EventDeleted = "deleted"
)

// Message is one WebSocket frame sent to clients of a session. A client may
// see the same state twice around its first message; Snapshot.Moves tells
// them apart.
type Message struct {
	SessionID string             `json:"session_id"`
	Event     string             `json:"event"`
	Snapshot  *connect4.Snapshot `json:"snapshot,omitempty"`
}

// client is one WebSocket connection watching a session.
type client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string

	// snapshot reads the session state once the client is registered.
	snapshot func() connect4.Snapshot
}

// Hub tracks WebSocket clients per session and pushes state changes to them.
// All client bookkeeping happens on the Run goroutine.
type Hub struct {
	sessions   map[string]map[*client]bool
	broadcast  chan *Message
	register   chan *client
	unregister chan *client
	done       chan struct{}
	clientBuf  int
	upgrader   websocket.Upgrader
	logger     *log.Logger
}

// NewHub creates a hub sized and guarded by cfg. An empty
// cfg.AllowedOrigins only accepts same-origin requests; "*" accepts any
// origin.
func NewHub(cfg config.HTTPConfig, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	broadcastBuf := cfg.BroadcastBuffer
	if broadcastBuf <= 0 {
		broadcastBuf = defaultBroadcastBuffer
	}
	clientBuf := cfg.ClientBuffer
	if clientBuf <= 0 {
		clientBuf = defaultClientBuffer
	}

	return &Hub{
		sessions:   make(map[string]map[*client]bool),
		broadcast:  make(chan *Message, broadcastBuf),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		clientBuf:  clientBuf,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(cfg.AllowedOrigins),
		},
		logger: logger,
	}
}

// originChecker builds the upgrader's origin policy.
func originChecker(allowed []string) func(*http.Request) bool {
	if slices.Contains(allowed, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if slices.Contains(allowed, origin) {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(u.Host, r.Host)
	}
}

// Run starts the hub's event loop and returns when ctx is done. A hub
// runs once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case msg := <-h.broadcast:
			h.broadcastMessage(msg)

		case <-ctx.Done():
			for _, clients := range h.sessions {
				for c := range clients {
					h.unregisterClient(c)
				}
			}
			return
		}
	}
}

// ServeWS upgrades the request and streams the session's state to it. The
// first message is read through snapshot after the client is registered, so
// no change made while the connection was being set up goes missing.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string, snapshot func() connect4.Snapshot) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "session", sessionID, "error", err)
		return
	}

	c := &client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, h.clientBuf),
		sessionID: sessionID,
		snapshot:  snapshot,
	}

	timer := time.NewTimer(writeWait)
	defer timer.Stop()

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	case <-timer.C:
		h.logger.Warn("hub not running, websocket closed", "session", sessionID)
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// Broadcast queues a state change for every client of a session. It never
// blocks: when the hub is stopped, not yet running or backed up, the
// update is dropped.
func (h *Hub) Broadcast(sessionID, event string, snap *connect4.Snapshot) {
	select {
	case <-h.done:
		return
	default:
	}

	select {
	case h.broadcast <- &Message{SessionID: sessionID, Event: event, Snapshot: snap}:
	default:
		h.logger.Warn("broadcast queue full, update dropped", "session", sessionID, "event", event)
	}
}

// registerClient adds a client to a session and queues its first snapshot.
// Any broadcast processed before this point changed the state before the
// snapshot is read.
func (h *Hub) registerClient(c *client) {
	if h.sessions[c.sessionID] == nil {
		h.sessions[c.sessionID] = make(map[*client]bool)
	}
	h.sessions[c.sessionID][c] = true

	if c.snapshot != nil {
		snap := c.snapshot()
		data, err := json.Marshal(&Message{SessionID: c.sessionID, Event: EventState, Snapshot: &snap})
		if err != nil {
			h.logger.Error("cannot encode websocket message", "session", c.sessionID, "error", err)
		} else {
			c.send <- data
		}
	}

	h.logger.Debug("client registered", "session", c.sessionID, "clients", len(h.sessions[c.sessionID]))
}

// unregisterClient removes a client from a session and closes its queue.
func (h *Hub) unregisterClient(c *client) {
	clients, ok := h.sessions[c.sessionID]
	if !ok || !clients[c] {
		return
	}
	delete(clients, c)
	close(c.send)

	if len(clients) == 0 {
		delete(h.sessions, c.sessionID)
	}

	h.logger.Debug("client unregistered", "session", c.sessionID, "clients", len(clients))
}

// broadcastMessage sends a message to all clients in a session. Slow
// clients whose queue is full are dropped. A deleted session disconnects
// its clients after the message.
func (h *Hub) broadcastMessage(msg *Message) {
	clients, ok := h.sessions[msg.SessionID]
	if !ok {
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("cannot encode websocket message", "session", msg.SessionID, "error", err)
		return
	}

	for c := range clients {
		select {
		case c.send <- data:
		default:
			h.unregisterClient(c)
		}
	}

	if msg.Event == EventDeleted {
		for c := range clients {
			h.unregisterClient(c)
		}
	}
}

// readPump drains the connection so control frames are handled, and
// unregisters the client when the peer goes away. Clients never send moves
// over the socket.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("websocket closed", "session", c.sessionID, "error", err)
			}
			return
		}
	}
}

// writePump sends queued messages and pings to the connection. Each
// message is its own frame.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
