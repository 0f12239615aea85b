package vis

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	sendBufferSize = 64
)

// client is one WebSocket connection. Messages are queued on send and
// written by the client's own writer goroutine.
type client struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks connected clients and fans messages out to them.
// Safe for concurrent use; Send and Broadcast never block on a slow client.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*client
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[uuid.UUID]*client)}
}

// Register adds conn and starts its writer. The returned id addresses the client.
func (h *Hub) Register(conn *websocket.Conn) uuid.UUID {
	c := &client{id: uuid.New(), conn: conn, send: make(chan []byte, sendBufferSize)}
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	go c.writeLoop()
	logrus.WithField("client", c.id).Info("websocket client connected")
	return c.id
}

// Unregister removes the client and closes its connection.
func (h *Hub) Unregister(id uuid.UUID) {
	h.mu.Lock()
	c, ok := h.clients[id]
	delete(h.clients, id)
	h.mu.Unlock()
	if !ok {
		return
	}
	close(c.send)
	logrus.WithField("client", id).Info("websocket client disconnected")
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Send queues v as JSON for one client. Returns false if the client is gone
// or its buffer is full.
func (h *Hub) Send(id uuid.UUID, v any) bool {
	payload, err := json.Marshal(v)
	if err != nil {
		logrus.WithError(err).Warn("encoding websocket message")
		return false
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[id]
	if !ok {
		return false
	}
	return c.enqueue(payload)
}

// Broadcast queues v as JSON for every client.
func (h *Hub) Broadcast(v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		logrus.WithError(err).Warn("encoding websocket broadcast")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		c.enqueue(payload)
	}
}

func (c *client) enqueue(payload []byte) bool {
	select {
	case c.send <- payload:
		return true
	default:
		logrus.WithField("client", c.id).Warn("websocket send buffer full, dropping message")
		return false
	}
}

func (c *client) writeLoop() {
	defer c.conn.Close()
	for payload := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.WithError(err).WithField("client", c.id).Warn("websocket write failed")
			}
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}
