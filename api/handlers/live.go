package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/fortexlabs/early-warning-api/api/risk"
	"github.com/fortexlabs/early-warning-api/databases"
)

const snapshotInterval = 3 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// LiveHub streams risk snapshots to connected dashboard clients and fans out
// scheduler alerts. Writes to a connection are serialized through the hub
// mutex since gorilla connections allow only one concurrent writer.
type LiveHub struct {
	DB databases.ComplaintDatabase

	mutex   sync.Mutex
	clients map[*websocket.Conn]bool
}

// NewLiveHub exported for testing purposes
func NewLiveHub(db databases.ComplaintDatabase) *LiveHub {
	return &LiveHub{
		DB:      db,
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP upgrades the request and pushes a fresh risk snapshot every few
// seconds until the client goes away
func (h *LiveHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Warnw("websocket upgrade failed", "error", err)
		return
	}

	h.mutex.Lock()
	h.clients[conn] = true
	h.mutex.Unlock()
	zap.S().Debugw("live dashboard client connected", "clients", h.clientCount())

	go h.push(conn)

	for {
		if _, _, err := conn.NextReader(); err != nil {
			break
		}
	}
	h.drop(conn)
}

func (h *LiveHub) push(conn *websocket.Conn) {
	ticker := time.NewTicker(snapshotInterval)
	defer ticker.Stop()

	for range ticker.C {
		h.mutex.Lock()
		_, connected := h.clients[conn]
		h.mutex.Unlock()
		if !connected {
			return
		}

		complaints, err := h.DB.Find(context.Background())
		if err != nil {
			zap.S().Warnw("failed to load complaints for live snapshot", "error", err)
			continue
		}

		if err := h.write(conn, "risk_snapshot", risk.Compute(complaints, time.Now())); err != nil {
			h.drop(conn)
			return
		}
	}
}

// Broadcast sends an event to every connected client, dropping the ones
// whose writes fail
func (h *LiveHub) Broadcast(event string, data interface{}) {
	h.mutex.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mutex.Unlock()

	for _, conn := range conns {
		if err := h.write(conn, event, data); err != nil {
			zap.S().Warnw("failed to broadcast to live client", "event", event, "error", err)
			h.drop(conn)
		}
	}
}

func (h *LiveHub) write(conn *websocket.Conn, event string, data interface{}) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return conn.WriteJSON(map[string]interface{}{
		"event": event,
		"data":  data,
	})
}

func (h *LiveHub) drop(conn *websocket.Conn) {
	h.mutex.Lock()
	delete(h.clients, conn)
	h.mutex.Unlock()
	conn.Close()
}

func (h *LiveHub) clientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}
