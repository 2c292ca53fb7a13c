// Package live pushes metrics snapshots to websocket clients on a timer and
// after every change.
package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

const writeWait = 10 * time.Second

// Config wires a Hub to its data.
type Config struct {
	// Interval between periodic recomputations.
	Interval time.Duration
	// Snapshot returns the payload sent to clients.
	Snapshot func() any
	// Tick runs on every interval and reports whether clients should get a
	// fresh snapshot. Nil means always.
	Tick   func(now time.Time) bool
	Logger *slog.Logger
}

// Hub owns every websocket connection. All writes happen on the Run goroutine.
type Hub struct {
	cfg        Config
	clients    map[*websocket.Conn]bool
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	changed    chan struct{}
	done       chan struct{}
}

func NewHub(cfg Config) *Hub {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Hub{
		cfg:        cfg,
		clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		changed:    make(chan struct{}, 1),
		done:       make(chan struct{}),
	}
}

// Notify schedules a broadcast. It never blocks; bursts collapse into one send.
func (h *Hub) Notify() {
	select {
	case h.changed <- struct{}{}:
	default:
	}
}

// Run serves the hub until ctx is cancelled, then closes every connection.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.cfg.Interval)
	defer ticker.Stop()
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				client.Close()
				delete(h.clients, client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			h.cfg.Logger.Debug("live client registered", "clients", len(h.clients))
			h.send(client, h.payload())

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
			}
			h.cfg.Logger.Debug("live client unregistered", "clients", len(h.clients))

		case <-h.changed:
			h.broadcast()

		case now := <-ticker.C:
			if h.cfg.Tick == nil || h.cfg.Tick(now) {
				h.broadcast()
			}
		}
	}
}

// ServeHTTP upgrades the request and keeps the connection registered until
// the client goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.cfg.Logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	select {
	case h.register <- conn:
	case <-h.done:
		conn.Close()
		return
	}

	// Clients only listen; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

func (h *Hub) payload() []byte {
	data, err := json.Marshal(h.cfg.Snapshot())
	if err != nil {
		h.cfg.Logger.Error("encoding live snapshot", "error", err)
		return nil
	}
	return data
}

func (h *Hub) broadcast() {
	if len(h.clients) == 0 {
		return
	}
	data := h.payload()
	for client := range h.clients {
		if !h.send(client, data) {
			delete(h.clients, client)
		}
	}
}

func (h *Hub) send(client *websocket.Conn, data []byte) bool {
	if data == nil {
		return true
	}
	_ = client.SetWriteDeadline(time.Now().Add(writeWait))
	if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
		h.cfg.Logger.Warn("live broadcast failed", "error", err)
		client.Close()
		return false
	}
	return true
}
