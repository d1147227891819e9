package ws

import (
	"encoding/json"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Hub fans messages out to every connected dashboard client. The
// client set is owned by the Run goroutine; Attach, Detach and Publish
// are the only ways in, so no lock guards the map.
type Hub struct {
	clients   map[*websocket.Conn]struct{}
	attach    chan *websocket.Conn
	detach    chan *websocket.Conn
	broadcast chan []byte

	log *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients:   make(map[*websocket.Conn]struct{}),
		attach:    make(chan *websocket.Conn),
		detach:    make(chan *websocket.Conn),
		broadcast: make(chan []byte, 16),
		log:       log,
	}
}

// Attach hands a new connection to the hub. The caller keeps reading
// from the socket; the hub only ever writes.
func (h *Hub) Attach(conn *websocket.Conn) {
	h.attach <- conn
}

// Detach removes a connection. Calling it for a connection the hub
// already dropped after a failed write is harmless.
func (h *Hub) Detach(conn *websocket.Conn) {
	h.detach <- conn
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.attach:
			h.clients[conn] = struct{}{}
			h.log.Info("websocket client connected", zap.Int("clients", len(h.clients)))

		case conn := <-h.detach:
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}

		case msg := <-h.broadcast:
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					conn.Close()
					delete(h.clients, conn)
				}
			}
		}
	}
}

// Publish marshals a payload and hands it to the broadcast loop without
// blocking the caller. Safe on a nil hub, which keeps services usable
// in contexts that run without live clients.
func (h *Hub) Publish(payload map[string]interface{}) {
	if h == nil {
		return
	}
	msg, err := json.Marshal(payload)
	if err != nil {
		h.log.Warn("failed to marshal ws payload", zap.Error(err))
		return
	}
	go func() {
		h.broadcast <- msg
	}()
}
