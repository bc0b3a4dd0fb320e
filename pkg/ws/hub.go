package ws

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Hub tracks connected advisory subscribers. Writes are serialized through
// the hub lock because gorilla connections allow one concurrent writer.
type Hub struct {
	mu    sync.Mutex
	conns map[string]*websocket.Conn
}

func NewHub() *Hub {
	return &Hub{conns: map[string]*websocket.Conn{}}
}

func (h *Hub) Add(id string, c *websocket.Conn) {
	h.mu.Lock()
	h.conns[id] = c
	h.mu.Unlock()
}

func (h *Hub) Remove(id string) {
	h.mu.Lock()
	delete(h.conns, id)
	h.mu.Unlock()
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Broadcast sends v as JSON to every subscriber. Connections that fail to
// write are dropped from the hub.
func (h *Hub) Broadcast(v interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.conns {
		if err := c.WriteJSON(v); err != nil {
			c.Close()
			delete(h.conns, id)
		}
	}
}
