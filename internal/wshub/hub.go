package wshub

import (
	"context"
	"sync"

	"github.com/coder/websocket"
)

const sendBuffer = 16

// Client is one WebSocket connection belonging to a player.
type Client struct {
	PlayerID string
	Conn     *websocket.Conn
	Send     chan []byte
}

func NewClient(playerID string, conn *websocket.Conn) *Client {
	return &Client{PlayerID: playerID, Conn: conn, Send: make(chan []byte, sendBuffer)}
}

// WritePump reads from the Send channel and writes to the WebSocket connection.
func (c *Client) WritePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.Send:
			if !ok {
				return
			}
			if err := c.Conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		}
	}
}

// Hub tracks live connections per player. A player may have several tabs open.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.PlayerID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.PlayerID] = set
	}
	set[c] = struct{}{}
}

// Unregister removes c and closes its Send channel. Unknown clients are ignored.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.PlayerID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.Send)
	if len(set) == 0 {
		delete(h.clients, c.PlayerID)
	}
}

// SendToPlayer queues data on every connection of playerID and returns how
// many accepted it. Non-blocking: full connections miss the message.
func (h *Hub) SendToPlayer(playerID string, data []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for c := range h.clients[playerID] {
		select {
		case c.Send <- data:
			n++
		default:
		}
	}
	return n
}

// Count returns the number of connections for playerID.
func (h *Hub) Count(playerID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[playerID])
}
