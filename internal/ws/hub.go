// Package ws maintains the live set of group-chat subscribers and fans new
// group messages out to them.  Delivery is best effort: a subscriber whose
// send buffer is full, or who is offline at broadcast time, simply misses
// the push and catches up through the paginated read endpoint.
package ws

import (
	"context"
	"sync"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// Event is the envelope pushed over a group topic.
type Event struct {
	Type    string `json:"type"`
	GroupID uint64 `json:"group_id"`
	Data    any    `json:"data"`
}

// Client is one live websocket subscription to a single group topic.
type Client struct {
	GroupID uint64
	UserID  uint64
	Conn    *websocket.Conn
	Send    chan Event

	ctx    context.Context
	cancel context.CancelFunc
}

// Hub tracks subscribers per group id.
type Hub struct {
	mu     sync.RWMutex
	groups map[uint64]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{groups: map[uint64]map[*Client]struct{}{}}
}

// Subscribe registers a connection on the group's topic and starts its
// write and keep-alive loops.
func (h *Hub) Subscribe(groupID, userID uint64, conn *websocket.Conn) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		GroupID: groupID,
		UserID:  userID,
		Conn:    conn,
		Send:    make(chan Event, 64),
		ctx:     ctx,
		cancel:  cancel,
	}

	h.mu.Lock()
	if h.groups[groupID] == nil {
		h.groups[groupID] = map[*Client]struct{}{}
	}
	h.groups[groupID][c] = struct{}{}
	h.mu.Unlock()

	go c.writeLoop()
	go c.keepAliveLoop()

	return c
}

// Unsubscribe drops the client from its topic and closes the connection.
func (h *Hub) Unsubscribe(c *Client) {
	c.cancel()

	h.mu.Lock()
	if set, ok := h.groups[c.GroupID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.groups, c.GroupID)
		}
	}
	h.mu.Unlock()

	_ = c.Conn.Close(websocket.StatusNormalClosure, "bye")
}

// Broadcast queues the event to every current subscriber of the group.
// Slow subscribers are skipped rather than blocking the sender.
func (h *Hub) Broadcast(groupID uint64, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.groups[groupID] {
		select {
		case c.Send <- ev:
		default:
			// buffer full: drop for this subscriber
		}
	}
}

// Subscribers reports how many clients are live on the group's topic.
func (h *Hub) Subscribers(groupID uint64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[groupID])
}

// writeLoop drains Send until the subscription is cancelled.  The channel
// is never closed: Broadcast may still be holding a reference, and an
// abandoned channel is simply collected.
func (c *Client) writeLoop() {
	for {
		select {
		case <-c.ctx.Done():
			return
		case ev := <-c.Send:
			writeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			_ = wsjson.Write(writeCtx, c.Conn, ev)
			cancel()
		}
	}
}

func (c *Client) keepAliveLoop() {
	ticker := time.NewTicker(25 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			_ = c.Conn.Ping(pingCtx)
			cancel()
		}
	}
}
