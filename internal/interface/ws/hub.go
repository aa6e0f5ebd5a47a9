package ws

import (
	"sync"
)

const clientBuffer = 32

// Client is one websocket connection's outbound queue. Events are
// dropped for clients whose buffer is full rather than blocking the
// broadcaster.
type Client struct {
	hub        *Hub
	activityID string
	send       chan Event
}

// Events returns the channel the connection's writer drains. It is
// closed when the client is removed from the hub.
func (c *Client) Events() <-chan Event { return c.send }

// Event is one frame relayed to websocket clients.
type Event struct {
	Type string `json:"type"`
	Body any    `json:"body,omitempty"`
}

// Hub tracks one broadcast group per activity. All methods are safe for
// concurrent use.
type Hub struct {
	mu     sync.Mutex
	groups map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{groups: make(map[string]map[*Client]struct{})}
}

// Join adds a new client to the activity's group.
func (h *Hub) Join(activityID string) *Client {
	c := &Client{hub: h, activityID: activityID, send: make(chan Event, clientBuffer)}
	h.mu.Lock()
	defer h.mu.Unlock()
	g, ok := h.groups[activityID]
	if !ok {
		g = make(map[*Client]struct{})
		h.groups[activityID] = g
	}
	g[c] = struct{}{}
	return c
}

// Leave removes the client and closes its event channel. Safe to call
// more than once.
func (h *Hub) Leave(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(c)
}

// Broadcast fans an event out to every member of the activity's group,
// the sender included. Clients with a full buffer are dropped.
func (h *Hub) Broadcast(activityID string, ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.groups[activityID] {
		select {
		case c.send <- ev:
		default:
			h.remove(c)
		}
	}
}

// Send queues an event for one client only. The client is dropped if
// its buffer is full.
func (h *Hub) Send(c *Client, ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.groups[c.activityID][c]; !ok {
		return
	}
	select {
	case c.send <- ev:
	default:
		h.remove(c)
	}
}

// GroupSize reports the current member count of an activity's group.
func (h *Hub) GroupSize(activityID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.groups[activityID])
}

// remove must be called with mu held.
func (h *Hub) remove(c *Client) {
	g, ok := h.groups[c.activityID]
	if !ok {
		return
	}
	if _, ok := g[c]; !ok {
		return
	}
	delete(g, c)
	close(c.send)
	if len(g) == 0 {
		delete(h.groups, c.activityID)
	}
}
