package ws

import (
	"log"
	"sort"
	"sync"

	"github.com/BlaJam82/chat-app/internal/observability"
)

// Hub maintains the broadcast groups: which live connections are subscribed
// to which room. Room keys are normalized room names.
type Hub struct {
	mu          sync.RWMutex
	rooms       map[string]map[*Client]bool
	memberships map[*Client]map[string]bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		rooms:       make(map[string]map[*Client]bool),
		memberships: make(map[*Client]map[string]bool),
	}
}

// Join subscribes a client to a room's broadcast group. It reports whether
// the membership is new; rejoining an already-joined room is a no-op.
func (h *Hub) Join(room string, c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[room][c] {
		return false
	}
	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][c] = true
	if _, ok := h.memberships[c]; !ok {
		h.memberships[c] = make(map[string]bool)
	}
	h.memberships[c][room] = true

	observability.SetRoomMembers(room, len(h.rooms[room]))
	return true
}

// RemoveClient drops a client from every broadcast group and returns the
// rooms it was a member of, sorted.
func (h *Hub) RemoveClient(c *Client) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	var left []string
	for room := range h.memberships[c] {
		left = append(left, room)
		if members, ok := h.rooms[room]; ok {
			delete(members, c)
			observability.SetRoomMembers(room, len(members))
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	delete(h.memberships, c)

	sort.Strings(left)
	return left
}

// MemberCount returns the number of live connections in a room.
func (h *Hub) MemberCount(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// SendTo emits a named event to a single client.
func (h *Hub) SendTo(c *Client, event string, payload any) {
	frame, err := marshalEnvelope(event, payload)
	if err != nil {
		log.Printf("marshal %s event: %v", event, err)
		return
	}
	h.deliver([]*Client{c}, frame)
}

// Broadcast emits a named event to every member of a room's group.
func (h *Hub) Broadcast(room, event string, payload any) {
	frame, err := marshalEnvelope(event, payload)
	if err != nil {
		log.Printf("marshal %s event: %v", event, err)
		return
	}
	h.deliver(h.members(room, nil), frame)
}

// BroadcastOthers emits a named event to every member of a room's group
// except the given client.
func (h *Hub) BroadcastOthers(room string, except *Client, event string, payload any) {
	frame, err := marshalEnvelope(event, payload)
	if err != nil {
		log.Printf("marshal %s event: %v", event, err)
		return
	}
	h.deliver(h.members(room, except), frame)
}

func (h *Hub) members(room string, except *Client) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	members := make([]*Client, 0, len(h.rooms[room]))
	for c := range h.rooms[room] {
		if c == except {
			continue
		}
		members = append(members, c)
	}
	return members
}

// deliver enqueues a frame for each client. A client that cannot accept the
// frame is closed; its memberships stay intact so the read-loop teardown
// can emit the leave notices before removing it.
func (h *Hub) deliver(clients []*Client, frame []byte) {
	for _, c := range clients {
		if !c.enqueue(frame) {
			log.Printf("dropping frame for connection %s, closing", c.ConnID())
			c.Close()
		}
	}
}
