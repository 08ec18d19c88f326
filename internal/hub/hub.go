package hub

import (
	"sync"

	"github.com/banterhq/banter/pkg/log"
)

// Hub is the in-process room registry: room name -> set of live clients.
// It is the single shared mutable resource between the connection-handling
// world and the request/response world, so every method is safe for
// concurrent use. The critical sections only touch the maps; message
// delivery always operates on a snapshot taken by Members.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

// New creates an empty Hub.
func New() *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]struct{}),
	}
}

// Join adds client to room's member set. Idempotent. The room is created on
// first join.
func (h *Hub) Join(room string, client *Client) {
	h.mu.Lock()
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[client] = struct{}{}
	h.mu.Unlock()

	l := log.L()
	l.Info().Str(log.FieldClientID, client.ID).Str(log.FieldRoom, room).Msg("client joined room")
}

// Leave removes client from room's member set. No-op if absent. An emptied
// room is deleted so the registry never leaks rooms.
func (h *Hub) Leave(room string, client *Client) {
	h.mu.Lock()
	if members, ok := h.rooms[room]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	h.mu.Unlock()

	l := log.L()
	l.Info().Str(log.FieldClientID, client.ID).Str(log.FieldRoom, room).Msg("client left room")
}

// Members returns a snapshot of the room's current clients. Unknown rooms
// yield an empty slice, never an error. Iteration order is unspecified.
func (h *Hub) Members(room string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	members, ok := h.rooms[room]
	if !ok {
		return nil
	}
	snapshot := make([]*Client, 0, len(members))
	for c := range members {
		snapshot = append(snapshot, c)
	}
	return snapshot
}

// MemberCount returns the number of clients currently in a room.
func (h *Hub) MemberCount(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// RoomCount returns the number of rooms with at least one client.
func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}
