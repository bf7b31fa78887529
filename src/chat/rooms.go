package chat

import (
	"fmt"
	"sync"
)

// RoomIDFor derives the canonical room id for a pair of participants.
// The pair is ordered before composing, so both argument orders yield the
// same room and distinct pairs never collide (party ids are opaque uids
// that do not contain the separator).
func RoomIDFor(partyA, partyB string) string {
	lo, hi := partyA, partyB
	if hi < lo {
		lo, hi = hi, lo
	}
	return fmt.Sprintf("chat:%s:%s", lo, hi)
}

// Registry owns live room membership. State is process-local and rebuilt
// from scratch on reconnect via join, so nothing here is persisted.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]bool
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]map[*Client]bool)}
}

// Join registers a connection as a member of a room. Joining twice has no
// additional effect, and a connection may belong to multiple rooms.
func (r *Registry) Join(c *Client, roomId string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	members := r.rooms[roomId]
	if members == nil {
		members = make(map[*Client]bool)
		r.rooms[roomId] = members
	}
	members[c] = true
}

func (r *Registry) Leave(c *Client, roomId string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	members := r.rooms[roomId]
	if members == nil {
		return
	}
	delete(members, c)
	if len(members) == 0 {
		delete(r.rooms, roomId)
	}
}

// LeaveAll removes a connection from every room it joined. Called on
// disconnect.
func (r *Registry) LeaveAll(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for roomId, members := range r.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(r.rooms, roomId)
		}
	}
}

func (r *Registry) Joined(c *Client, roomId string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rooms[roomId][c]
}

// Members returns a snapshot of the current membership. A connection
// leaving after the snapshot may still receive one in-flight message.
func (r *Registry) Members(roomId string) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members := make([]*Client, 0, len(r.rooms[roomId]))
	for c := range r.rooms[roomId] {
		members = append(members, c)
	}
	return members
}
