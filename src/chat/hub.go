package chat

import (
	"context"
	"log"

	"ebm/src/models"
)

// Event is an inbound frame from a connection.
type Event struct {
	Type       string `json:"type"`
	UserID     string `json:"user_id,omitempty"`
	EngineerID string `json:"engineer_id,omitempty"`
	RoomID     string `json:"room_id,omitempty"`
	Content    string `json:"content,omitempty"`
}

const (
	EventJoin    = "join"
	EventLeave   = "leave"
	EventMessage = "message"
)

// ServerEvent is an outbound frame.
type ServerEvent struct {
	Type    string              `json:"type"`
	RoomID  string              `json:"room_id,omitempty"`
	Message *models.ChatMessage `json:"message,omitempty"`
	Error   string              `json:"error,omitempty"`
}

const (
	EventJoined = "joined"
	EventError  = "error"
)

// Hub routes two-party messages through named rooms: persist first, then
// fan the stored copy out to everyone joined at that moment.
type Hub struct {
	registry *Registry
	store    *Store
}

func NewHub(registry *Registry, store *Store) *Hub {
	return &Hub{registry: registry, store: store}
}

// Join checks that the connecting party is one of the two named
// participants before registering it. The pairing policy itself (whether
// these two may talk at all) belongs to the identity collaborator that
// authenticated the party.
func (h *Hub) Join(c *Client, userId, engineerId string) (string, error) {
	if userId == "" || engineerId == "" {
		return "", ErrUnauthorized
	}
	if c.partyId != userId && c.partyId != engineerId {
		log.Printf("[Hub] join rejected for [%s] on pair (%s, %s)\n", c.partyId, userId, engineerId)
		return "", ErrUnauthorized
	}
	roomId := RoomIDFor(userId, engineerId)
	h.registry.Join(c, roomId)
	return roomId, nil
}

func (h *Hub) Leave(c *Client, roomId string) {
	h.registry.Leave(c, roomId)
}

// Send persists the message and, only on success, broadcasts the stored
// copy to the room's membership as of the moment persistence completed.
// A persistence failure is returned to the sender and nothing is delivered.
func (h *Hub) Send(ctx context.Context, c *Client, roomId, content string) (*models.ChatMessage, error) {
	if !h.registry.Joined(c, roomId) {
		return nil, ErrNotJoined
	}
	msg, err := h.store.Append(ctx, roomId, c.partyId, c.role, content)
	if err != nil {
		return nil, err
	}
	for _, member := range h.registry.Members(roomId) {
		member.enqueue(ServerEvent{Type: EventMessage, RoomID: roomId, Message: msg})
	}
	return msg, nil
}

// Disconnect drops the connection from every room. Membership is rebuilt
// with explicit joins on reconnect.
func (h *Hub) Disconnect(c *Client) {
	h.registry.LeaveAll(c)
}
