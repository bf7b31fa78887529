package chat

import "errors"

var (
	// ErrEmptyContent rejects messages whose content trims to nothing.
	// Such messages are never persisted or broadcast.
	ErrEmptyContent = errors.New("message content is empty")
	// ErrUnauthorized rejects a join for a room whose participants do not
	// include the connecting party.
	ErrUnauthorized = errors.New("not a participant of this room")
	// ErrNotJoined rejects a send from a connection that has not joined
	// the room.
	ErrNotJoined = errors.New("connection has not joined this room")
)
