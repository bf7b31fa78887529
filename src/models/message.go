package models

import (
	"ebm/src/types"
)

// ChatMessage is immutable once persisted. The auto-increment primary key is
// the insertion sequence and breaks timestamp ties, so ordering within a
// room is total.
type ChatMessage struct {
	ID       uint            `gorm:"primarykey" json:"id"`
	RoomID   string          `gorm:"index" json:"room_id,omitempty"`
	SenderID string          `json:"sender_id,omitempty"`
	Role     types.PartyRole `json:"role,omitempty"`
	Content  string          `json:"content,omitempty"`

	types.Timestamps
}
