package models

import (
	"ebm/src/types"
)

type User struct {
	ID    uint            `gorm:"primarykey" json:"id"`
	Name  string          `json:"name,omitempty"`
	Email string          `json:"email,omitempty"`
	Role  types.PartyRole `json:"role,omitempty"`
	UID   string          `gorm:"uniqueIndex" json:"uid,omitempty"`

	Bookings []Booking `gorm:"foreignKey:user_id" json:"bookings,omitempty"`

	types.Timestamps
}
