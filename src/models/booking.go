package models

import (
	"time"

	"ebm/src/types"
)

// Booking is the durable record of a confirmed paid reservation. A row
// exists iff the referenced PaymentIntent reached succeeded, and the unique
// index on payment_intent_id keeps retried finalizations from writing a
// second row for the same payment.
type Booking struct {
	ID              uint                `gorm:"primarykey" json:"id"`
	UserID          uint                `json:"user_id,omitempty"`
	Package         string              `json:"package,omitempty"`
	EventDate       time.Time           `json:"event_date,omitempty"`
	Amount          float64             `json:"amount,omitempty"`
	Currency        string              `json:"currency,omitempty"`
	PaymentIntentId string              `gorm:"uniqueIndex" json:"payment_intent_id,omitempty"`
	Status          types.BookingStatus `json:"status,omitempty"`

	User *User `gorm:"foreignKey:user_id" json:"user,omitempty"`

	types.Timestamps
}
