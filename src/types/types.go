package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type Metadata map[string]any

type BookingStatus string

const (
	BOOKING_CONFIRMED BookingStatus = "confirmed"
	BOOKING_FAILED    BookingStatus = "failed"
)

type PartyRole string

const (
	ROLE_CUSTOMER PartyRole = "customer"
	ROLE_ENGINEER PartyRole = "engineer"
)

type ChargeRequestBody struct {
	PaymentMethodID string `json:"pm_id" binding:"required"`
	Amount          int64  `json:"amount" binding:"required,gt=0"`
	Currency        string `json:"currency" binding:"required,supportedcurrency"`
	Package         string `json:"package" binding:"required"`
	EventDate       string `json:"event_date" binding:"required,bookabledate" time_format:"2006-01-02 15:04:05 -07:00"`
}

type FinalizeQueryParams struct {
	PaymentIntentID string `form:"payment_intent" binding:"required"`
}

type ChatHistoryQueryParams struct {
	Peer string `form:"peer" binding:"required"`
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type APIResponseBooking struct {
	ID              uint       `json:"id,omitempty"`
	UserID          uint       `json:"user_id,omitempty"`
	Package         string     `json:"package,omitempty"`
	EventDate       *time.Time `json:"event_date,omitempty"`
	Amount          float64    `json:"amount,omitempty"`
	Currency        string     `json:"currency,omitempty"`
	PaymentIntentId string     `json:"payment_intent_id,omitempty"`
	Status          string     `json:"status,omitempty"`

	Timestamps
}
