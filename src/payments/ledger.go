package payments

import (
	"context"
	"errors"
	"log"

	"ebm/src/models"

	"gorm.io/gorm"
)

// Ledger is the exclusive writer of booking rows. The unique index on
// payment_intent_id serializes concurrent creates for the same intent:
// exactly one succeeds, the rest observe ErrDuplicatePayment.
type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

func (l *Ledger) Create(ctx context.Context, booking *models.Booking) error {
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(booking).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Printf("[Ledger] duplicate payment reference [%s]\n", booking.PaymentIntentId)
			return ErrDuplicatePayment
		}
		log.Printf("[Ledger] error creating Booking: %s\n", err.Error())
		return err
	}
	return nil
}

func (l *Ledger) GetByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	err := l.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where(&models.Booking{ID: id}).
		First(&booking).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (l *Ledger) GetByPaymentIntent(ctx context.Context, intentId string) (*models.Booking, error) {
	var booking models.Booking
	err := l.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("payment_intent_id = ?", intentId).
		First(&booking).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (l *Ledger) ListByUser(ctx context.Context, userId uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := l.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where(&models.Booking{UserID: userId}).
		Order("created_at DESC").
		Find(&bookings).
		Error
	return bookings, err
}
