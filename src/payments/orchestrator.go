package payments

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"ebm/src/config"
	"ebm/src/models"
	"ebm/src/types"
)

// Orchestrator coordinates gateway confirmation with ledger writes. A
// Booking row is only ever written after the gateway reports succeeded, so
// a failure before that point leaves nothing behind. The one unsafe window
// is a ledger-write failure after gateway success; Finalize is re-enterable
// and heals it using the payment reference as idempotency key.
type Orchestrator struct {
	gateway Gateway
	ledger  *Ledger
	timeout time.Duration
}

func NewOrchestrator(gateway Gateway, ledger *Ledger) *Orchestrator {
	return &Orchestrator{
		gateway: gateway,
		ledger:  ledger,
		timeout: config.GetGatewayTimeout(),
	}
}

type ChargeParams struct {
	PaymentMethod string
	Amount        int64
	Currency      string
	Package       string
	EventDate     time.Time
	UserID        uint
	ReturnURL     string
}

// ChargeResult carries the outcome of a charge attempt. Booking is nil when
// the intent did not reach succeeded; IntentStatus then tells the caller
// what to poll or retry on.
type ChargeResult struct {
	Booking      *models.Booking
	ClientSecret string
	IntentStatus IntentStatus
}

func (o *Orchestrator) ChargeAndBook(ctx context.Context, params ChargeParams) (*ChargeResult, error) {
	if params.Amount <= 0 {
		return nil, &ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	if !SupportedCurrency(params.Currency) {
		return nil, &ValidationError{Field: "currency", Reason: fmt.Sprintf("unsupported currency code [%s]", params.Currency)}
	}
	if params.UserID == 0 {
		return nil, &ValidationError{Field: "user", Reason: "unknown user"}
	}
	if params.PaymentMethod == "" {
		return nil, &ValidationError{Field: "payment_method", Reason: "missing payment method"}
	}

	cctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	intent, err := o.gateway.CreateAndConfirmIntent(cctx, CreateIntentParams{
		Amount:        params.Amount,
		Currency:      params.Currency,
		PaymentMethod: params.PaymentMethod,
		ReturnURL:     params.ReturnURL,
		Metadata: map[string]string{
			"package":   params.Package,
			"eventDate": params.EventDate.Format(config.TIME_PARSE_FORMAT),
			"userId":    fmt.Sprint(params.UserID),
		},
	})
	if err != nil {
		log.Printf("[ChargeAndBook] gateway error: %s\n", err.Error())
		return nil, &GatewayError{Op: "create_intent", Err: err}
	}
	if intent.Status != INTENT_SUCCEEDED {
		log.Printf("[ChargeAndBook] intent [%s] not settled: %s\n", intent.ID, intent.Status)
		return &ChargeResult{ClientSecret: intent.ClientSecret, IntentStatus: intent.Status}, nil
	}

	booking, err := o.bookingFromIntent(intent)
	if err != nil {
		return nil, err
	}
	if err := o.ledger.Create(ctx, booking); err != nil {
		if errors.Is(err, ErrDuplicatePayment) {
			existing, err := o.ledger.GetByPaymentIntent(ctx, intent.ID)
			if err != nil {
				return nil, err
			}
			booking = existing
		} else {
			// The charge settled but the row is missing. Finalize re-enters
			// with the same intent id and completes the write.
			return nil, err
		}
	}
	return &ChargeResult{Booking: booking, ClientSecret: intent.ClientSecret, IntentStatus: intent.Status}, nil
}

// Finalize re-fetches the intent and returns the Booking for it, creating
// the row if the redirect-back path got here before the charge handler
// finished. Safe to call any number of times for one intent.
func (o *Orchestrator) Finalize(ctx context.Context, intentId string) (*models.Booking, error) {
	if intentId == "" {
		return nil, &ValidationError{Field: "payment_intent", Reason: "missing intent id"}
	}
	cctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	intent, err := o.gateway.RetrieveIntent(cctx, intentId)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Printf("[Finalize] gateway error: %s\n", err.Error())
		return nil, &GatewayError{Op: "retrieve_intent", Err: err}
	}
	if intent.Status != INTENT_SUCCEEDED {
		return nil, &NotCompletedError{IntentID: intent.ID, Status: intent.Status}
	}

	booking, err := o.bookingFromIntent(intent)
	if err != nil {
		return nil, err
	}
	if err := o.ledger.Create(ctx, booking); err != nil {
		if !errors.Is(err, ErrDuplicatePayment) {
			return nil, err
		}
		return o.ledger.GetByPaymentIntent(ctx, intent.ID)
	}
	return booking, nil
}

func (o *Orchestrator) Booking(ctx context.Context, id uint) (*models.Booking, error) {
	return o.ledger.GetByID(ctx, id)
}

func (o *Orchestrator) Bookings(ctx context.Context, userId uint) ([]models.Booking, error) {
	return o.ledger.ListByUser(ctx, userId)
}

// bookingFromIntent derives booking-shaped data from the intent's metadata.
// The intent is the source of truth, so both the charge path and the
// redirect-back path build identical rows.
func (o *Orchestrator) bookingFromIntent(intent *Intent) (*models.Booking, error) {
	uid, err := strconv.ParseUint(intent.Metadata["userId"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("intent [%s] has no usable userId metadata: %w", intent.ID, err)
	}
	eventDate, err := time.Parse(config.TIME_PARSE_FORMAT, intent.Metadata["eventDate"])
	if err != nil {
		return nil, fmt.Errorf("intent [%s] has no usable eventDate metadata: %w", intent.ID, err)
	}
	return &models.Booking{
		UserID:          uint(uid),
		Package:         intent.Metadata["package"],
		EventDate:       eventDate,
		Amount:          float64(intent.Amount) / 100,
		Currency:        intent.Currency,
		PaymentIntentId: intent.ID,
		Status:          types.BOOKING_CONFIRMED,
	}, nil
}
