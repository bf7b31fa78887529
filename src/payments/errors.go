package payments

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports an unknown booking or payment intent id.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicatePayment reports that a Booking already references the
	// payment intent. Finalize treats it as success-equivalent.
	ErrDuplicatePayment = errors.New("a booking already exists for this payment")
)

// ValidationError reports malformed input. Handlers surface it as a
// user-facing message.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// GatewayError wraps a payment gateway network or API failure, including
// timeouts. It is distinct from a declined payment: after a GatewayError the
// final intent status is unknown.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway error on %s: %s", e.Op, e.Err.Error())
}

func (e *GatewayError) Unwrap() error { return e.Err }

// NotCompletedError is the Finalize outcome for an intent that has not
// reached succeeded. It is a valid non-terminal state, not a failure.
type NotCompletedError struct {
	IntentID string
	Status   IntentStatus
}

func (e *NotCompletedError) Error() string {
	return fmt.Sprintf("payment %s not completed: status is %s", e.IntentID, e.Status)
}
