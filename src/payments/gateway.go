package payments

import "context"

type IntentStatus string

const (
	INTENT_REQUIRES_CONFIRMATION IntentStatus = "requires_confirmation"
	INTENT_SUCCEEDED             IntentStatus = "succeeded"
	INTENT_FAILED                IntentStatus = "failed"
)

// Intent mirrors the gateway's view of a single payment attempt. Amount is
// in minor units; the gateway owns the record and the orchestrator only
// reads or creates it.
type Intent struct {
	ID           string
	Status       IntentStatus
	ClientSecret string
	Amount       int64
	Currency     string
	Metadata     map[string]string
}

type CreateIntentParams struct {
	Amount        int64
	Currency      string
	PaymentMethod string
	Metadata      map[string]string
	ReturnURL     string
}

// Gateway is the port to the external payment-processing API. The stripe
// implementation lives in lib; tests substitute a fake.
type Gateway interface {
	CreateAndConfirmIntent(ctx context.Context, params CreateIntentParams) (*Intent, error)
	RetrieveIntent(ctx context.Context, id string) (*Intent, error)
}

var supportedCurrencies = map[string]bool{
	"usd": true,
	"eur": true,
	"gbp": true,
	"php": true,
	"aud": true,
	"cad": true,
	"sgd": true,
	"jpy": true,
}

func SupportedCurrency(code string) bool {
	return supportedCurrencies[code]
}
