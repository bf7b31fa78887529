package lib

import (
	"context"
	"errors"
	"os"

	"ebm/src/payments"

	"github.com/stripe/stripe-go/v82"
)

var stripeClient *stripe.Client

func GetStripeClient() *stripe.Client {
	if stripeClient != nil {
		return stripeClient
	}
	apiKey := os.Getenv("STRIPE_SECRET_KEY")
	sc := stripe.NewClient(apiKey)
	stripeClient = sc

	return sc
}

func NewStripeClient(c *stripe.Client) {
	stripeClient = c
}

// StripeGateway adapts the Stripe PaymentIntents API to the payments.Gateway
// port. Amounts stay in minor units on this side of the boundary.
type StripeGateway struct{}

func NewStripeGateway() *StripeGateway {
	return &StripeGateway{}
}

func (g *StripeGateway) CreateAndConfirmIntent(ctx context.Context, params payments.CreateIntentParams) (*payments.Intent, error) {
	sc := GetStripeClient()
	createParams := &stripe.PaymentIntentCreateParams{
		Amount:        stripe.Int64(params.Amount),
		Currency:      stripe.String(params.Currency),
		PaymentMethod: stripe.String(params.PaymentMethod),
		Confirm:       stripe.Bool(true),
		Metadata:      params.Metadata,
		AutomaticPaymentMethods: &stripe.PaymentIntentCreateAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	if params.ReturnURL != "" {
		createParams.ReturnURL = stripe.String(params.ReturnURL)
	}
	pi, err := sc.V1PaymentIntents.Create(ctx, createParams)
	if err != nil {
		return nil, err
	}
	return intentFromStripe(pi), nil
}

func (g *StripeGateway) RetrieveIntent(ctx context.Context, id string) (*payments.Intent, error) {
	sc := GetStripeClient()
	pi, err := sc.V1PaymentIntents.Retrieve(ctx, id, nil)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeResourceMissing {
			return nil, payments.ErrNotFound
		}
		return nil, err
	}
	return intentFromStripe(pi), nil
}

func intentFromStripe(pi *stripe.PaymentIntent) *payments.Intent {
	return &payments.Intent{
		ID:           pi.ID,
		Status:       payments.IntentStatus(pi.Status),
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Metadata:     pi.Metadata,
	}
}
