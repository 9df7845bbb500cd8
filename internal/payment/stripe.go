package payment

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeGateway creates card payment intents through Stripe.
type StripeGateway struct {
	api *client.API
}

// NewStripeGateway returns nil when no secret key is configured.
func NewStripeGateway(secretKey string) *StripeGateway {
	if secretKey == "" {
		return nil
	}
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api}
}

// CreateChargeIntent creates a card PaymentIntent and returns its client secret.
func (g *StripeGateway) CreateChargeIntent(ctx context.Context, amountMinor int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amountMinor),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	intent, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return "", err
	}
	if intent.ClientSecret == "" {
		return "", errors.New("payment intent has no client secret")
	}
	return intent.ClientSecret, nil
}
