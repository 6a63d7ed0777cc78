package payment

import (
	"context"
	"fmt"

	"mentorhub/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
)

// StripeGateway implements Gateway against Stripe.
type StripeGateway struct{}

func NewStripeGateway() *StripeGateway {
	return &StripeGateway{}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, p *models.Payment) (string, string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(p.GrossCents),
		Currency: stripe.String(p.Currency),
		Metadata: map[string]string{
			"payment_id": p.ID,
			"session_id": p.SessionID,
		},
	}
	params.Context = ctx
	// The payment id doubles as the idempotency key, so a client retry of
	// intent creation always lands on the same Stripe intent.
	params.SetIdempotencyKey("intent-" + p.ID)

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", "", fmt.Errorf("stripe: failed to create payment intent: %w", err)
	}
	return pi.ID, pi.ClientSecret, nil
}

func (g *StripeGateway) GetIntent(ctx context.Context, intentID string) (*IntentInfo, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := paymentintent.Get(intentID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe: failed to fetch payment intent %s: %w", intentID, err)
	}
	info := &IntentInfo{
		ID:     pi.ID,
		Status: string(pi.Status),
	}
	if pi.LatestCharge != nil {
		info.TransactionID = pi.LatestCharge.ID
	}
	return info, nil
}

func (g *StripeGateway) Refund(ctx context.Context, intentID string, amountCents int64) (string, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(intentID),
		Amount:        stripe.Int64(amountCents),
	}
	params.Context = ctx
	params.SetIdempotencyKey(fmt.Sprintf("refund-%s-%d", intentID, amountCents))

	r, err := refund.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe: failed to create refund for intent %s: %w", intentID, err)
	}
	return r.ID, nil
}
