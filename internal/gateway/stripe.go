package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// Gateway calls must not hang a confirmation forever; a timed-out call
// surfaces as a retryable failure with no state applied.
const stripeTimeout = 15 * time.Second

type StripeGateway struct {
	sc *client.API
}

func NewStripeGateway(secretKey string) *StripeGateway {
	backends := stripe.NewBackends(&http.Client{Timeout: stripeTimeout})
	return &StripeGateway{sc: client.New(secretKey, backends)}
}

func (g *StripeGateway) CreateSession(ctx context.Context, p CreateParams) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(p.Currency),
					UnitAmount: stripe.Int64(p.AmountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(p.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx
	if p.PayerEmail != "" {
		params.CustomerEmail = stripe.String(p.PayerEmail)
	}
	for k, v := range p.Intent.Encode() {
		params.AddMetadata(k, v)
	}

	s, err := g.sc.CheckoutSessions.New(params)
	if err != nil {
		return "", err
	}
	return s.URL, nil
}

func (g *StripeGateway) GetSession(ctx context.Context, id string) (*Session, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := g.sc.CheckoutSessions.Get(id, params)
	if err != nil {
		return nil, err
	}

	sess := &Session{
		ID:          s.ID,
		Paid:        s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		AmountCents: s.AmountTotal,
		Currency:    string(s.Currency),
		Metadata:    s.Metadata,
	}
	if s.PaymentIntent != nil {
		sess.TransactionRef = s.PaymentIntent.ID
	}
	if s.CustomerDetails != nil && s.CustomerDetails.Email != "" {
		sess.PayerEmail = s.CustomerDetails.Email
	} else {
		sess.PayerEmail = s.CustomerEmail
	}
	return sess, nil
}
