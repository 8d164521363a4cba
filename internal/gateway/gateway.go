package gateway

import (
	"context"
)

// Session is the gateway's view of a checkout, read back at confirmation
// time. It is the single source of truth for whether a payment happened;
// client-supplied success parameters are only ever used to look one up.
type Session struct {
	ID string
	// Paid is true only when the gateway reports the session as paid.
	Paid bool
	// TransactionRef is the gateway's unique payment-intent identifier,
	// used as the ledger idempotency key.
	TransactionRef string
	AmountCents    int64
	Currency       string
	PayerEmail     string
	Metadata       map[string]string
}

// CreateParams describes the checkout session to open. The intent is
// embedded into session metadata so the confirmation step can recover it
// without trusting client input.
type CreateParams struct {
	AmountCents int64
	Currency    string
	Description string
	PayerEmail  string
	SuccessURL  string
	CancelURL   string
	Intent      Intent
}

// Gateway is the hosted-checkout client. The production implementation
// talks to Stripe; tests substitute a fake.
type Gateway interface {
	CreateSession(ctx context.Context, params CreateParams) (redirectURL string, err error)
	GetSession(ctx context.Context, id string) (*Session, error)
}
