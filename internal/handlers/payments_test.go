package handlers

import (
	"testing"

	"github.com/munna7487/club-sphere-server/internal/auth"
	"github.com/munna7487/club-sphere-server/internal/models"
)

func TestHandleListPayments(t *testing.T) {
	db := newTestDB(t)
	handler := NewPaymentHandler(db, auth.NewPolicy(db))

	db.Create(&models.Payment{Email: "a@x.com", AmountCents: 500, Currency: "usd",
		SubjectID: 1, Kind: models.PaymentKindClubMembership, TransactionRef: "pi_1", Status: "paid"})
	db.Create(&models.Payment{Email: "a@x.com", AmountCents: 2500, Currency: "usd",
		SubjectID: 2, Kind: models.PaymentKindEventRegistration, TransactionRef: "pi_2", Status: "paid"})
	db.Create(&models.Payment{Email: "b@x.com", AmountCents: 1000, Currency: "usd",
		SubjectID: 3, Kind: models.PaymentKindClubMembership, TransactionRef: "pi_3", Status: "paid"})

	t.Run("Self", func(t *testing.T) {
		resp, err := handler.HandleListPayments(identityCtx("a@x.com"), &ListPaymentsInput{Email: "a@x.com"})
		if err != nil {
			t.Fatalf("list returned error: %v", err)
		}
		if len(resp.Body) != 2 {
			t.Errorf("expected 2 payments, got %d", len(resp.Body))
		}
	})

	t.Run("OtherUser", func(t *testing.T) {
		_, err := handler.HandleListPayments(identityCtx("a@x.com"), &ListPaymentsInput{Email: "b@x.com"})
		if err == nil {
			t.Fatal("expected error listing another user's payments")
		}
		if got := statusOf(t, err); got != 403 {
			t.Errorf("expected 403, got %d", got)
		}
	})
}
