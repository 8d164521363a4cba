package models

import (
	"gorm.io/gorm"
)

// PaymentKind names the subject family a ledger entry pertains to.
type PaymentKind string

const (
	PaymentKindClubMembership    PaymentKind = "club_membership"
	PaymentKindEventRegistration PaymentKind = "event_registration"
	PaymentKindLegacy            PaymentKind = "legacy"
)

// Payment is an append-only ledger entry. Rows are never updated after
// insertion; the unique index on TransactionRef is what makes confirmation
// idempotent under concurrent retries.
type Payment struct {
	gorm.Model
	Email          string      `json:"email" gorm:"index"`
	AmountCents    int64       `json:"amount_cents"`
	Currency       string      `json:"currency"`
	SubjectID      uint        `json:"subject_id"`
	Kind           PaymentKind `json:"kind"`
	TransactionRef string      `json:"transaction_ref" gorm:"uniqueIndex"`
	Status         string      `json:"status"`
}

// Amount returns the ledger amount in major currency units.
func (p *Payment) Amount() float64 {
	return float64(p.AmountCents) / 100
}
