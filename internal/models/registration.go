package models

import (
	"gorm.io/gorm"
)

// RegistrationStatus records how the attendee got in: free events register
// directly, paid events only through a confirmed checkout session.
type RegistrationStatus string

const (
	RegistrationFree RegistrationStatus = "free"
	RegistrationPaid RegistrationStatus = "paid"
)

type Registration struct {
	gorm.Model
	EventID uint               `json:"event_id" gorm:"uniqueIndex:idx_event_email"`
	Email   string             `json:"email" gorm:"uniqueIndex:idx_event_email"`
	Event   Event              `json:"-" gorm:"foreignKey:EventID"`
	Status  RegistrationStatus `json:"status"`
	// Set only for paid registrations.
	TransactionRef string `json:"transaction_ref"`
	AmountCents    int64  `json:"amount_cents"`
	Currency       string `json:"currency"`
}
