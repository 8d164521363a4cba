package models

import (
	"gorm.io/gorm"
)

// ClubStatus is the moderation lifecycle of a club.
type ClubStatus string

const (
	ClubStatusPending  ClubStatus = "pending"
	ClubStatusApproved ClubStatus = "approved"
)

// ClubPaymentStatus is the membership-fee lifecycle, independent of moderation.
type ClubPaymentStatus string

const (
	ClubPaymentPending ClubPaymentStatus = "pending"
	ClubPaymentPaid    ClubPaymentStatus = "paid"
)

type Club struct {
	gorm.Model
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	CreatorEmail  string            `json:"creator_email" gorm:"index"`
	FeeCents      int64             `json:"fee_cents"`
	Status        ClubStatus        `json:"status"`
	PaymentStatus ClubPaymentStatus `json:"payment_status"`
	// TrackingCode is assigned exactly once, on the pending->paid transition.
	TrackingCode string `json:"tracking_code"`
}
