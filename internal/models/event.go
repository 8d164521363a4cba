package models

import (
	"time"

	"gorm.io/gorm"
)

// EventKind decides the registration path: free events register directly,
// paid events go through the checkout gateway.
type EventKind string

const (
	EventKindFree EventKind = "free"
	EventKindPaid EventKind = "paid"
)

type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "upcoming"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

type Event struct {
	gorm.Model
	ClubID        uint        `json:"club_id"`
	Club          Club        `json:"-" gorm:"foreignKey:ClubID"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	StartsAt      time.Time   `json:"starts_at"`
	PriceCents    int64       `json:"price_cents"`
	MaxAttendees  int         `json:"max_attendees"`
	AttendeeCount int         `json:"attendee_count"`
	Kind          EventKind   `json:"kind"`
	CreatorEmail  string      `json:"creator_email" gorm:"index"`
	Status        EventStatus `json:"status"`
}
