package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/munna7487/club-sphere-server/internal/auth"
	"github.com/munna7487/club-sphere-server/internal/models"
	"gorm.io/gorm"
)

// RegistrationHandler is the guard in front of event registration: one
// registration per (event, email), capacity enforced, free/paid branching.
// Paid events never pass through here; they go via checkout confirmation.
type RegistrationHandler struct {
	db *gorm.DB
}

func NewRegistrationHandler(db *gorm.DB) *RegistrationHandler {
	return &RegistrationHandler{db: db}
}

var (
	errEventFull         = errors.New("event is full")
	errAlreadyRegistered = errors.New("already registered")
)

type RegisterFreeRequest struct {
	Body struct {
		EventID uint `json:"event_id" doc:"Event to register for" required:"true"`
	}
}

type RegisterFreeResponse struct {
	Body struct {
		Message           string `json:"message"`
		RegistrationID    uint   `json:"registration_id"`
		AlreadyRegistered bool   `json:"already_registered"`
	}
}

func (h *RegistrationHandler) HandleRegisterFree(ctx context.Context, input *RegisterFreeRequest) (*RegisterFreeResponse, error) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	var registration models.Registration
	err := h.db.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.First(&event, input.Body.EventID).Error; err != nil {
			return err
		}

		if event.Kind != models.EventKindFree {
			return huma.Error400BadRequest("Paid events register through the checkout flow")
		}

		// Fast path; the composite unique index is the real gate.
		var existing models.Registration
		if err := tx.Where("event_id = ? AND email = ?", event.ID, identity).First(&existing).Error; err == nil {
			registration = existing
			return errAlreadyRegistered
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if event.AttendeeCount >= event.MaxAttendees {
			return errEventFull
		}

		registration = models.Registration{
			EventID: event.ID,
			Email:   identity,
			Status:  models.RegistrationFree,
		}
		if err := tx.Create(&registration).Error; err != nil {
			return err
		}

		// Conditional increment so a concurrent registration on another
		// instance cannot push the count past capacity.
		res := tx.Model(&models.Event{}).
			Where("id = ? AND attendee_count < max_attendees", event.ID).
			UpdateColumn("attendee_count", gorm.Expr("attendee_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errEventFull
		}

		return nil
	})

	res := &RegisterFreeResponse{}
	switch {
	case err == nil:
		res.Body.Message = "Registration successful"
		res.Body.RegistrationID = registration.ID
		return res, nil
	case errors.Is(err, errAlreadyRegistered), errors.Is(err, gorm.ErrDuplicatedKey):
		// A duplicate — whether seen on the fast path or raised by the unique
		// index during a race — is the idempotent success case.
		if registration.ID == 0 {
			if err := h.db.Where("event_id = ? AND email = ?", input.Body.EventID, identity).First(&registration).Error; err != nil {
				return nil, huma.Error500InternalServerError("Failed to load registration")
			}
		}
		res.Body.Message = "Already registered for this event"
		res.Body.RegistrationID = registration.ID
		res.Body.AlreadyRegistered = true
		return res, nil
	case errors.Is(err, errEventFull):
		return nil, huma.Error409Conflict("Event is full")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, huma.Error404NotFound("Event not found")
	default:
		var statusErr huma.StatusError
		if errors.As(err, &statusErr) {
			return nil, err
		}
		return nil, huma.Error500InternalServerError("Failed to process registration: " + err.Error())
	}
}
