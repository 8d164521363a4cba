package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/munna7487/club-sphere-server/internal/auth"
	"github.com/munna7487/club-sphere-server/internal/models"
	"gorm.io/gorm"
)

type EventHandler struct {
	db     *gorm.DB
	policy *auth.Policy
}

func NewEventHandler(db *gorm.DB, policy *auth.Policy) *EventHandler {
	return &EventHandler{db: db, policy: policy}
}

type EventResponse struct {
	ID            uint               `json:"id"`
	ClubID        uint               `json:"club_id"`
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	StartsAt      time.Time          `json:"starts_at"`
	PriceCents    int64              `json:"price_cents"`
	MaxAttendees  int                `json:"max_attendees"`
	AttendeeCount int                `json:"attendee_count"`
	Kind          models.EventKind   `json:"kind"`
	CreatorEmail  string             `json:"creator_email"`
	Status        models.EventStatus `json:"status"`
}

func toEventResponse(e *models.Event) EventResponse {
	return EventResponse{
		ID:            e.ID,
		ClubID:        e.ClubID,
		Title:         e.Title,
		Description:   e.Description,
		StartsAt:      e.StartsAt,
		PriceCents:    e.PriceCents,
		MaxAttendees:  e.MaxAttendees,
		AttendeeCount: e.AttendeeCount,
		Kind:          e.Kind,
		CreatorEmail:  e.CreatorEmail,
		Status:        e.Status,
	}
}

type CreateEventRequest struct {
	Body struct {
		ClubID       uint      `json:"club_id" doc:"Owning club" required:"true"`
		Title        string    `json:"title" doc:"Event title" required:"true"`
		Description  string    `json:"description"`
		StartsAt     time.Time `json:"starts_at" doc:"Event schedule" required:"true"`
		PriceCents   int64     `json:"price_cents" doc:"Ticket price in minor currency units, 0 for free events"`
		MaxAttendees int       `json:"max_attendees" doc:"Capacity limit" required:"true"`
		Kind         string    `json:"kind" doc:"free or paid" required:"true" enum:"free,paid"`
	}
}

type CreateEventResponse struct {
	Body EventResponse
}

func (h *EventHandler) HandleCreateEvent(ctx context.Context, input *CreateEventRequest) (*CreateEventResponse, error) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	kind := models.EventKind(input.Body.Kind)
	switch kind {
	case models.EventKindFree:
		if input.Body.PriceCents != 0 {
			return nil, huma.Error400BadRequest("Free events cannot carry a price")
		}
	case models.EventKindPaid:
		if input.Body.PriceCents <= 0 {
			return nil, huma.Error400BadRequest("Paid events need a positive price in minor currency units")
		}
	default:
		return nil, huma.Error400BadRequest("Event kind must be free or paid")
	}
	if input.Body.MaxAttendees <= 0 {
		return nil, huma.Error400BadRequest("Capacity must be positive")
	}

	var club models.Club
	if err := h.db.First(&club, input.Body.ClubID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("Club not found")
		}
		return nil, huma.Error500InternalServerError("Database error")
	}

	// Only the club's owner creates events under it.
	if err := h.policy.CanManageClub(identity, &club); err != nil {
		return nil, err
	}

	event := models.Event{
		ClubID:       club.ID,
		Title:        input.Body.Title,
		Description:  input.Body.Description,
		StartsAt:     input.Body.StartsAt,
		PriceCents:   input.Body.PriceCents,
		MaxAttendees: input.Body.MaxAttendees,
		Kind:         kind,
		CreatorEmail: identity,
		Status:       models.EventStatusUpcoming,
	}

	if err := h.db.Create(&event).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to create event")
	}

	return &CreateEventResponse{Body: toEventResponse(&event)}, nil
}

type ListEventsInput struct {
	ClubID uint   `query:"club_id" doc:"Filter by owning club"`
	Kind   string `query:"kind" doc:"Filter by kind (free/paid)"`
}

type ListEventsOutput struct {
	Body []EventResponse
}

func (h *EventHandler) HandleListEvents(ctx context.Context, input *ListEventsInput) (*ListEventsOutput, error) {
	q := h.db.Model(&models.Event{})
	if input.ClubID != 0 {
		q = q.Where("club_id = ?", input.ClubID)
	}
	if input.Kind != "" {
		q = q.Where("kind = ?", input.Kind)
	}

	var events []models.Event
	if err := q.Order("starts_at ASC").Find(&events).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list events")
	}

	out := &ListEventsOutput{Body: []EventResponse{}}
	for i := range events {
		out.Body = append(out.Body, toEventResponse(&events[i]))
	}
	return out, nil
}

type GetEventInput struct {
	ID uint `path:"id"`
}

type GetEventOutput struct {
	Body EventResponse
}

func (h *EventHandler) HandleGetEvent(ctx context.Context, input *GetEventInput) (*GetEventOutput, error) {
	var event models.Event
	if err := h.db.First(&event, input.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("Event not found")
		}
		return nil, huma.Error500InternalServerError("Database error")
	}
	return &GetEventOutput{Body: toEventResponse(&event)}, nil
}

type DeleteEventInput struct {
	ID uint `path:"id"`
}

func (h *EventHandler) HandleDeleteEvent(ctx context.Context, input *DeleteEventInput) (*struct{}, error) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	var event models.Event
	if err := h.db.First(&event, input.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("Event not found")
		}
		return nil, huma.Error500InternalServerError("Database error")
	}

	if err := h.policy.CanManageEvent(identity, &event); err != nil {
		return nil, err
	}

	if err := h.db.Delete(&event).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to delete event")
	}

	return nil, nil
}
