package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/munna7487/club-sphere-server/internal/auth"
	"github.com/munna7487/club-sphere-server/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Club{},
		&models.Event{},
		&models.Registration{},
		&models.Payment{},
		&models.APIKey{},
	); err != nil {
		t.Fatalf("failed to auto migrate: %v", err)
	}
	return db
}

func identityCtx(email string) context.Context {
	return context.WithValue(context.Background(), auth.IdentityKey, email)
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var se huma.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected a status error, got %v", err)
	}
	return se.GetStatus()
}

func makeFreeEvent(t *testing.T, db *gorm.DB, maxAttendees int) models.Event {
	t.Helper()
	event := models.Event{
		ClubID:       1,
		Title:        "Open Practice",
		StartsAt:     time.Now().Add(48 * time.Hour),
		MaxAttendees: maxAttendees,
		Kind:         models.EventKindFree,
		CreatorEmail: "owner@x.com",
		Status:       models.EventStatusUpcoming,
	}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("failed to create event: %v", err)
	}
	return event
}

func TestHandleRegisterFree(t *testing.T) {
	db := newTestDB(t)
	event := makeFreeEvent(t, db, 10)

	handler := NewRegistrationHandler(db)

	req := RegisterFreeRequest{}
	req.Body.EventID = event.ID

	resp, err := handler.HandleRegisterFree(identityCtx("b@x.com"), &req)
	if err != nil {
		t.Fatalf("first registration returned error: %v", err)
	}
	if resp.Body.AlreadyRegistered {
		t.Error("first registration reported as duplicate")
	}

	// Second registration for the same (event, email) is the idempotent
	// duplicate, not an error.
	resp, err = handler.HandleRegisterFree(identityCtx("b@x.com"), &req)
	if err != nil {
		t.Fatalf("duplicate registration returned error: %v", err)
	}
	if !resp.Body.AlreadyRegistered {
		t.Error("expected duplicate registration to be flagged")
	}
	if resp.Body.RegistrationID == 0 {
		t.Error("duplicate response must carry the existing registration id")
	}

	var count int64
	db.Model(&models.Registration{}).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 registration in DB, got %d", count)
	}

	var updated models.Event
	db.First(&updated, event.ID)
	if updated.AttendeeCount != 1 {
		t.Errorf("expected attendee count 1, got %d", updated.AttendeeCount)
	}
}

func TestHandleRegisterFree_Capacity(t *testing.T) {
	db := newTestDB(t)
	event := makeFreeEvent(t, db, 1)

	handler := NewRegistrationHandler(db)

	req := RegisterFreeRequest{}
	req.Body.EventID = event.ID

	if _, err := handler.HandleRegisterFree(identityCtx("b@x.com"), &req); err != nil {
		t.Fatalf("first registration returned error: %v", err)
	}

	_, err := handler.HandleRegisterFree(identityCtx("c@x.com"), &req)
	if err == nil {
		t.Fatal("expected capacity error for second registrant")
	}
	if got := statusOf(t, err); got != 409 {
		t.Errorf("expected 409, got %d", got)
	}

	var updated models.Event
	db.First(&updated, event.ID)
	if updated.AttendeeCount != 1 {
		t.Errorf("expected attendee count to stay 1, got %d", updated.AttendeeCount)
	}
}

func TestHandleRegisterFree_PaidEventRejected(t *testing.T) {
	db := newTestDB(t)
	event := models.Event{
		ClubID:       1,
		Title:        "Gala Dinner",
		StartsAt:     time.Now().Add(72 * time.Hour),
		PriceCents:   2500,
		MaxAttendees: 50,
		Kind:         models.EventKindPaid,
		CreatorEmail: "owner@x.com",
		Status:       models.EventStatusUpcoming,
	}
	db.Create(&event)

	handler := NewRegistrationHandler(db)

	req := RegisterFreeRequest{}
	req.Body.EventID = event.ID

	_, err := handler.HandleRegisterFree(identityCtx("b@x.com"), &req)
	if err == nil {
		t.Fatal("expected error for paid event on the free path")
	}
	if got := statusOf(t, err); got != 400 {
		t.Errorf("expected 400, got %d", got)
	}
}

func TestHandleRegisterFree_EventNotFound(t *testing.T) {
	db := newTestDB(t)
	handler := NewRegistrationHandler(db)

	req := RegisterFreeRequest{}
	req.Body.EventID = 999

	_, err := handler.HandleRegisterFree(identityCtx("b@x.com"), &req)
	if err == nil {
		t.Fatal("expected error for missing event")
	}
	if got := statusOf(t, err); got != 404 {
		t.Errorf("expected 404, got %d", got)
	}
}

func TestHandleRegisterFree_Unauthenticated(t *testing.T) {
	db := newTestDB(t)
	event := makeFreeEvent(t, db, 10)
	handler := NewRegistrationHandler(db)

	req := RegisterFreeRequest{}
	req.Body.EventID = event.ID

	_, err := handler.HandleRegisterFree(context.Background(), &req)
	if err == nil {
		t.Fatal("expected error for unauthenticated request")
	}
	if got := statusOf(t, err); got != 401 {
		t.Errorf("expected 401, got %d", got)
	}
}
