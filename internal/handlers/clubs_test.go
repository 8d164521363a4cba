package handlers

import (
	"testing"

	"github.com/munna7487/club-sphere-server/internal/auth"
	"github.com/munna7487/club-sphere-server/internal/models"
	"gorm.io/gorm"
)

func makeClub(t *testing.T, db *gorm.DB, creator string) models.Club {
	t.Helper()
	club := models.Club{
		Name:          "Chess Club",
		CreatorEmail:  creator,
		FeeCents:      500,
		Status:        models.ClubStatusPending,
		PaymentStatus: models.ClubPaymentPending,
	}
	if err := db.Create(&club).Error; err != nil {
		t.Fatalf("failed to create club: %v", err)
	}
	return club
}

func TestHandleCreateClub(t *testing.T) {
	db := newTestDB(t)
	handler := NewClubHandler(db, auth.NewPolicy(db), nil)

	req := CreateClubRequest{}
	req.Body.Name = "Chess Club"
	req.Body.CreatorEmail = "a@x.com"
	req.Body.FeeCents = 500

	t.Run("OwnerMatch", func(t *testing.T) {
		resp, err := handler.HandleCreateClub(identityCtx("a@x.com"), &req)
		if err != nil {
			t.Fatalf("create returned error: %v", err)
		}
		if resp.Body.Status != models.ClubStatusPending || resp.Body.PaymentStatus != models.ClubPaymentPending {
			t.Errorf("expected pending/pending, got %s/%s", resp.Body.Status, resp.Body.PaymentStatus)
		}
	})

	t.Run("OwnerMismatch", func(t *testing.T) {
		_, err := handler.HandleCreateClub(identityCtx("someone@else.com"), &req)
		if err == nil {
			t.Fatal("expected error for mismatched creator email")
		}
		if got := statusOf(t, err); got != 403 {
			t.Errorf("expected 403, got %d", got)
		}
	})

	t.Run("NonPositiveFee", func(t *testing.T) {
		bad := CreateClubRequest{}
		bad.Body.Name = "Free Club"
		bad.Body.CreatorEmail = "a@x.com"
		bad.Body.FeeCents = -100
		_, err := handler.HandleCreateClub(identityCtx("a@x.com"), &bad)
		if err == nil {
			t.Fatal("expected error for negative fee")
		}
		if got := statusOf(t, err); got != 400 {
			t.Errorf("expected 400, got %d", got)
		}
	})
}

func TestHandleDeleteClub_Authorization(t *testing.T) {
	db := newTestDB(t)
	handler := NewClubHandler(db, auth.NewPolicy(db), nil)
	club := makeClub(t, db, "a@x.com")

	req := DeleteClubInput{ID: club.ID}

	// Wrong identity is always forbidden.
	_, err := handler.HandleDeleteClub(identityCtx("b@x.com"), &req)
	if err == nil {
		t.Fatal("expected error for non-owner delete")
	}
	if got := statusOf(t, err); got != 403 {
		t.Errorf("expected 403, got %d", got)
	}

	// Case differences do not match; comparison is exact.
	_, err = handler.HandleDeleteClub(identityCtx("A@X.com"), &req)
	if err == nil {
		t.Fatal("expected error for case-mismatched identity")
	}

	if _, err := handler.HandleDeleteClub(identityCtx("a@x.com"), &req); err != nil {
		t.Fatalf("owner delete returned error: %v", err)
	}

	// Deleted club is unfindable thereafter.
	getReq := GetClubInput{ID: club.ID}
	_, err = handler.HandleGetClub(identityCtx("a@x.com"), &getReq)
	if err == nil {
		t.Fatal("expected deleted club to be unfindable")
	}
	if got := statusOf(t, err); got != 404 {
		t.Errorf("expected 404, got %d", got)
	}
}

func TestHandleDeleteClub_PaidClubKept(t *testing.T) {
	db := newTestDB(t)
	handler := NewClubHandler(db, auth.NewPolicy(db), nil)
	club := makeClub(t, db, "a@x.com")
	db.Model(&club).Update("payment_status", models.ClubPaymentPaid)

	req := DeleteClubInput{ID: club.ID}
	_, err := handler.HandleDeleteClub(identityCtx("a@x.com"), &req)
	if err == nil {
		t.Fatal("expected error deleting a paid club")
	}
	if got := statusOf(t, err); got != 409 {
		t.Errorf("expected 409, got %d", got)
	}
}

func TestAdminModeration(t *testing.T) {
	db := newTestDB(t)
	handler := NewClubHandler(db, auth.NewPolicy(db), nil)

	db.Create(&models.User{Email: "admin@x.com", Role: models.RoleAdmin})
	db.Create(&models.User{Email: "pleb@x.com", Role: models.RoleUser})

	club := makeClub(t, db, "a@x.com")

	t.Run("ApproveRequiresAdmin", func(t *testing.T) {
		req := ApproveClubInput{ID: club.ID}
		_, err := handler.HandleApproveClub(identityCtx("pleb@x.com"), &req)
		if err == nil {
			t.Fatal("expected error for non-admin approval")
		}
		if got := statusOf(t, err); got != 403 {
			t.Errorf("expected 403, got %d", got)
		}

		resp, err := handler.HandleApproveClub(identityCtx("admin@x.com"), &req)
		if err != nil {
			t.Fatalf("admin approval returned error: %v", err)
		}
		if resp.Body.Status != models.ClubStatusApproved {
			t.Errorf("expected approved, got %s", resp.Body.Status)
		}
	})

	t.Run("RejectRemovesPendingClub", func(t *testing.T) {
		pending := makeClub(t, db, "b@x.com")
		req := RejectClubInput{ID: pending.ID}
		if _, err := handler.HandleRejectClub(identityCtx("admin@x.com"), &req); err != nil {
			t.Fatalf("reject returned error: %v", err)
		}

		var count int64
		db.Model(&models.Club{}).Where("id = ?", pending.ID).Count(&count)
		if count != 0 {
			t.Error("expected rejected club to be removed")
		}
	})

	t.Run("ListPaidRequiresAdmin", func(t *testing.T) {
		_, err := handler.HandleListPaidClubs(identityCtx("pleb@x.com"), &struct{}{})
		if err == nil {
			t.Fatal("expected error for non-admin listing")
		}
		if got := statusOf(t, err); got != 403 {
			t.Errorf("expected 403, got %d", got)
		}
	})
}
