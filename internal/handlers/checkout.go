package handlers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/munna7487/club-sphere-server/internal/auth"
	"github.com/munna7487/club-sphere-server/internal/config"
	"github.com/munna7487/club-sphere-server/internal/gateway"
	"github.com/munna7487/club-sphere-server/internal/models"
	"github.com/munna7487/club-sphere-server/internal/notifier"
	"gorm.io/gorm"
)

// CheckoutHandler is the reconciliation engine: it opens gateway checkout
// sessions with server-asserted intent in the metadata, and on confirmation
// reads the session back from the gateway and applies exactly-once state
// transitions to clubs, payments and registrations.
type CheckoutHandler struct {
	db       *gorm.DB
	gateway  gateway.Gateway
	notifier notifier.Notifier
	cfg      *config.Config
}

func NewCheckoutHandler(db *gorm.DB, gw gateway.Gateway, notifier notifier.Notifier, cfg *config.Config) *CheckoutHandler {
	return &CheckoutHandler{db: db, gateway: gw, notifier: notifier, cfg: cfg}
}

func newTrackingCode() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return "CLB-" + strings.ToUpper(hex.EncodeToString(b))
}

/* ---------- session creation ---------- */

type CreateClubCheckoutRequest struct {
	Body struct {
		ClubID uint `json:"club_id" doc:"Club whose membership fee is being paid" required:"true"`
	}
}

type CheckoutSessionResponse struct {
	Body struct {
		URL string `json:"url" doc:"Gateway redirect URL to complete payment"`
	}
}

func (h *CheckoutHandler) HandleCreateClubCheckout(ctx context.Context, input *CreateClubCheckoutRequest) (*CheckoutSessionResponse, error) {
	var club models.Club
	if err := h.db.First(&club, input.Body.ClubID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("Club not found")
		}
		return nil, huma.Error500InternalServerError("Database error")
	}

	if club.FeeCents <= 0 {
		return nil, huma.Error400BadRequest("Club membership fee must be a positive amount")
	}
	if club.PaymentStatus == models.ClubPaymentPaid {
		return nil, huma.Error409Conflict("Membership fee already paid")
	}

	url, err := h.gateway.CreateSession(ctx, gateway.CreateParams{
		AmountCents: club.FeeCents,
		Currency:    h.cfg.Currency,
		Description: fmt.Sprintf("Membership fee for %s", club.Name),
		PayerEmail:  club.CreatorEmail,
		SuccessURL:  h.cfg.SiteDomain + "/payment/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   h.cfg.SiteDomain + "/payment/cancelled",
		Intent: gateway.Intent{
			SubjectKind: gateway.SubjectClubMembership,
			SubjectRef:  club.ID,
			PayerEmail:  club.CreatorEmail,
			DisplayName: club.Name,
		},
	})
	if err != nil {
		log.Printf("Failed to create checkout session for club %d: %v", club.ID, err)
		return nil, huma.Error500InternalServerError("Payment gateway unavailable")
	}

	res := &CheckoutSessionResponse{}
	res.Body.URL = url
	return res, nil
}

type CreateEventCheckoutRequest struct {
	Body struct {
		EventID uint `json:"event_id" doc:"Paid event to register for" required:"true"`
	}
}

func (h *CheckoutHandler) HandleCreateEventCheckout(ctx context.Context, input *CreateEventCheckoutRequest) (*CheckoutSessionResponse, error) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	var event models.Event
	if err := h.db.First(&event, input.Body.EventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("Event not found")
		}
		return nil, huma.Error500InternalServerError("Database error")
	}

	if event.Kind == models.EventKindFree {
		return nil, huma.Error400BadRequest("Free events register directly, not through checkout")
	}
	if event.PriceCents <= 0 {
		return nil, huma.Error400BadRequest("Event price must be a positive amount")
	}

	var existing models.Registration
	if err := h.db.Where("event_id = ? AND email = ?", event.ID, identity).First(&existing).Error; err == nil {
		return nil, huma.Error409Conflict("Already registered for this event")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, huma.Error500InternalServerError("Database error")
	}

	if event.AttendeeCount >= event.MaxAttendees {
		return nil, huma.Error409Conflict("Event is full")
	}

	url, err := h.gateway.CreateSession(ctx, gateway.CreateParams{
		AmountCents: event.PriceCents,
		Currency:    h.cfg.Currency,
		Description: fmt.Sprintf("Registration for %s", event.Title),
		PayerEmail:  identity,
		SuccessURL:  h.cfg.SiteDomain + "/payment/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   h.cfg.SiteDomain + "/payment/cancelled",
		Intent: gateway.Intent{
			SubjectKind: gateway.SubjectEventRegistration,
			SubjectRef:  event.ID,
			PayerEmail:  identity,
			DisplayName: event.Title,
		},
	})
	if err != nil {
		log.Printf("Failed to create checkout session for event %d: %v", event.ID, err)
		return nil, huma.Error500InternalServerError("Payment gateway unavailable")
	}

	res := &CheckoutSessionResponse{}
	res.Body.URL = url
	return res, nil
}

/* ---------- confirmation ---------- */

type ConfirmPaymentRequest struct {
	Body struct {
		SessionID string `json:"session_id" doc:"Checkout session reference returned by the gateway redirect"`
	}
}

type ConfirmPaymentResponse struct {
	Body struct {
		Message          string          `json:"message"`
		AlreadyProcessed bool            `json:"already_processed"`
		Payment          PaymentResponse `json:"payment"`
	}
}

// HandleClubPaymentSuccess confirms a club-membership checkout. The route is
// anonymous: the session itself, retrieved server-side, is the proof.
func (h *CheckoutHandler) HandleClubPaymentSuccess(ctx context.Context, input *ConfirmPaymentRequest) (*ConfirmPaymentResponse, error) {
	identity, _ := auth.IdentityFromContext(ctx)
	return h.confirm(ctx, input.Body.SessionID, identity, gateway.SubjectClubMembership)
}

// HandleEventPaymentSuccess confirms a paid event registration. The caller
// is authenticated and must be the payer recorded in the session intent.
func (h *CheckoutHandler) HandleEventPaymentSuccess(ctx context.Context, input *ConfirmPaymentRequest) (*ConfirmPaymentResponse, error) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}
	return h.confirm(ctx, input.Body.SessionID, identity, gateway.SubjectEventRegistration)
}

// confirm validates the session against the gateway and applies the
// idempotent state transition for its subject. Client input is used only to
// look the session up; everything trusted comes from the gateway response.
func (h *CheckoutHandler) confirm(ctx context.Context, sessionID, identity string, want gateway.SubjectKind) (*ConfirmPaymentResponse, error) {
	if sessionID == "" {
		return nil, huma.Error400BadRequest("Missing session reference")
	}

	sess, err := h.gateway.GetSession(ctx, sessionID)
	if err != nil {
		log.Printf("Failed to retrieve checkout session %s: %v", sessionID, err)
		return nil, huma.Error500InternalServerError("Payment gateway unavailable")
	}

	if !sess.Paid {
		return nil, huma.Error400BadRequest("Payment not completed")
	}

	intent, err := gateway.DecodeIntent(sess.Metadata)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid session metadata: " + err.Error())
	}
	if intent.SubjectKind != want {
		return nil, huma.Error400BadRequest("Session was created for a different subject")
	}
	if sess.TransactionRef == "" {
		return nil, huma.Error400BadRequest("Session carries no transaction reference")
	}

	// When the caller is authenticated, they must be the payer the server
	// recorded at session-creation time.
	if identity != "" && identity != intent.PayerEmail {
		return nil, huma.Error403Forbidden("Session belongs to a different payer")
	}

	// Idempotency fast path: the transaction reference has already been
	// reconciled. Re-apply the subject update before answering so a confirm
	// that crashed between the ledger insert and the subject update still
	// converges on retry.
	var existing models.Payment
	if err := h.db.Where("transaction_ref = ?", sess.TransactionRef).First(&existing).Error; err == nil {
		if err := h.applySubjectUpdate(&existing); err != nil {
			return nil, huma.Error500InternalServerError("Database error")
		}
		return confirmResponse(&existing, true), nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, huma.Error500InternalServerError("Database error")
	}

	switch intent.SubjectKind {
	case gateway.SubjectClubMembership:
		return h.confirmClubMembership(sess, intent)
	default:
		return h.confirmEventRegistration(sess, intent)
	}
}

// applySubjectUpdate runs the subject-side update belonging to a ledger
// entry. Both updates are written to be idempotent, so they are safe to
// re-run on every retry of the same transaction reference.
func (h *CheckoutHandler) applySubjectUpdate(payment *models.Payment) error {
	switch payment.Kind {
	case models.PaymentKindClubMembership:
		return h.settleClubMembership(payment.SubjectID)
	case models.PaymentKindEventRegistration:
		return h.reconcileAttendeeCount(payment.SubjectID)
	default:
		return nil
	}
}

// settleClubMembership flips the club from pending to paid and assigns the
// tracking code. The predicate makes it a no-op once settled, so the code is
// assigned at most once.
func (h *CheckoutHandler) settleClubMembership(clubID uint) error {
	return h.db.Model(&models.Club{}).
		Where("id = ? AND payment_status = ?", clubID, models.ClubPaymentPending).
		Updates(map[string]interface{}{
			"payment_status": models.ClubPaymentPaid,
			"tracking_code":  newTrackingCode(),
		}).Error
}

// reconcileAttendeeCount recomputes the attendee count from the registrations
// that actually exist, so retries converge instead of incrementing twice.
func (h *CheckoutHandler) reconcileAttendeeCount(eventID uint) error {
	return h.db.Model(&models.Event{}).
		Where("id = ?", eventID).
		UpdateColumn("attendee_count", gorm.Expr(
			"(SELECT COUNT(*) FROM registrations WHERE registrations.event_id = events.id AND registrations.deleted_at IS NULL)")).Error
}

func (h *CheckoutHandler) confirmClubMembership(sess *gateway.Session, intent gateway.Intent) (*ConfirmPaymentResponse, error) {
	var club models.Club
	if err := h.db.First(&club, intent.SubjectRef).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("Club not found")
		}
		return nil, huma.Error500InternalServerError("Database error")
	}

	payment := models.Payment{
		Email:          intent.PayerEmail,
		AmountCents:    sess.AmountCents,
		Currency:       sess.Currency,
		SubjectID:      club.ID,
		Kind:           models.PaymentKindClubMembership,
		TransactionRef: sess.TransactionRef,
		Status:         "paid",
	}

	// The ledger insert is the race gate: a concurrent confirm of the same
	// session loses on the unique transaction reference and takes the
	// idempotent path.
	if err := h.db.Create(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := h.db.Where("transaction_ref = ?", sess.TransactionRef).First(&payment).Error; err != nil {
				return nil, huma.Error500InternalServerError("Database error")
			}
			// The winning confirm may not have reached the club update yet;
			// settling here is a no-op when it did.
			if err := h.settleClubMembership(club.ID); err != nil {
				return nil, huma.Error500InternalServerError("Failed to update club")
			}
			return confirmResponse(&payment, true), nil
		}
		return nil, huma.Error500InternalServerError("Failed to record payment")
	}

	if err := h.settleClubMembership(club.ID); err != nil {
		return nil, huma.Error500InternalServerError("Failed to update club")
	}

	if h.notifier != nil {
		if err := h.notifier.NotifyPayment(payment, intent.DisplayName); err != nil {
			log.Printf("Failed to send notification: %v", err)
		}
	}

	return confirmResponse(&payment, false), nil
}

func (h *CheckoutHandler) confirmEventRegistration(sess *gateway.Session, intent gateway.Intent) (*ConfirmPaymentResponse, error) {
	var event models.Event
	if err := h.db.First(&event, intent.SubjectRef).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("Event not found")
		}
		return nil, huma.Error500InternalServerError("Database error")
	}

	registration := models.Registration{
		EventID:        event.ID,
		Email:          intent.PayerEmail,
		Status:         models.RegistrationPaid,
		TransactionRef: sess.TransactionRef,
		AmountCents:    sess.AmountCents,
		Currency:       sess.Currency,
	}

	payment := models.Payment{
		Email:          intent.PayerEmail,
		AmountCents:    sess.AmountCents,
		Currency:       sess.Currency,
		SubjectID:      event.ID,
		Kind:           models.PaymentKindEventRegistration,
		TransactionRef: sess.TransactionRef,
		Status:         "paid",
	}

	// The (event, email) unique index is the race gate for registrations.
	if err := h.db.Create(&registration).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// The payer is already registered, via a concurrent confirm of
			// this session or a registration made between session creation and
			// confirmation. The money is taken either way, so the transaction
			// still gets its ledger entry and the caller gets success.
			var existing models.Payment
			findErr := h.db.Where("transaction_ref = ?", sess.TransactionRef).First(&existing).Error
			switch {
			case findErr == nil:
				payment = existing
			case errors.Is(findErr, gorm.ErrRecordNotFound):
				if err := h.db.Create(&payment).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
					return nil, huma.Error500InternalServerError("Failed to record payment")
				}
			default:
				return nil, huma.Error500InternalServerError("Database error")
			}
			if err := h.reconcileAttendeeCount(event.ID); err != nil {
				return nil, huma.Error500InternalServerError("Failed to update event")
			}
			return confirmResponse(&payment, true), nil
		}
		return nil, huma.Error500InternalServerError("Failed to record registration")
	}

	if err := h.db.Create(&payment).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, huma.Error500InternalServerError("Failed to record payment")
	}

	if err := h.reconcileAttendeeCount(event.ID); err != nil {
		return nil, huma.Error500InternalServerError("Failed to update event")
	}

	if h.notifier != nil {
		if err := h.notifier.NotifyPayment(payment, intent.DisplayName); err != nil {
			log.Printf("Failed to send notification: %v", err)
		}
	}

	return confirmResponse(&payment, false), nil
}

func confirmResponse(payment *models.Payment, alreadyProcessed bool) *ConfirmPaymentResponse {
	res := &ConfirmPaymentResponse{}
	res.Body.Payment = toPaymentResponse(payment)
	res.Body.AlreadyProcessed = alreadyProcessed
	if alreadyProcessed {
		res.Body.Message = "Payment was already processed"
	} else {
		res.Body.Message = "Payment confirmed"
	}
	return res
}
