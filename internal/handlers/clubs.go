package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/munna7487/club-sphere-server/internal/auth"
	"github.com/munna7487/club-sphere-server/internal/models"
	"github.com/munna7487/club-sphere-server/internal/notifier"
	"gorm.io/gorm"
)

type ClubHandler struct {
	db       *gorm.DB
	policy   *auth.Policy
	notifier notifier.Notifier
}

func NewClubHandler(db *gorm.DB, policy *auth.Policy, notifier notifier.Notifier) *ClubHandler {
	return &ClubHandler{db: db, policy: policy, notifier: notifier}
}

type ClubResponse struct {
	ID            uint                     `json:"id"`
	Name          string                   `json:"name"`
	Description   string                   `json:"description"`
	CreatorEmail  string                   `json:"creator_email"`
	FeeCents      int64                    `json:"fee_cents"`
	Status        models.ClubStatus        `json:"status"`
	PaymentStatus models.ClubPaymentStatus `json:"payment_status"`
	TrackingCode  string                   `json:"tracking_code,omitempty"`
	CreatedAt     time.Time                `json:"created_at"`
}

func toClubResponse(c *models.Club) ClubResponse {
	return ClubResponse{
		ID:            c.ID,
		Name:          c.Name,
		Description:   c.Description,
		CreatorEmail:  c.CreatorEmail,
		FeeCents:      c.FeeCents,
		Status:        c.Status,
		PaymentStatus: c.PaymentStatus,
		TrackingCode:  c.TrackingCode,
		CreatedAt:     c.CreatedAt,
	}
}

type CreateClubRequest struct {
	Body struct {
		Name         string `json:"name" doc:"Club name" required:"true"`
		Description  string `json:"description" doc:"What the club is about"`
		CreatorEmail string `json:"creator_email" doc:"Email of the club creator" required:"true"`
		FeeCents     int64  `json:"fee_cents" doc:"Membership fee in minor currency units" required:"true"`
	}
}

type CreateClubResponse struct {
	Body ClubResponse
}

func (h *ClubHandler) HandleCreateClub(ctx context.Context, input *CreateClubRequest) (*CreateClubResponse, error) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if input.Body.FeeCents <= 0 {
		return nil, huma.Error400BadRequest("Membership fee must be a positive amount in minor currency units")
	}
	if input.Body.Name == "" {
		return nil, huma.Error400BadRequest("Club name is required")
	}

	club := models.Club{
		Name:          input.Body.Name,
		Description:   input.Body.Description,
		CreatorEmail:  input.Body.CreatorEmail,
		FeeCents:      input.Body.FeeCents,
		Status:        models.ClubStatusPending,
		PaymentStatus: models.ClubPaymentPending,
	}

	if err := h.policy.CanManageClub(identity, &club); err != nil {
		return nil, err
	}

	if err := h.db.Create(&club).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to create club")
	}

	if h.notifier != nil {
		if err := h.notifier.NotifyClubSubmitted(club); err != nil {
			log.Printf("Failed to send notification: %v", err)
		}
	}

	return &CreateClubResponse{Body: toClubResponse(&club)}, nil
}

type ListClubsInput struct {
	Status  string `query:"status" doc:"Filter by lifecycle status (pending/approved)"`
	Creator string `query:"creator" doc:"Filter by creator email"`
}

type ListClubsOutput struct {
	Body []ClubResponse
}

func (h *ClubHandler) HandleListClubs(ctx context.Context, input *ListClubsInput) (*ListClubsOutput, error) {
	q := h.db.Model(&models.Club{})
	if input.Status != "" {
		q = q.Where("status = ?", input.Status)
	}
	if input.Creator != "" {
		q = q.Where("creator_email = ?", input.Creator)
	}

	var clubs []models.Club
	if err := q.Order("created_at DESC").Find(&clubs).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list clubs")
	}

	out := &ListClubsOutput{Body: []ClubResponse{}}
	for i := range clubs {
		out.Body = append(out.Body, toClubResponse(&clubs[i]))
	}
	return out, nil
}

type GetClubInput struct {
	ID uint `path:"id"`
}

type GetClubOutput struct {
	Body ClubResponse
}

func (h *ClubHandler) HandleGetClub(ctx context.Context, input *GetClubInput) (*GetClubOutput, error) {
	var club models.Club
	if err := h.db.First(&club, input.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("Club not found")
		}
		return nil, huma.Error500InternalServerError("Database error")
	}
	return &GetClubOutput{Body: toClubResponse(&club)}, nil
}

type DeleteClubInput struct {
	ID uint `path:"id"`
}

func (h *ClubHandler) HandleDeleteClub(ctx context.Context, input *DeleteClubInput) (*struct{}, error) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	var club models.Club
	if err := h.db.First(&club, input.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("Club not found")
		}
		return nil, huma.Error500InternalServerError("Database error")
	}

	if err := h.policy.CanManageClub(identity, &club); err != nil {
		return nil, err
	}

	// A paid club has ledger entries referencing it; deleting it would orphan
	// them, so it stays.
	if club.PaymentStatus == models.ClubPaymentPaid {
		return nil, huma.Error409Conflict("Club has a completed membership payment and cannot be deleted")
	}

	if err := h.db.Delete(&club).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to delete club")
	}

	return nil, nil
}

type ApproveClubInput struct {
	ID uint `path:"id"`
}

type ApproveClubOutput struct {
	Body ClubResponse
}

func (h *ClubHandler) HandleApproveClub(ctx context.Context, input *ApproveClubInput) (*ApproveClubOutput, error) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}
	if err := h.policy.RequireAdmin(identity); err != nil {
		return nil, err
	}

	var club models.Club
	if err := h.db.First(&club, input.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("Club not found")
		}
		return nil, huma.Error500InternalServerError("Database error")
	}

	club.Status = models.ClubStatusApproved
	if err := h.db.Save(&club).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to approve club")
	}

	return &ApproveClubOutput{Body: toClubResponse(&club)}, nil
}

type RejectClubInput struct {
	ID uint `path:"id"`
}

func (h *ClubHandler) HandleRejectClub(ctx context.Context, input *RejectClubInput) (*struct{}, error) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}
	if err := h.policy.RequireAdmin(identity); err != nil {
		return nil, err
	}

	var club models.Club
	if err := h.db.First(&club, input.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("Club not found")
		}
		return nil, huma.Error500InternalServerError("Database error")
	}

	if club.PaymentStatus == models.ClubPaymentPaid {
		return nil, huma.Error409Conflict("Club has a completed membership payment and cannot be rejected")
	}

	if err := h.db.Delete(&club).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to reject club")
	}

	return nil, nil
}

type ListPaidClubsOutput struct {
	Body []ClubResponse
}

func (h *ClubHandler) HandleListPaidClubs(ctx context.Context, input *struct{}) (*ListPaidClubsOutput, error) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}
	if err := h.policy.RequireAdmin(identity); err != nil {
		return nil, err
	}

	var clubs []models.Club
	if err := h.db.Where("payment_status = ?", models.ClubPaymentPaid).Order("created_at DESC").Find(&clubs).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list clubs")
	}

	out := &ListPaidClubsOutput{Body: []ClubResponse{}}
	for i := range clubs {
		out.Body = append(out.Body, toClubResponse(&clubs[i]))
	}
	return out, nil
}
