package handlers

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/munna7487/club-sphere-server/internal/auth"
	"github.com/munna7487/club-sphere-server/internal/models"
	"gorm.io/gorm"
)

type PaymentHandler struct {
	db     *gorm.DB
	policy *auth.Policy
}

func NewPaymentHandler(db *gorm.DB, policy *auth.Policy) *PaymentHandler {
	return &PaymentHandler{db: db, policy: policy}
}

type PaymentResponse struct {
	ID             uint               `json:"id"`
	Email          string             `json:"email"`
	Amount         float64            `json:"amount" doc:"Amount in major currency units"`
	AmountCents    int64              `json:"amount_cents"`
	Currency       string             `json:"currency"`
	SubjectID      uint               `json:"subject_id"`
	Kind           models.PaymentKind `json:"kind"`
	TransactionRef string             `json:"transaction_ref"`
	Status         string             `json:"status"`
	CreatedAt      time.Time          `json:"created_at"`
}

func toPaymentResponse(p *models.Payment) PaymentResponse {
	return PaymentResponse{
		ID:             p.ID,
		Email:          p.Email,
		Amount:         p.Amount(),
		AmountCents:    p.AmountCents,
		Currency:       p.Currency,
		SubjectID:      p.SubjectID,
		Kind:           p.Kind,
		TransactionRef: p.TransactionRef,
		Status:         p.Status,
		CreatedAt:      p.CreatedAt,
	}
}

type ListPaymentsInput struct {
	Email string `query:"email" doc:"Payer email; must match the authenticated identity" required:"true"`
}

type ListPaymentsOutput struct {
	Body []PaymentResponse
}

func (h *PaymentHandler) HandleListPayments(ctx context.Context, input *ListPaymentsInput) (*ListPaymentsOutput, error) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}
	if err := h.policy.RequireSelf(identity, input.Email); err != nil {
		return nil, err
	}

	var payments []models.Payment
	if err := h.db.Where("email = ?", input.Email).Order("created_at DESC").Find(&payments).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list payments")
	}

	out := &ListPaymentsOutput{Body: []PaymentResponse{}}
	for i := range payments {
		out.Body = append(out.Body, toPaymentResponse(&payments[i]))
	}
	return out, nil
}
