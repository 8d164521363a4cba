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

type UserHandler struct {
	db     *gorm.DB
	policy *auth.Policy
}

func NewUserHandler(db *gorm.DB, policy *auth.Policy) *UserHandler {
	return &UserHandler{db: db, policy: policy}
}

type UserResponse struct {
	ID        uint        `json:"id"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

type ListUsersOutput struct {
	Body []UserResponse
}

func (h *UserHandler) HandleListUsers(ctx context.Context, input *struct{}) (*ListUsersOutput, error) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}
	if err := h.policy.RequireAdmin(identity); err != nil {
		return nil, err
	}

	var users []models.User
	if err := h.db.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list users")
	}

	out := &ListUsersOutput{Body: []UserResponse{}}
	for _, u := range users {
		out.Body = append(out.Body, UserResponse{
			ID:        u.ID,
			Email:     u.Email,
			Name:      u.Name,
			Role:      u.Role,
			CreatedAt: u.CreatedAt,
		})
	}
	return out, nil
}

type ChangeRoleInput struct {
	ID   uint `path:"id"`
	Body struct {
		Role string `json:"role" doc:"New role" required:"true" enum:"user,manager,admin"`
	}
}

type ChangeRoleOutput struct {
	Body UserResponse
}

func (h *UserHandler) HandleChangeRole(ctx context.Context, input *ChangeRoleInput) (*ChangeRoleOutput, error) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}
	if err := h.policy.RequireAdmin(identity); err != nil {
		return nil, err
	}

	role := models.Role(input.Body.Role)
	switch role {
	case models.RoleUser, models.RoleManager, models.RoleAdmin:
	default:
		return nil, huma.Error400BadRequest("Unknown role")
	}

	var user models.User
	if err := h.db.First(&user, input.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("User not found")
		}
		return nil, huma.Error500InternalServerError("Database error")
	}

	user.Role = role
	if err := h.db.Save(&user).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to update role")
	}

	return &ChangeRoleOutput{Body: UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}}, nil
}
