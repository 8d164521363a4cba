package auth

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/munna7487/club-sphere-server/internal/models"
	"gorm.io/gorm"
)

// Policy is the authorization component: an explicit allow/deny evaluation
// of (verified identity, resource, action), run by every mutating handler
// before any side effect. Ownership is an exact, case-sensitive email match.
type Policy struct {
	db *gorm.DB
}

func NewPolicy(db *gorm.DB) *Policy {
	return &Policy{db: db}
}

func (p *Policy) CanManageClub(identity string, club *models.Club) error {
	if identity == "" || identity != club.CreatorEmail {
		return huma.Error403Forbidden("Access denied: not the club creator")
	}
	return nil
}

func (p *Policy) CanManageEvent(identity string, event *models.Event) error {
	if identity == "" || identity != event.CreatorEmail {
		return huma.Error403Forbidden("Access denied: not the event creator")
	}
	return nil
}

// RequireAdmin allows only identities whose stored role is admin.
func (p *Policy) RequireAdmin(identity string) error {
	var user models.User
	if err := p.db.Where("email = ?", identity).First(&user).Error; err != nil {
		return huma.Error403Forbidden("Access denied: admin only")
	}
	if user.Role != models.RoleAdmin {
		return huma.Error403Forbidden("Access denied: admin only")
	}
	return nil
}

// RequireSelf allows an identity to act only on its own records.
func (p *Policy) RequireSelf(identity, email string) error {
	if identity == "" || identity != email {
		return huma.Error403Forbidden("Access denied: not your records")
	}
	return nil
}
