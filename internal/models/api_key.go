package models

import (
	"time"

	"gorm.io/gorm"
)

// APIKey is an alternate credential for non-browser clients. A key acts as
// the owning user's verified identity.
type APIKey struct {
	gorm.Model
	Email      string     `json:"email" gorm:"index"`
	Key        string     `json:"key" gorm:"uniqueIndex"`
	Name       string     `json:"name"`
	ExpiresAt  *time.Time `json:"expires_at"`
	LastUsedAt *time.Time `json:"last_used_at"`
}
