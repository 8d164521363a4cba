package models

import (
	"gorm.io/gorm"
)

// Role is the sole authorization attribute on a user.
type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

type User struct {
	gorm.Model
	Email  string `gorm:"uniqueIndex"`
	Name   string
	Avatar string
	Role   Role
}
