package models

import (
	"strings"
	"time"
)

// Role identifies the permission set granted to a user.
type Role string

const (
	// RoleAdmin manages users and may delete any record.
	RoleAdmin Role = "ADMIN"
	// RoleSaraban is the correspondence office clerk that sends documents.
	RoleSaraban Role = "SARABAN"
	// RoleExecutive receives and acknowledges documents.
	RoleExecutive Role = "EXECUTIVE"
	// RoleStaff is the default role for self-registered accounts.
	RoleStaff Role = "STAFF"
)

// ParseRole normalises a role string, returning false when it is not recognised.
func ParseRole(value string) (Role, bool) {
	role := Role(strings.ToUpper(strings.TrimSpace(value)))
	switch role {
	case RoleAdmin, RoleSaraban, RoleExecutive, RoleStaff:
		return role, true
	default:
		return "", false
	}
}

// CanSend reports whether the role may create and distribute documents.
func (r Role) CanSend() bool {
	return r == RoleAdmin || r == RoleSaraban
}

// User represents an account that can send, receive and register documents.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Position     string    `gorm:"size:255;not null" json:"position"`
	Department   string    `gorm:"size:255;not null" json:"department"`
	Role         Role      `gorm:"size:32;not null;index" json:"role"`
	IsActive     bool      `gorm:"not null;default:false;index" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
