package dto

import (
	"time"

	"github.com/noah-isme/saraban-go-api/internal/models"
)

// LoginRequest carries credentials for password sign-in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the self-registration payload. Accounts start inactive.
type RegisterRequest struct {
	Name       string `json:"name" validate:"required,max=255"`
	Email      string `json:"email" validate:"required,email,max=255"`
	Password   string `json:"password" validate:"required,min=6,max=72"`
	Position   string `json:"position" validate:"required,max=255"`
	Department string `json:"department" validate:"required,max=255"`
}

// BootstrapRequest creates the first administrator of an empty installation.
type BootstrapRequest struct {
	Name       string `json:"name" validate:"required,max=255"`
	Email      string `json:"email" validate:"required,email,max=255"`
	Password   string `json:"password" validate:"required,min=6,max=72"`
	Position   string `json:"position" validate:"omitempty,max=255"`
	Department string `json:"department" validate:"omitempty,max=255"`
}

// UserResponse serializes an account for administrators and the account owner.
type UserResponse struct {
	ID         uint        `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Position   string      `json:"position"`
	Department string      `json:"department"`
	Role       models.Role `json:"role"`
	IsActive   bool        `json:"is_active"`
	CreatedAt  time.Time   `json:"created_at"`
}

// NewUserResponse maps a user model to its response.
func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Position:   user.Position,
		Department: user.Department,
		Role:       user.Role,
		IsActive:   user.IsActive,
		CreatedAt:  user.CreatedAt,
	}
}

// AuthResponse is returned after a successful sign-in.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserListRequest filters the administrator user listing.
type UserListRequest struct {
	Search   string
	Role     string
	Active   *bool
	Page     int
	PageSize int
}

// UserListResponse wraps a paginated user listing.
type UserListResponse struct {
	Items      []UserResponse `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}

// UpdateUserRequest changes an account's role or activation.
type UpdateUserRequest struct {
	Role     *string `json:"role" validate:"omitempty,oneof=ADMIN SARABAN EXECUTIVE STAFF admin saraban executive staff"`
	IsActive *bool   `json:"is_active"`
}
