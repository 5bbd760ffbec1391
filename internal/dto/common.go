package dto

import (
	"math"
	"time"

	"github.com/noah-isme/saraban-go-api/internal/models"
)

// PaginationMeta captures pagination metadata for list responses.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginationMeta derives page counts from the total.
func NewPaginationMeta(page, pageSize int, total int64) PaginationMeta {
	if page <= 0 {
		page = 1
	}
	meta := PaginationMeta{Page: page, PageSize: pageSize, TotalItems: total, TotalPages: 1}
	if pageSize > 0 {
		meta.TotalPages = int(math.Ceil(float64(total) / float64(pageSize)))
	}
	return meta
}

// UserSummary is the public projection of a user embedded in other responses.
type UserSummary struct {
	ID         uint        `json:"id"`
	Name       string      `json:"name"`
	Position   string      `json:"position,omitempty"`
	Department string      `json:"department,omitempty"`
	Role       models.Role `json:"role,omitempty"`
}

// NewUserSummary maps a user model to its summary.
func NewUserSummary(user models.User) UserSummary {
	return UserSummary{
		ID:         user.ID,
		Name:       user.Name,
		Position:   user.Position,
		Department: user.Department,
		Role:       user.Role,
	}
}

// UploadResponse describes the stored asset metadata returned to the client.
type UploadResponse struct {
	URL       string    `json:"url"`
	Backend   string    `json:"backend"`
	SizeBytes int64     `json:"size_bytes"`
	MimeType  string    `json:"mime_type"`
	Checksum  string    `json:"checksum"`
	FileName  string    `json:"file_name"`
	StoredAt  time.Time `json:"stored_at"`
}
