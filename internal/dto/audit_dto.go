package dto

import (
	"time"

	"github.com/noah-isme/saraban-go-api/internal/models"
)

// AuditQuery filters the audit trail.
type AuditQuery struct {
	ActorID    uint
	Action     string
	DocumentID uint
	RefKind    string
	Page       int
	PageSize   int
}

// AuditRefResponse describes the entity an audit entry points at.
type AuditRefResponse struct {
	Kind   models.RefKind `json:"kind"`
	ID     uint           `json:"id"`
	Number string         `json:"number,omitempty"`
}

// AuditLogResponse serializes one audit trail entry.
type AuditLogResponse struct {
	ID         uint                   `json:"id"`
	Action     models.AuditAction     `json:"action"`
	Actor      UserSummary            `json:"actor"`
	DocumentID *uint                  `json:"document_id,omitempty"`
	Ref        *AuditRefResponse      `json:"ref,omitempty"`
	IPAddress  string                 `json:"ip_address,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// NewAuditLogResponse maps an audit entry; number is the resolved reference number, if any.
func NewAuditLogResponse(entry models.AuditLog, number string) AuditLogResponse {
	actor := NewUserSummary(entry.User)
	if actor.ID == 0 {
		actor.ID = entry.UserID
	}

	resp := AuditLogResponse{
		ID:         entry.ID,
		Action:     entry.Action,
		Actor:      actor,
		DocumentID: entry.DocumentID,
		IPAddress:  entry.IPAddress,
		CreatedAt:  entry.CreatedAt,
	}
	if len(entry.Metadata) > 0 {
		resp.Metadata = map[string]interface{}(entry.Metadata)
	}
	if ref := entry.Ref(); ref != nil {
		resp.Ref = &AuditRefResponse{Kind: ref.Kind, ID: ref.ID, Number: number}
	}
	return resp
}

// AuditLogListResponse wraps a paginated audit listing.
type AuditLogListResponse struct {
	Items      []AuditLogResponse `json:"items"`
	Pagination PaginationMeta     `json:"pagination"`
}
