package dto

import (
	"time"

	"github.com/noah-isme/saraban-go-api/internal/models"
)

// CreateDocumentRequest describes a document to distribute.
type CreateDocumentRequest struct {
	DocNumber    string `json:"doc_number" validate:"required,max=128"`
	Title        string `json:"title" validate:"required,max=255"`
	Description  string `json:"description" validate:"max=5000"`
	RecipientIDs []uint `json:"recipient_ids" validate:"required,min=1,dive,gt=0"`
	Storage      string `json:"storage" validate:"omitempty,oneof=local cloudinary"`
}

// AdvanceRecipientRequest moves the caller's recipient row forward.
type AdvanceRecipientRequest struct {
	Status string `json:"status" validate:"required"`
}

// StatsResponse holds disjoint recipient tallies by current status.
type StatsResponse struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Read     int64 `json:"read"`
	Received int64 `json:"received"`
}

// NewStatsResponse maps recipient stats to the response shape.
func NewStatsResponse(stats models.RecipientStats) StatsResponse {
	return StatsResponse{
		Total:    stats.Total,
		Pending:  stats.Pending,
		Read:     stats.Read,
		Received: stats.Received,
	}
}

// DocumentResponse serializes a routed document.
type DocumentResponse struct {
	ID           uint        `json:"id"`
	DocNumber    string      `json:"doc_number"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	FileURL      string      `json:"file_url,omitempty"`
	OriginalName string      `json:"original_name,omitempty"`
	CreatedBy    UserSummary `json:"created_by"`
	CreatedAt    time.Time   `json:"created_at"`
	RecipientIDs []uint      `json:"recipient_ids,omitempty"`
}

// NewDocumentResponse maps a document model to its response.
func NewDocumentResponse(doc models.Document) DocumentResponse {
	resp := DocumentResponse{
		ID:           doc.ID,
		DocNumber:    doc.DocNumber,
		Title:        doc.Title,
		Description:  doc.Description,
		FileURL:      doc.FileURL,
		OriginalName: doc.OriginalName,
		CreatedBy:    NewUserSummary(doc.CreatedBy),
		CreatedAt:    doc.CreatedAt,
	}
	if resp.CreatedBy.ID == 0 {
		resp.CreatedBy.ID = doc.CreatedByID
	}
	for _, recipient := range doc.Recipients {
		resp.RecipientIDs = append(resp.RecipientIDs, recipient.UserID)
	}
	return resp
}

// RecipientResponse serializes one addressee's progress on a document.
type RecipientResponse struct {
	ID         uint                   `json:"id"`
	DocumentID uint                   `json:"document_id"`
	User       UserSummary            `json:"user"`
	Status     models.RecipientStatus `json:"status"`
	ReadAt     *time.Time             `json:"read_at"`
	ReceivedAt *time.Time             `json:"received_at"`
	CreatedAt  time.Time              `json:"created_at"`
}

// NewRecipientResponse maps a recipient model to its response.
func NewRecipientResponse(recipient models.Recipient) RecipientResponse {
	user := NewUserSummary(recipient.User)
	if user.ID == 0 {
		user.ID = recipient.UserID
	}
	return RecipientResponse{
		ID:         recipient.ID,
		DocumentID: recipient.DocumentID,
		User:       user,
		Status:     recipient.Status,
		ReadAt:     recipient.ReadAt,
		ReceivedAt: recipient.ReceivedAt,
		CreatedAt:  recipient.CreatedAt,
	}
}

// InboxQuery filters the caller's inbox.
type InboxQuery struct {
	Status string
	Limit  int
}

// InboxItemResponse is one received document in the caller's inbox.
type InboxItemResponse struct {
	RecipientID uint                   `json:"recipient_id"`
	Status      models.RecipientStatus `json:"status"`
	ReadAt      *time.Time             `json:"read_at"`
	ReceivedAt  *time.Time             `json:"received_at"`
	ReceivedOn  time.Time              `json:"received_on"`
	Document    DocumentResponse       `json:"document"`
}

// NewInboxItemResponse maps a recipient row with its preloaded document.
func NewInboxItemResponse(recipient models.Recipient) InboxItemResponse {
	return InboxItemResponse{
		RecipientID: recipient.ID,
		Status:      recipient.Status,
		ReadAt:      recipient.ReadAt,
		ReceivedAt:  recipient.ReceivedAt,
		ReceivedOn:  recipient.CreatedAt,
		Document:    NewDocumentResponse(recipient.Document),
	}
}

// DocumentDetailResponse combines a document with its recipients and audit trail.
type DocumentDetailResponse struct {
	Document    DocumentResponse    `json:"document"`
	Stats       StatsResponse       `json:"stats"`
	Recipients  []RecipientResponse `json:"recipients"`
	AuditTrail  []AuditLogResponse  `json:"audit_trail"`
	MyRecipient *RecipientResponse  `json:"my_recipient,omitempty"`
}

// SentDocumentResponse is one document created by the caller with its progress.
type SentDocumentResponse struct {
	Document DocumentResponse `json:"document"`
	Stats    StatsResponse    `json:"stats"`
}
