package dto

import (
	"time"

	"github.com/noah-isme/saraban-go-api/internal/models"
)

// Notification types emitted by the API.
const (
	NotificationTypeDocumentReceived = "document.received"
	NotificationTypeRecipientUpdated = "recipient.updated"
	NotificationTypeAccountApproved  = "account.approved"
)

// NotificationCreateRequest describes the payload to create a notification.
type NotificationCreateRequest struct {
	UserID     uint   `json:"user_id" validate:"required"`
	Type       string `json:"type" validate:"required,max=64"`
	Message    string `json:"message" validate:"required,min=1,max=2000"`
	DocumentID *uint  `json:"document_id"`
}

// NotificationResponse represents notification data returned to clients.
type NotificationResponse struct {
	ID         uint      `json:"id"`
	UserID     uint      `json:"user_id"`
	Type       string    `json:"type"`
	Message    string    `json:"message"`
	DocumentID *uint     `json:"document_id,omitempty"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewNotificationResponse converts a notification model to DTO.
func NewNotificationResponse(model models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:         model.ID,
		UserID:     model.UserID,
		Type:       model.Type,
		Message:    model.Message,
		DocumentID: model.DocumentID,
		Read:       model.Read,
		CreatedAt:  model.CreatedAt,
	}
}

// NewNotificationResponseSlice converts a slice to DTOs.
func NewNotificationResponseSlice(items []models.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(items))
	for _, item := range items {
		out = append(out, NewNotificationResponse(item))
	}
	return out
}

// NotificationListResponse wraps the caller's notifications with the unread count.
type NotificationListResponse struct {
	Items  []NotificationResponse `json:"items"`
	Unread int64                  `json:"unread"`
}
