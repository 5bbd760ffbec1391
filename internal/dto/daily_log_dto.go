package dto

import (
	"time"

	"github.com/noah-isme/saraban-go-api/internal/models"
)

// CreateDailyLogRequest records a work journal entry. Date defaults to now.
type CreateDailyLogRequest struct {
	Date    *time.Time `json:"date"`
	Content string     `json:"content" validate:"required,max=10000"`
	Note    string     `json:"note" validate:"max=2000"`
}

// DailyLogResponse serializes a journal entry.
type DailyLogResponse struct {
	ID        uint      `json:"id"`
	Date      time.Time `json:"date"`
	Content   string    `json:"content"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewDailyLogResponse maps a daily log model.
func NewDailyLogResponse(entry models.DailyLog) DailyLogResponse {
	return DailyLogResponse{
		ID:        entry.ID,
		Date:      entry.Date,
		Content:   entry.Content,
		Note:      entry.Note,
		CreatedAt: entry.CreatedAt,
	}
}
