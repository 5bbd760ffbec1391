package models

import "time"

// Notification represents a push notification targeted to a specific user.
type Notification struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	Type       string    `gorm:"size:64" json:"type"`
	Message    string    `gorm:"type:text" json:"message"`
	DocumentID *uint     `gorm:"index" json:"document_id"`
	Read       bool      `gorm:"column:is_read;not null;default:false" json:"read"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
