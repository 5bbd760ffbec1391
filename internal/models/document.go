package models

import "time"

// RecipientStatus tracks how far an addressee has progressed with a document.
type RecipientStatus string

const (
	// RecipientStatusPending means the document has not been opened yet.
	RecipientStatusPending RecipientStatus = "PENDING"
	// RecipientStatusRead means the addressee opened the document.
	RecipientStatusRead RecipientStatus = "READ"
	// RecipientStatusReceived means the addressee acknowledged receipt. Terminal.
	RecipientStatusReceived RecipientStatus = "RECEIVED"
)

// ParseRecipientStatus validates a requested status value.
func ParseRecipientStatus(value string) (RecipientStatus, bool) {
	switch RecipientStatus(value) {
	case RecipientStatusPending, RecipientStatusRead, RecipientStatusReceived:
		return RecipientStatus(value), true
	default:
		return "", false
	}
}

// Document is an official record routed to one or more recipients.
type Document struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	DocNumber    string      `gorm:"size:128;uniqueIndex;not null" json:"doc_number"`
	Title        string      `gorm:"size:255;not null" json:"title"`
	Description  string      `gorm:"type:text" json:"description"`
	FileURL      string      `gorm:"size:512" json:"file_url"`
	OriginalName string      `gorm:"size:255" json:"original_name"`
	CreatedByID  uint        `gorm:"not null;index" json:"created_by_id"`
	CreatedBy    User        `gorm:"foreignKey:CreatedByID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"created_by"`
	CreatedAt    time.Time   `gorm:"index" json:"created_at"`
	Recipients   []Recipient `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE" json:"recipients,omitempty"`
}

// Recipient is the per-(document, user) acknowledgement record.
type Recipient struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	DocumentID uint            `gorm:"not null;uniqueIndex:idx_recipient_document_user" json:"document_id"`
	UserID     uint            `gorm:"not null;uniqueIndex:idx_recipient_document_user;index" json:"user_id"`
	Status     RecipientStatus `gorm:"size:16;not null;default:PENDING;index" json:"status"`
	ReadAt     *time.Time      `json:"read_at"`
	ReceivedAt *time.Time      `json:"received_at"`
	CreatedAt  time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Document   Document        `gorm:"foreignKey:DocumentID" json:"document"`
	User       User            `gorm:"foreignKey:UserID" json:"user"`
}

// IsTerminal reports whether no further transition is permitted.
func (r Recipient) IsTerminal() bool {
	return r.Status == RecipientStatusReceived
}

// RecipientStats holds disjoint tallies of recipients by current status.
type RecipientStats struct {
	Total    int64
	Pending  int64
	Read     int64
	Received int64
}
