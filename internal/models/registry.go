package models

import "time"

// Order is an internal order or announcement registered with its scanned file.
type Order struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OrderNumber  string    `gorm:"size:128;uniqueIndex;not null" json:"order_number"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	DocumentDate time.Time `json:"document_date"`
	FileURL      string    `gorm:"size:512;not null" json:"file_url"`
	OriginalName string    `gorm:"size:255" json:"original_name"`
	UploadedByID uint      `gorm:"not null;index" json:"uploaded_by_id"`
	UploadedBy   User      `gorm:"foreignKey:UploadedByID" json:"uploaded_by"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Memorandum is an internal memo registered with its scanned file.
type Memorandum struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	MemoNumber   string    `gorm:"size:128;uniqueIndex;not null" json:"memo_number"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	DocumentDate time.Time `json:"document_date"`
	FileURL      string    `gorm:"size:512;not null" json:"file_url"`
	OriginalName string    `gorm:"size:255" json:"original_name"`
	UploadedByID uint      `gorm:"not null;index" json:"uploaded_by_id"`
	UploadedBy   User      `gorm:"foreignKey:UploadedByID" json:"uploaded_by"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName keeps the plural consistent with the other registry tables.
func (Memorandum) TableName() string {
	return "memoranda"
}

// Letter is an outgoing letter entered into the dispatch register.
type Letter struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	LetterNumber string    `gorm:"size:128;uniqueIndex;not null" json:"letter_number"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Date         time.Time `gorm:"not null" json:"date"`
	To           string    `gorm:"column:recipient_name;size:255;not null" json:"to"`
	FileURL      string    `gorm:"size:512;not null" json:"file_url"`
	OriginalName string    `gorm:"size:255" json:"original_name"`
	SenderID     uint      `gorm:"not null;index" json:"sender_id"`
	Sender       User      `gorm:"foreignKey:SenderID" json:"sender"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IncomingLetter is a letter from an outside agency entered into the receiving register.
type IncomingLetter struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ReceiveNumber string    `gorm:"size:128;uniqueIndex;not null" json:"receive_number"`
	RefNumber     string    `gorm:"size:128" json:"ref_number"`
	Title         string    `gorm:"size:255;not null" json:"title"`
	Date          time.Time `gorm:"not null" json:"date"`
	ReceivedDate  time.Time `json:"received_date"`
	From          string    `gorm:"column:sender_name;size:255;not null" json:"from"`
	To            string    `gorm:"column:recipient_name;size:255;not null" json:"to"`
	FileURL       string    `gorm:"size:512;not null" json:"file_url"`
	OriginalName  string    `gorm:"size:255" json:"original_name"`
	ReceiverID    uint      `gorm:"not null;index" json:"receiver_id"`
	Receiver      User      `gorm:"foreignKey:ReceiverID" json:"receiver"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DailyLog is a personal work journal entry.
type DailyLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Date      time.Time `gorm:"index" json:"date"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Note      string    `gorm:"type:text" json:"note"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UploadRecord stores metadata about uploaded files.
type UploadRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	FileName  string    `gorm:"size:255;not null" json:"file_name"`
	URL       string    `gorm:"size:512;not null" json:"url"`
	Backend   string    `gorm:"size:32;not null" json:"backend"`
	MimeType  string    `gorm:"size:128;not null" json:"mime_type"`
	SizeBytes int64     `gorm:"not null" json:"size_bytes"`
	Checksum  string    `gorm:"size:128;index" json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
}
