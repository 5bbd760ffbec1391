package dto

import (
	"time"

	"github.com/noah-isme/saraban-go-api/internal/models"
)

// RegistryQuery filters a registry book listing.
type RegistryQuery struct {
	Search   string
	Page     int
	PageSize int
}

// CreateOrderRequest registers an internal order or announcement.
type CreateOrderRequest struct {
	OrderNumber  string    `json:"order_number" validate:"required,max=128"`
	Title        string    `json:"title" validate:"required,max=255"`
	Description  string    `json:"description" validate:"max=5000"`
	DocumentDate time.Time `json:"document_date"`
	Storage      string    `json:"storage" validate:"omitempty,oneof=local cloudinary"`
}

// OrderResponse serializes an order entry.
type OrderResponse struct {
	ID           uint        `json:"id"`
	OrderNumber  string      `json:"order_number"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	DocumentDate time.Time   `json:"document_date"`
	FileURL      string      `json:"file_url"`
	OriginalName string      `json:"original_name"`
	UploadedBy   UserSummary `json:"uploaded_by"`
	CreatedAt    time.Time   `json:"created_at"`
}

// NewOrderResponse maps an order model.
func NewOrderResponse(order models.Order) OrderResponse {
	owner := NewUserSummary(order.UploadedBy)
	if owner.ID == 0 {
		owner.ID = order.UploadedByID
	}
	return OrderResponse{
		ID:           order.ID,
		OrderNumber:  order.OrderNumber,
		Title:        order.Title,
		Description:  order.Description,
		DocumentDate: order.DocumentDate,
		FileURL:      order.FileURL,
		OriginalName: order.OriginalName,
		UploadedBy:   owner,
		CreatedAt:    order.CreatedAt,
	}
}

// CreateMemorandumRequest registers an internal memo.
type CreateMemorandumRequest struct {
	MemoNumber   string    `json:"memo_number" validate:"required,max=128"`
	Title        string    `json:"title" validate:"required,max=255"`
	Description  string    `json:"description" validate:"max=5000"`
	DocumentDate time.Time `json:"document_date"`
	Storage      string    `json:"storage" validate:"omitempty,oneof=local cloudinary"`
}

// MemorandumResponse serializes a memo entry.
type MemorandumResponse struct {
	ID           uint        `json:"id"`
	MemoNumber   string      `json:"memo_number"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	DocumentDate time.Time   `json:"document_date"`
	FileURL      string      `json:"file_url"`
	OriginalName string      `json:"original_name"`
	UploadedBy   UserSummary `json:"uploaded_by"`
	CreatedAt    time.Time   `json:"created_at"`
}

// NewMemorandumResponse maps a memorandum model.
func NewMemorandumResponse(memo models.Memorandum) MemorandumResponse {
	owner := NewUserSummary(memo.UploadedBy)
	if owner.ID == 0 {
		owner.ID = memo.UploadedByID
	}
	return MemorandumResponse{
		ID:           memo.ID,
		MemoNumber:   memo.MemoNumber,
		Title:        memo.Title,
		Description:  memo.Description,
		DocumentDate: memo.DocumentDate,
		FileURL:      memo.FileURL,
		OriginalName: memo.OriginalName,
		UploadedBy:   owner,
		CreatedAt:    memo.CreatedAt,
	}
}

// CreateLetterRequest registers an outgoing letter.
type CreateLetterRequest struct {
	LetterNumber string    `json:"letter_number" validate:"required,max=128"`
	Title        string    `json:"title" validate:"required,max=255"`
	Date         time.Time `json:"date" validate:"required"`
	To           string    `json:"to" validate:"required,max=255"`
	Storage      string    `json:"storage" validate:"omitempty,oneof=local cloudinary"`
}

// LetterResponse serializes an outgoing letter entry.
type LetterResponse struct {
	ID           uint        `json:"id"`
	LetterNumber string      `json:"letter_number"`
	Title        string      `json:"title"`
	Date         time.Time   `json:"date"`
	To           string      `json:"to"`
	FileURL      string      `json:"file_url"`
	OriginalName string      `json:"original_name"`
	Sender       UserSummary `json:"sender"`
	CreatedAt    time.Time   `json:"created_at"`
}

// NewLetterResponse maps a letter model.
func NewLetterResponse(letter models.Letter) LetterResponse {
	sender := NewUserSummary(letter.Sender)
	if sender.ID == 0 {
		sender.ID = letter.SenderID
	}
	return LetterResponse{
		ID:           letter.ID,
		LetterNumber: letter.LetterNumber,
		Title:        letter.Title,
		Date:         letter.Date,
		To:           letter.To,
		FileURL:      letter.FileURL,
		OriginalName: letter.OriginalName,
		Sender:       sender,
		CreatedAt:    letter.CreatedAt,
	}
}

// CreateIncomingLetterRequest registers a letter received from an outside agency.
type CreateIncomingLetterRequest struct {
	ReceiveNumber string    `json:"receive_number" validate:"required,max=128"`
	RefNumber     string    `json:"ref_number" validate:"max=128"`
	Title         string    `json:"title" validate:"required,max=255"`
	Date          time.Time `json:"date" validate:"required"`
	ReceivedDate  time.Time `json:"received_date"`
	From          string    `json:"from" validate:"required,max=255"`
	To            string    `json:"to" validate:"required,max=255"`
	Storage       string    `json:"storage" validate:"omitempty,oneof=local cloudinary"`
}

// IncomingLetterResponse serializes an incoming letter entry.
type IncomingLetterResponse struct {
	ID            uint        `json:"id"`
	ReceiveNumber string      `json:"receive_number"`
	RefNumber     string      `json:"ref_number"`
	Title         string      `json:"title"`
	Date          time.Time   `json:"date"`
	ReceivedDate  time.Time   `json:"received_date"`
	From          string      `json:"from"`
	To            string      `json:"to"`
	FileURL       string      `json:"file_url"`
	OriginalName  string      `json:"original_name"`
	Receiver      UserSummary `json:"receiver"`
	CreatedAt     time.Time   `json:"created_at"`
}

// NewIncomingLetterResponse maps an incoming letter model.
func NewIncomingLetterResponse(letter models.IncomingLetter) IncomingLetterResponse {
	receiver := NewUserSummary(letter.Receiver)
	if receiver.ID == 0 {
		receiver.ID = letter.ReceiverID
	}
	return IncomingLetterResponse{
		ID:            letter.ID,
		ReceiveNumber: letter.ReceiveNumber,
		RefNumber:     letter.RefNumber,
		Title:         letter.Title,
		Date:          letter.Date,
		ReceivedDate:  letter.ReceivedDate,
		From:          letter.From,
		To:            letter.To,
		FileURL:       letter.FileURL,
		OriginalName:  letter.OriginalName,
		Receiver:      receiver,
		CreatedAt:     letter.CreatedAt,
	}
}

// RegistryListResponse wraps a paginated registry listing.
type RegistryListResponse[T any] struct {
	Items      []T            `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}
