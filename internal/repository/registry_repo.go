package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/saraban-go-api/internal/models"
)

// RegistryFilter narrows registry book listings.
type RegistryFilter struct {
	Search   string
	Page     int
	PageSize int
}

// RegistryRepository persists one registry book (orders, memoranda, letters, incoming letters).
type RegistryRepository[T any] interface {
	Create(ctx context.Context, record *T) error
	FindByID(ctx context.Context, id uint) (T, error)
	NumberExists(ctx context.Context, number string) (bool, error)
	List(ctx context.Context, filter RegistryFilter) ([]T, int64, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id uint) (T, error)
}

type registryColumns struct {
	number string
	search []string
	owner  string
}

type registryRepository[T any] struct {
	db      *gorm.DB
	columns registryColumns
}

// NewOrderRepository constructs the order registry repository.
func NewOrderRepository(db *gorm.DB) RegistryRepository[models.Order] {
	return &registryRepository[models.Order]{db: db, columns: registryColumns{
		number: "order_number",
		search: []string{"title", "order_number", "description"},
		owner:  "UploadedBy",
	}}
}

// NewMemorandumRepository constructs the memorandum registry repository.
func NewMemorandumRepository(db *gorm.DB) RegistryRepository[models.Memorandum] {
	return &registryRepository[models.Memorandum]{db: db, columns: registryColumns{
		number: "memo_number",
		search: []string{"title", "memo_number", "description"},
		owner:  "UploadedBy",
	}}
}

// NewLetterRepository constructs the outgoing letter registry repository.
func NewLetterRepository(db *gorm.DB) RegistryRepository[models.Letter] {
	return &registryRepository[models.Letter]{db: db, columns: registryColumns{
		number: "letter_number",
		search: []string{"title", "letter_number", "recipient_name"},
		owner:  "Sender",
	}}
}

// NewIncomingLetterRepository constructs the incoming letter registry repository.
func NewIncomingLetterRepository(db *gorm.DB) RegistryRepository[models.IncomingLetter] {
	return &registryRepository[models.IncomingLetter]{db: db, columns: registryColumns{
		number: "receive_number",
		search: []string{"title", "receive_number", "ref_number", "sender_name"},
		owner:  "Receiver",
	}}
}

func (r *registryRepository[T]) Create(ctx context.Context, record *T) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(record).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (r *registryRepository[T]) FindByID(ctx context.Context, id uint) (T, error) {
	var record T
	if err := r.db.WithContext(ctx).Preload(r.columns.owner).First(&record, id).Error; err != nil {
		return record, translateError(err)
	}
	return record, nil
}

func (r *registryRepository[T]) NumberExists(ctx context.Context, number string) (bool, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(new(T)).
		Where(r.columns.number+" = ?", strings.TrimSpace(number)).
		Count(&total).Error; err != nil {
		return false, translateError(err)
	}
	return total > 0, nil
}

func (r *registryRepository[T]) List(ctx context.Context, filter RegistryFilter) ([]T, int64, error) {
	query := r.db.WithContext(ctx).Model(new(T))

	if strings.TrimSpace(filter.Search) != "" {
		like := likePattern(filter.Search)
		conditions := make([]string, 0, len(r.columns.search))
		args := make([]interface{}, 0, len(r.columns.search))
		for _, column := range r.columns.search {
			conditions = append(conditions, "LOWER("+column+") LIKE ?")
			args = append(args, like)
		}
		query = query.Where("("+strings.Join(conditions, " OR ")+")", args...)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	var records []T
	if err := paginate(query, filter.Page, filter.PageSize).
		Preload(r.columns.owner).
		Order("created_at DESC").
		Order("id DESC").
		Find(&records).Error; err != nil {
		return nil, 0, translateError(err)
	}

	return records, total, nil
}

func (r *registryRepository[T]) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(new(T)).Count(&total).Error; err != nil {
		return 0, translateError(err)
	}
	return total, nil
}

// Delete removes the record and returns it as it was before deletion.
func (r *registryRepository[T]) Delete(ctx context.Context, id uint) (T, error) {
	var record T
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&record, id).Error; err != nil {
			return err
		}
		return tx.Delete(new(T), id).Error
	})
	if err != nil {
		var zero T
		return zero, translateError(err)
	}
	return record, nil
}
