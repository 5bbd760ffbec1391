package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/saraban-go-api/internal/models"
)

// AuditLogFilter narrows audit trail queries.
type AuditLogFilter struct {
	Page       int
	PageSize   int
	ActorID    *uint
	Action     models.AuditAction
	DocumentID *uint
	RefKind    models.RefKind
}

// AuditLogRepository persists the append-only audit trail.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, filter AuditLogFilter) ([]models.AuditLog, int64, error)
	ListRecent(ctx context.Context, actorID uint, actions []models.AuditAction, limit int) ([]models.AuditLog, error)
	RefNumbers(ctx context.Context, kind models.RefKind, ids []uint) (map[uint]string, error)
}

type auditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository constructs the audit log repository.
func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(entry).Error)
}

func (r *auditLogRepository) List(ctx context.Context, filter AuditLogFilter) ([]models.AuditLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AuditLog{})

	if filter.ActorID != nil {
		query = query.Where("user_id = ?", *filter.ActorID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.DocumentID != nil {
		query = query.Where("document_id = ?", *filter.DocumentID)
	}
	if filter.RefKind != "" {
		query = query.Where("ref_kind = ?", filter.RefKind)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	var entries []models.AuditLog
	if err := paginate(query, filter.Page, filter.PageSize).
		Preload("User").
		Order("created_at DESC").
		Order("id DESC").
		Find(&entries).Error; err != nil {
		return nil, 0, translateError(err)
	}

	return entries, total, nil
}

// ListRecent returns entries written by the actor or carrying one of actions, newest first.
func (r *auditLogRepository) ListRecent(ctx context.Context, actorID uint, actions []models.AuditAction, limit int) ([]models.AuditLog, error) {
	query := r.db.WithContext(ctx).Preload("User")
	if len(actions) > 0 {
		query = query.Where("(user_id = ? OR action IN ?)", actorID, actions)
	} else {
		query = query.Where("user_id = ?", actorID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var entries []models.AuditLog
	if err := query.Order("created_at DESC").Order("id DESC").Find(&entries).Error; err != nil {
		return nil, translateError(err)
	}
	return entries, nil
}

// RefNumbers resolves the human-readable business number of referenced entities.
func (r *auditLogRepository) RefNumbers(ctx context.Context, kind models.RefKind, ids []uint) (map[uint]string, error) {
	numbers := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return numbers, nil
	}

	var model interface{}
	var column string
	switch kind {
	case models.RefKindDocument:
		model, column = &models.Document{}, "doc_number"
	case models.RefKindOrder:
		model, column = &models.Order{}, "order_number"
	case models.RefKindMemorandum:
		model, column = &models.Memorandum{}, "memo_number"
	case models.RefKindLetter:
		model, column = &models.Letter{}, "letter_number"
	case models.RefKindIncomingLetter:
		model, column = &models.IncomingLetter{}, "receive_number"
	default:
		return nil, fmt.Errorf("unknown reference kind %q", kind)
	}

	var rows []struct {
		ID     uint
		Number string
	}
	if err := r.db.WithContext(ctx).
		Model(model).
		Select(fmt.Sprintf("id, %s AS number", column)).
		Where("id IN ?", ids).
		Scan(&rows).Error; err != nil {
		return nil, translateError(err)
	}

	for _, row := range rows {
		numbers[row.ID] = row.Number
	}
	return numbers, nil
}
