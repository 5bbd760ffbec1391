package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/saraban-go-api/internal/models"
)

// InboxFilter narrows a user's inbox listing.
type InboxFilter struct {
	UserID uint
	Status models.RecipientStatus
	Limit  int
}

// RecipientRepository persists per-addressee acknowledgement rows.
type RecipientRepository interface {
	FindByID(ctx context.Context, id uint) (models.Recipient, error)
	FindForUser(ctx context.Context, documentID, userID uint) (models.Recipient, error)
	Transition(ctx context.Context, next models.Recipient, observed models.RecipientStatus, audit *models.AuditLog) error
	ListInbox(ctx context.Context, filter InboxFilter) ([]models.Recipient, error)
	CountForUser(ctx context.Context, userID uint, status models.RecipientStatus) (int64, error)
}

type recipientRepository struct {
	db *gorm.DB
}

// NewRecipientRepository constructs the recipient repository.
func NewRecipientRepository(db *gorm.DB) RecipientRepository {
	return &recipientRepository{db: db}
}

func (r *recipientRepository) FindByID(ctx context.Context, id uint) (models.Recipient, error) {
	var recipient models.Recipient
	if err := r.db.WithContext(ctx).First(&recipient, id).Error; err != nil {
		return models.Recipient{}, translateError(err)
	}
	return recipient, nil
}

func (r *recipientRepository) FindForUser(ctx context.Context, documentID, userID uint) (models.Recipient, error) {
	var recipient models.Recipient
	if err := r.db.WithContext(ctx).
		Where("document_id = ? AND user_id = ?", documentID, userID).
		First(&recipient).Error; err != nil {
		return models.Recipient{}, translateError(err)
	}
	return recipient, nil
}

// Transition writes next's status and timestamps only if the row still holds observed, and
// appends the audit entry in the same transaction. ErrStaleWrite reports a lost race.
func (r *recipientRepository) Transition(ctx context.Context, next models.Recipient, observed models.RecipientStatus, audit *models.AuditLog) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Recipient{}).
			Where("id = ? AND user_id = ? AND status = ?", next.ID, next.UserID, observed).
			Updates(map[string]interface{}{
				"status":      next.Status,
				"read_at":     next.ReadAt,
				"received_at": next.ReceivedAt,
				"updated_at":  time.Now().UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStaleWrite
		}

		if audit != nil {
			if err := tx.Omit(clause.Associations).Create(audit).Error; err != nil {
				return err
			}
		}
		return nil
	})

	return translateError(err)
}

// ListInbox returns the user's recipient rows newest first with the document and its sender.
func (r *recipientRepository) ListInbox(ctx context.Context, filter InboxFilter) ([]models.Recipient, error) {
	query := r.db.WithContext(ctx).
		Preload("Document").
		Preload("Document.CreatedBy").
		Where("user_id = ?", filter.UserID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var recipients []models.Recipient
	if err := query.Order("created_at DESC").Order("id DESC").Find(&recipients).Error; err != nil {
		return nil, translateError(err)
	}
	return recipients, nil
}

func (r *recipientRepository) CountForUser(ctx context.Context, userID uint, status models.RecipientStatus) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Recipient{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, translateError(err)
	}
	return total, nil
}
