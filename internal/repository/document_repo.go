package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/saraban-go-api/internal/models"
)

// DocumentRepository persists routed documents together with their recipient rows.
type DocumentRepository interface {
	CreateWithRecipients(ctx context.Context, doc *models.Document, recipientIDs []uint, audit *models.AuditLog) error
	FindByID(ctx context.Context, id uint) (models.Document, error)
	ListRecipients(ctx context.Context, documentID uint) ([]models.Recipient, error)
	Stats(ctx context.Context, documentID uint) (models.RecipientStats, error)
	StatsByDocument(ctx context.Context, documentIDs []uint) (map[uint]models.RecipientStats, error)
	ListByCreator(ctx context.Context, creatorID uint, limit int) ([]models.Document, error)
	CountByCreator(ctx context.Context, creatorID uint) (int64, error)
	Delete(ctx context.Context, id uint, audit *models.AuditLog) (models.Document, error)
}

type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository constructs the document repository.
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

// CreateWithRecipients inserts the document, one PENDING row per recipient and the audit entry
// atomically. Nothing is persisted when any insert fails.
func (r *documentRepository) CreateWithRecipients(ctx context.Context, doc *models.Document, recipientIDs []uint, audit *models.AuditLog) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(doc).Error; err != nil {
			return err
		}

		recipients := make([]models.Recipient, 0, len(recipientIDs))
		for _, userID := range recipientIDs {
			recipients = append(recipients, models.Recipient{
				DocumentID: doc.ID,
				UserID:     userID,
				Status:     models.RecipientStatusPending,
			})
		}
		if err := tx.Omit(clause.Associations).Create(&recipients).Error; err != nil {
			return err
		}

		if audit != nil {
			audit.DocumentID = &doc.ID
			refKind := models.RefKindDocument
			audit.RefKind = &refKind
			audit.RefID = &doc.ID
			if err := tx.Omit(clause.Associations).Create(audit).Error; err != nil {
				return err
			}
		}

		doc.Recipients = recipients
		return nil
	})

	return translateError(err)
}

func (r *documentRepository) FindByID(ctx context.Context, id uint) (models.Document, error) {
	var doc models.Document
	if err := r.db.WithContext(ctx).Preload("CreatedBy").First(&doc, id).Error; err != nil {
		return models.Document{}, translateError(err)
	}
	return doc, nil
}

func (r *documentRepository) ListRecipients(ctx context.Context, documentID uint) ([]models.Recipient, error) {
	var recipients []models.Recipient
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("document_id = ?", documentID).
		Order("id ASC").
		Find(&recipients).Error; err != nil {
		return nil, translateError(err)
	}
	return recipients, nil
}

type statusCount struct {
	DocumentID uint
	Status     models.RecipientStatus
	Total      int64
}

func (r *documentRepository) Stats(ctx context.Context, documentID uint) (models.RecipientStats, error) {
	stats, err := r.StatsByDocument(ctx, []uint{documentID})
	if err != nil {
		return models.RecipientStats{}, err
	}
	return stats[documentID], nil
}

// StatsByDocument tallies recipients by current status. Each row counts towards exactly one bucket.
func (r *documentRepository) StatsByDocument(ctx context.Context, documentIDs []uint) (map[uint]models.RecipientStats, error) {
	result := make(map[uint]models.RecipientStats, len(documentIDs))
	if len(documentIDs) == 0 {
		return result, nil
	}

	var rows []statusCount
	if err := r.db.WithContext(ctx).
		Model(&models.Recipient{}).
		Select("document_id, status, COUNT(*) AS total").
		Where("document_id IN ?", documentIDs).
		Group("document_id, status").
		Scan(&rows).Error; err != nil {
		return nil, translateError(err)
	}

	for _, row := range rows {
		stats := result[row.DocumentID]
		stats.Total += row.Total
		switch row.Status {
		case models.RecipientStatusPending:
			stats.Pending += row.Total
		case models.RecipientStatusRead:
			stats.Read += row.Total
		case models.RecipientStatusReceived:
			stats.Received += row.Total
		}
		result[row.DocumentID] = stats
	}

	return result, nil
}

func (r *documentRepository) ListByCreator(ctx context.Context, creatorID uint, limit int) ([]models.Document, error) {
	query := r.db.WithContext(ctx).
		Where("created_by_id = ?", creatorID).
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var docs []models.Document
	if err := query.Find(&docs).Error; err != nil {
		return nil, translateError(err)
	}
	return docs, nil
}

func (r *documentRepository) CountByCreator(ctx context.Context, creatorID uint) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Document{}).Where("created_by_id = ?", creatorID).Count(&total).Error; err != nil {
		return 0, translateError(err)
	}
	return total, nil
}

// Delete removes the document and its recipient rows and appends the audit entry in one transaction.
func (r *documentRepository) Delete(ctx context.Context, id uint, audit *models.AuditLog) (models.Document, error) {
	var doc models.Document
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&doc, id).Error; err != nil {
			return err
		}
		if err := tx.Where("document_id = ?", id).Delete(&models.Recipient{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Document{}, id).Error; err != nil {
			return err
		}
		if audit != nil {
			if err := tx.Omit(clause.Associations).Create(audit).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Document{}, translateError(err)
	}
	return doc, nil
}
