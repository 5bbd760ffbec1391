package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/saraban-go-api/internal/models"
)

// DailyLogRepository persists personal work journal entries.
type DailyLogRepository interface {
	Create(ctx context.Context, entry *models.DailyLog) error
	ListByUser(ctx context.Context, userID uint, limit int) ([]models.DailyLog, error)
}

type dailyLogRepository struct {
	db *gorm.DB
}

// NewDailyLogRepository constructs the daily log repository.
func NewDailyLogRepository(db *gorm.DB) DailyLogRepository {
	return &dailyLogRepository{db: db}
}

func (r *dailyLogRepository) Create(ctx context.Context, entry *models.DailyLog) error {
	return translateError(r.db.WithContext(ctx).Create(entry).Error)
}

func (r *dailyLogRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]models.DailyLog, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("date DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var entries []models.DailyLog
	if err := query.Find(&entries).Error; err != nil {
		return nil, translateError(err)
	}
	return entries, nil
}
