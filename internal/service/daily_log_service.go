package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/saraban-go-api/internal/dto"
	"github.com/noah-isme/saraban-go-api/internal/models"
	"github.com/noah-isme/saraban-go-api/internal/repository"
)

// DailyLogService keeps each user's private work journal.
type DailyLogService interface {
	Create(ctx context.Context, actor Actor, req dto.CreateDailyLogRequest) (dto.DailyLogResponse, error)
	List(ctx context.Context, actor Actor, limit int) ([]dto.DailyLogResponse, error)
}

type dailyLogService struct {
	repo      repository.DailyLogRepository
	validator *validator.Validate
	now       func() time.Time
}

// NewDailyLogService constructs the daily log service.
func NewDailyLogService(repo repository.DailyLogRepository, validate *validator.Validate) DailyLogService {
	return &dailyLogService{repo: repo, validator: validate, now: time.Now}
}

func (s *dailyLogService) Create(ctx context.Context, actor Actor, req dto.CreateDailyLogRequest) (dto.DailyLogResponse, error) {
	if !actor.Authenticated() {
		return dto.DailyLogResponse{}, unauthorizedf("authentication required")
	}

	req.Content = cleanText(req.Content)
	req.Note = cleanText(req.Note)
	if err := s.validator.Struct(req); err != nil {
		return dto.DailyLogResponse{}, validationError(err)
	}

	entry := models.DailyLog{
		Date:    s.now().UTC(),
		Content: req.Content,
		Note:    req.Note,
		UserID:  actor.ID,
	}
	if req.Date != nil && !req.Date.IsZero() {
		entry.Date = req.Date.UTC()
	}

	if err := s.repo.Create(ctx, &entry); err != nil {
		return dto.DailyLogResponse{}, err
	}
	return dto.NewDailyLogResponse(entry), nil
}

func (s *dailyLogService) List(ctx context.Context, actor Actor, limit int) ([]dto.DailyLogResponse, error) {
	if !actor.Authenticated() {
		return nil, unauthorizedf("authentication required")
	}

	entries, err := s.repo.ListByUser(ctx, actor.ID, clampLimit(limit))
	if err != nil {
		return nil, err
	}

	items := make([]dto.DailyLogResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.NewDailyLogResponse(entry))
	}
	return items, nil
}
