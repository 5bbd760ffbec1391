package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/saraban-go-api/internal/dto"
	"github.com/noah-isme/saraban-go-api/internal/models"
	"github.com/noah-isme/saraban-go-api/internal/repository"
)

const dashboardActivityLimit = 10

// RegistryCounter reports how many entries a registry book holds.
type RegistryCounter interface {
	Count(ctx context.Context) (int64, error)
}

// DashboardCounters groups the registry books shown on the dashboard.
type DashboardCounters struct {
	Orders          RegistryCounter
	Memoranda       RegistryCounter
	Letters         RegistryCounter
	IncomingLetters RegistryCounter
}

// DashboardService produces the per-user landing page summary.
type DashboardService interface {
	GetDashboard(ctx context.Context, actor Actor) (dto.DashboardResponse, error)
	Invalidate(ctx context.Context, userID uint)
}

type dashboardService struct {
	documents  repository.DocumentRepository
	recipients repository.RecipientRepository
	registries DashboardCounters
	audit      AuditService
	cache      *redis.Client
	cacheTTL   time.Duration
	logger     zerolog.Logger
}

// NewDashboardService builds the dashboard aggregator. cache may be nil.
func NewDashboardService(documents repository.DocumentRepository, recipients repository.RecipientRepository, registries DashboardCounters, audit AuditService, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		documents:  documents,
		recipients: recipients,
		registries: registries,
		audit:      audit,
		cache:      cache,
		cacheTTL:   ttl,
		logger:     logger.With().Str("component", "dashboard_service").Logger(),
	}
}

func dashboardCacheKey(userID uint) string {
	return fmt.Sprintf("dashboard:user:%d", userID)
}

func (s *dashboardService) GetDashboard(ctx context.Context, actor Actor) (dto.DashboardResponse, error) {
	if !actor.Authenticated() {
		return dto.DashboardResponse{}, unauthorizedf("authentication required")
	}
	cacheKey := dashboardCacheKey(actor.ID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.DashboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("user_id", actor.ID).Msg("dashboard cache hit")
				return response, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
	}

	response, err := s.build(ctx, actor)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	if s.cache != nil && s.cacheTTL > 0 {
		payload, err := json.Marshal(response)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return response, nil
}

func (s *dashboardService) Invalidate(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, dashboardCacheKey(userID)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("user_id", userID).Msg("failed to invalidate dashboard cache")
	}
}

func (s *dashboardService) build(ctx context.Context, actor Actor) (dto.DashboardResponse, error) {
	var response dto.DashboardResponse
	var err error

	if response.InboxPending, err = s.recipients.CountForUser(ctx, actor.ID, models.RecipientStatusPending); err != nil {
		return response, err
	}
	if response.InboxTotal, err = s.recipients.CountForUser(ctx, actor.ID, ""); err != nil {
		return response, err
	}
	if response.Sent, err = s.documents.CountByCreator(ctx, actor.ID); err != nil {
		return response, err
	}

	counters := []struct {
		counter RegistryCounter
		target  *int64
	}{
		{s.registries.Orders, &response.Orders},
		{s.registries.Memoranda, &response.Memoranda},
		{s.registries.Letters, &response.Letters},
		{s.registries.IncomingLetters, &response.IncomingLetters},
	}
	for _, item := range counters {
		if item.counter == nil {
			continue
		}
		if *item.target, err = item.counter.Count(ctx); err != nil {
			return response, err
		}
	}

	response.RecentActivity, err = s.audit.Recent(ctx, actor.ID,
		[]models.AuditAction{models.AuditActionCreateOrder, models.AuditActionCreateMemo},
		dashboardActivityLimit,
	)
	if err != nil {
		return response, err
	}

	return response, nil
}
