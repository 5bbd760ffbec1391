package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/noah-isme/saraban-go-api/internal/dto"
	"github.com/noah-isme/saraban-go-api/internal/models"
	"github.com/noah-isme/saraban-go-api/internal/repository"
)

const (
	defaultAuditPageSize = 100
	maxAuditPageSize     = 500
)

// AuditEntry captures the details required to persist an audit entry.
type AuditEntry struct {
	Actor      Actor
	Action     models.AuditAction
	DocumentID *uint
	Ref        *models.Ref
	Metadata   map[string]interface{}
}

// AuditRecorder appends entries to the audit trail.
type AuditRecorder interface {
	// Build validates the entry and returns the row for callers that persist it in their own transaction.
	Build(entry AuditEntry) (models.AuditLog, error)
	Record(ctx context.Context, entry AuditEntry) (dto.AuditLogResponse, error)
	// RecordBestEffort appends the entry and only logs a failure.
	RecordBestEffort(ctx context.Context, entry AuditEntry)
}

// AuditService records and queries the audit trail.
type AuditService interface {
	AuditRecorder
	Query(ctx context.Context, actor Actor, query dto.AuditQuery) (dto.AuditLogListResponse, error)
	ForDocument(ctx context.Context, documentID uint) ([]dto.AuditLogResponse, error)
	Recent(ctx context.Context, actorID uint, actions []models.AuditAction, limit int) ([]dto.AuditLogResponse, error)
}

type auditService struct {
	repo   repository.AuditLogRepository
	logger zerolog.Logger
}

// NewAuditService constructs the audit service.
func NewAuditService(repo repository.AuditLogRepository, logger zerolog.Logger) AuditService {
	return &auditService{
		repo:   repo,
		logger: logger.With().Str("component", "audit_service").Logger(),
	}
}

func (s *auditService) Build(entry AuditEntry) (models.AuditLog, error) {
	if !entry.Actor.Authenticated() {
		return models.AuditLog{}, validationf("audit actor is required")
	}
	if !entry.Action.Valid() {
		return models.AuditLog{}, validationf("unknown audit action %q", entry.Action)
	}

	model := models.AuditLog{
		UserID:     entry.Actor.ID,
		Action:     entry.Action,
		DocumentID: entry.DocumentID,
		IPAddress:  strings.TrimSpace(entry.Actor.IP),
		Metadata:   sanitizeMetadata(entry.Metadata),
	}

	ref := entry.Ref
	if ref == nil && entry.DocumentID != nil {
		ref = models.DocumentRef(*entry.DocumentID)
	}
	if ref != nil {
		kind, id := ref.Kind, ref.ID
		model.RefKind = &kind
		model.RefID = &id
		if kind == models.RefKindDocument && model.DocumentID == nil {
			model.DocumentID = &id
		}
	}

	return model, nil
}

func (s *auditService) Record(ctx context.Context, entry AuditEntry) (dto.AuditLogResponse, error) {
	model, err := s.Build(entry)
	if err != nil {
		return dto.AuditLogResponse{}, err
	}

	if err := s.repo.Create(ctx, &model); err != nil {
		s.logger.Error().Err(err).Str("action", string(entry.Action)).Msg("failed to persist audit log")
		return dto.AuditLogResponse{}, err
	}

	return dto.NewAuditLogResponse(model, ""), nil
}

func (s *auditService) RecordBestEffort(ctx context.Context, entry AuditEntry) {
	if _, err := s.Record(ctx, entry); err != nil {
		s.logger.Warn().
			Err(err).
			Str("action", string(entry.Action)).
			Uint("actor_id", entry.Actor.ID).
			Msg("audit entry dropped")
	}
}

func (s *auditService) Query(ctx context.Context, actor Actor, query dto.AuditQuery) (dto.AuditLogListResponse, error) {
	if !actor.IsAdmin() {
		return dto.AuditLogListResponse{}, unauthorizedf("audit trail is restricted to administrators")
	}

	filter := repository.AuditLogFilter{
		Page:     maxInt(query.Page, 1),
		PageSize: query.PageSize,
	}
	if filter.PageSize <= 0 {
		filter.PageSize = defaultAuditPageSize
	}
	if filter.PageSize > maxAuditPageSize {
		filter.PageSize = maxAuditPageSize
	}
	if query.ActorID > 0 {
		filter.ActorID = &query.ActorID
	}
	if query.DocumentID > 0 {
		filter.DocumentID = &query.DocumentID
	}
	if action := strings.ToUpper(strings.TrimSpace(query.Action)); action != "" {
		if !models.AuditAction(action).Valid() {
			return dto.AuditLogListResponse{}, validationf("unknown audit action %q", query.Action)
		}
		filter.Action = models.AuditAction(action)
	}
	if kind := strings.TrimSpace(query.RefKind); kind != "" {
		parsed, ok := models.ParseRefKind(kind)
		if !ok {
			return dto.AuditLogListResponse{}, validationf("unknown reference kind %q", query.RefKind)
		}
		filter.RefKind = parsed
	}

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.AuditLogListResponse{}, err
	}

	items, err := s.present(ctx, entries)
	if err != nil {
		return dto.AuditLogListResponse{}, err
	}

	return dto.AuditLogListResponse{
		Items:      items,
		Pagination: dto.NewPaginationMeta(filter.Page, filter.PageSize, total),
	}, nil
}

func (s *auditService) ForDocument(ctx context.Context, documentID uint) ([]dto.AuditLogResponse, error) {
	entries, _, err := s.repo.List(ctx, repository.AuditLogFilter{DocumentID: &documentID, PageSize: maxAuditPageSize})
	if err != nil {
		return nil, err
	}
	return s.present(ctx, entries)
}

func (s *auditService) Recent(ctx context.Context, actorID uint, actions []models.AuditAction, limit int) ([]dto.AuditLogResponse, error) {
	entries, err := s.repo.ListRecent(ctx, actorID, actions, limit)
	if err != nil {
		return nil, err
	}
	return s.present(ctx, entries)
}

// present maps entries to responses, resolving reference numbers with one query per kind.
func (s *auditService) present(ctx context.Context, entries []models.AuditLog) ([]dto.AuditLogResponse, error) {
	idsByKind := make(map[models.RefKind][]uint)
	for _, entry := range entries {
		if ref := entry.Ref(); ref != nil {
			idsByKind[ref.Kind] = append(idsByKind[ref.Kind], ref.ID)
		}
	}

	numbers := make(map[models.RefKind]map[uint]string, len(idsByKind))
	for kind, ids := range idsByKind {
		resolved, err := s.repo.RefNumbers(ctx, kind, ids)
		if err != nil {
			return nil, err
		}
		numbers[kind] = resolved
	}

	items := make([]dto.AuditLogResponse, 0, len(entries))
	for _, entry := range entries {
		number := ""
		if ref := entry.Ref(); ref != nil {
			number = numbers[ref.Kind][ref.ID]
		}
		items = append(items, dto.NewAuditLogResponse(entry, number))
	}
	return items, nil
}

func sanitizeMetadata(metadata map[string]interface{}) datatypes.JSONMap {
	if len(metadata) == 0 {
		return nil
	}

	sanitized := datatypes.JSONMap{}
	for key, value := range metadata {
		lower := strings.ToLower(key)
		if strings.Contains(lower, "password") || strings.Contains(lower, "token") {
			sanitized[key] = "***"
			continue
		}
		sanitized[key] = value
	}
	return sanitized
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
