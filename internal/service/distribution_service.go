package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/saraban-go-api/internal/dto"
	"github.com/noah-isme/saraban-go-api/internal/models"
	"github.com/noah-isme/saraban-go-api/internal/observability"
	"github.com/noah-isme/saraban-go-api/internal/repository"
	"github.com/noah-isme/saraban-go-api/internal/statemachine"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// DistributionService routes documents to recipients and tracks each acknowledgement.
type DistributionService interface {
	Create(ctx context.Context, actor Actor, req dto.CreateDocumentRequest, file *multipart.FileHeader) (dto.DocumentResponse, error)
	Advance(ctx context.Context, actor Actor, recipientID uint, status string) (dto.RecipientResponse, error)
	ListInbox(ctx context.Context, actor Actor, query dto.InboxQuery) ([]dto.InboxItemResponse, error)
	Stats(ctx context.Context, documentID uint) (dto.StatsResponse, error)
	Detail(ctx context.Context, actor Actor, documentID uint) (dto.DocumentDetailResponse, error)
	ListSent(ctx context.Context, actor Actor, limit int) ([]dto.SentDocumentResponse, error)
	Delete(ctx context.Context, actor Actor, documentID uint) error
}

type distributionService struct {
	documents  repository.DocumentRepository
	recipients repository.RecipientRepository
	users      repository.UserRepository
	audit      AuditService
	uploads    UploadService
	notifier   Notifier
	validator  *validator.Validate
	logger     zerolog.Logger
	tracer     trace.Tracer
	now        func() time.Time
}

// NewDistributionService wires the tracker. uploads and notifier may be nil.
func NewDistributionService(
	documents repository.DocumentRepository,
	recipients repository.RecipientRepository,
	users repository.UserRepository,
	audit AuditService,
	uploads UploadService,
	notifier Notifier,
	validate *validator.Validate,
	logger zerolog.Logger,
) DistributionService {
	return &distributionService{
		documents:  documents,
		recipients: recipients,
		users:      users,
		audit:      audit,
		uploads:    uploads,
		notifier:   notifier,
		validator:  validate,
		logger:     logger.With().Str("component", "distribution_service").Logger(),
		tracer:     otel.Tracer("github.com/noah-isme/saraban-go-api/internal/service/distribution"),
		now:        time.Now,
	}
}

func (s *distributionService) Create(ctx context.Context, actor Actor, req dto.CreateDocumentRequest, file *multipart.FileHeader) (dto.DocumentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "documents.create")
	defer span.End()

	if !actor.CanSend() {
		return dto.DocumentResponse{}, unauthorizedf("role %s may not send documents", actor.Role)
	}

	req.DocNumber = strings.TrimSpace(req.DocNumber)
	req.Title = cleanText(req.Title)
	req.Description = cleanText(req.Description)
	req.RecipientIDs = uniqueIDs(req.RecipientIDs)
	if err := s.validator.Struct(req); err != nil {
		return dto.DocumentResponse{}, validationError(err)
	}
	span.SetAttributes(
		attribute.String("document.number", req.DocNumber),
		attribute.Int("document.recipients", len(req.RecipientIDs)),
	)

	users, err := s.users.FindActiveByIDs(ctx, req.RecipientIDs)
	if err != nil {
		return dto.DocumentResponse{}, err
	}
	if missing := missingIDs(req.RecipientIDs, users); len(missing) > 0 {
		return dto.DocumentResponse{}, validationf("recipients %v are not active users", missing)
	}

	doc := models.Document{
		DocNumber:   req.DocNumber,
		Title:       req.Title,
		Description: req.Description,
		CreatedByID: actor.ID,
	}

	if file != nil {
		if s.uploads == nil {
			return dto.DocumentResponse{}, validationf("file uploads are not configured")
		}
		stored, err := s.uploads.Store(ctx, file, req.Storage, &actor.ID)
		if err != nil {
			return dto.DocumentResponse{}, err
		}
		doc.FileURL = stored.URL
		doc.OriginalName = stored.FileName
	}

	entry, err := s.audit.Build(AuditEntry{
		Actor:    actor,
		Action:   models.AuditActionSend,
		Metadata: map[string]interface{}{"doc_number": doc.DocNumber, "recipients": len(req.RecipientIDs)},
	})
	if err != nil {
		return dto.DocumentResponse{}, err
	}

	if err := s.documents.CreateWithRecipients(ctx, &doc, req.RecipientIDs, &entry); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create failed")
		s.discardFile(ctx, doc.FileURL)
		if errors.Is(err, repository.ErrDuplicateKey) {
			return dto.DocumentResponse{}, fmt.Errorf("%w: document number %s already exists", ErrDuplicateKey, doc.DocNumber)
		}
		return dto.DocumentResponse{}, err
	}

	observability.DocumentsSent().Inc()
	s.logger.Info().
		Uint("document_id", doc.ID).
		Str("doc_number", doc.DocNumber).
		Uint("actor_id", actor.ID).
		Int("recipients", len(req.RecipientIDs)).
		Msg("document distributed")

	if s.notifier != nil {
		message := fmt.Sprintf("New document %s: %s", doc.DocNumber, doc.Title)
		for _, userID := range req.RecipientIDs {
			s.notifier.Notify(ctx, userID, dto.NotificationTypeDocumentReceived, message, &doc.ID)
		}
	}

	doc.CreatedBy = models.User{ID: actor.ID, Name: actor.Name, Role: actor.Role}
	return dto.NewDocumentResponse(doc), nil
}

func (s *distributionService) Advance(ctx context.Context, actor Actor, recipientID uint, status string) (dto.RecipientResponse, error) {
	ctx, span := s.tracer.Start(ctx, "recipients.advance", trace.WithAttributes(
		attribute.Int64("recipient.id", int64(recipientID)),
		attribute.String("recipient.target", status),
	))
	defer span.End()

	if !actor.Authenticated() {
		return dto.RecipientResponse{}, unauthorizedf("authentication required")
	}

	target, ok := models.ParseRecipientStatus(strings.ToUpper(strings.TrimSpace(status)))
	if !ok || target == models.RecipientStatusPending {
		return dto.RecipientResponse{}, validationf("status must be READ or RECEIVED")
	}

	recipient, err := s.recipients.FindByID(ctx, recipientID)
	if err != nil {
		return dto.RecipientResponse{}, err
	}
	if recipient.UserID != actor.ID {
		return dto.RecipientResponse{}, unauthorizedf("recipient %d belongs to another user", recipientID)
	}

	for attempt := 0; ; attempt++ {
		next := recipient
		machine := statemachine.NewRecipientFSM(&next)
		err := machine.Apply(ctx, target, s.now().UTC())
		switch {
		case errors.Is(err, statemachine.ErrNoChange):
			observability.RecipientTransitions().WithLabelValues(string(target), "noop").Inc()
			return dto.NewRecipientResponse(recipient), nil
		case errors.Is(err, statemachine.ErrTransitionNotAllowed):
			observability.RecipientTransitions().WithLabelValues(string(target), "rejected").Inc()
			return dto.RecipientResponse{}, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, recipient.Status, target)
		case err != nil:
			return dto.RecipientResponse{}, validationError(err)
		}

		entry, err := s.audit.Build(AuditEntry{
			Actor:      actor,
			Action:     transitionAction(target),
			DocumentID: &recipient.DocumentID,
			Metadata: map[string]interface{}{
				"recipient_id": recipient.ID,
				"from":         string(recipient.Status),
				"to":           string(target),
			},
		})
		if err != nil {
			return dto.RecipientResponse{}, err
		}

		err = s.recipients.Transition(ctx, next, recipient.Status, &entry)
		if errors.Is(err, repository.ErrStaleWrite) {
			if attempt > 0 {
				observability.RecipientTransitions().WithLabelValues(string(target), "rejected").Inc()
				return dto.RecipientResponse{}, fmt.Errorf("%w: recipient %d changed concurrently", ErrInvalidTransition, recipient.ID)
			}
			s.logger.Debug().Uint("recipient_id", recipient.ID).Msg("stale recipient status, re-evaluating")
			if recipient, err = s.recipients.FindByID(ctx, recipientID); err != nil {
				return dto.RecipientResponse{}, err
			}
			continue
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "transition failed")
			return dto.RecipientResponse{}, err
		}

		observability.RecipientTransitions().WithLabelValues(string(target), "applied").Inc()
		s.notifySender(ctx, actor, next)
		return dto.NewRecipientResponse(next), nil
	}
}

func (s *distributionService) ListInbox(ctx context.Context, actor Actor, query dto.InboxQuery) ([]dto.InboxItemResponse, error) {
	if !actor.Authenticated() {
		return nil, unauthorizedf("authentication required")
	}

	filter := repository.InboxFilter{UserID: actor.ID, Limit: clampLimit(query.Limit)}
	if raw := strings.TrimSpace(query.Status); raw != "" {
		status, ok := models.ParseRecipientStatus(strings.ToUpper(raw))
		if !ok {
			return nil, validationf("unknown status %q", query.Status)
		}
		filter.Status = status
	}

	rows, err := s.recipients.ListInbox(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]dto.InboxItemResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.NewInboxItemResponse(row))
	}
	return items, nil
}

func (s *distributionService) Stats(ctx context.Context, documentID uint) (dto.StatsResponse, error) {
	if _, err := s.documents.FindByID(ctx, documentID); err != nil {
		return dto.StatsResponse{}, err
	}

	stats, err := s.documents.Stats(ctx, documentID)
	if err != nil {
		return dto.StatsResponse{}, err
	}
	return dto.NewStatsResponse(stats), nil
}

func (s *distributionService) Detail(ctx context.Context, actor Actor, documentID uint) (dto.DocumentDetailResponse, error) {
	if !actor.Authenticated() {
		return dto.DocumentDetailResponse{}, unauthorizedf("authentication required")
	}

	doc, err := s.documents.FindByID(ctx, documentID)
	if err != nil {
		return dto.DocumentDetailResponse{}, err
	}

	recipients, err := s.documents.ListRecipients(ctx, documentID)
	if err != nil {
		return dto.DocumentDetailResponse{}, err
	}

	trail, err := s.audit.ForDocument(ctx, documentID)
	if err != nil {
		return dto.DocumentDetailResponse{}, err
	}

	detail := dto.DocumentDetailResponse{
		Document:   dto.NewDocumentResponse(doc),
		Recipients: make([]dto.RecipientResponse, 0, len(recipients)),
		AuditTrail: trail,
	}

	var stats models.RecipientStats
	for _, recipient := range recipients {
		resp := dto.NewRecipientResponse(recipient)
		detail.Recipients = append(detail.Recipients, resp)
		detail.Document.RecipientIDs = append(detail.Document.RecipientIDs, recipient.UserID)
		tally(&stats, recipient.Status)
		if recipient.UserID == actor.ID {
			mine := resp
			detail.MyRecipient = &mine
		}
	}
	detail.Stats = dto.NewStatsResponse(stats)

	return detail, nil
}

func (s *distributionService) ListSent(ctx context.Context, actor Actor, limit int) ([]dto.SentDocumentResponse, error) {
	if !actor.Authenticated() {
		return nil, unauthorizedf("authentication required")
	}

	docs, err := s.documents.ListByCreator(ctx, actor.ID, clampLimit(limit))
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}
	stats, err := s.documents.StatsByDocument(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]dto.SentDocumentResponse, 0, len(docs))
	for _, doc := range docs {
		doc.CreatedBy = models.User{ID: actor.ID, Name: actor.Name, Role: actor.Role}
		items = append(items, dto.SentDocumentResponse{
			Document: dto.NewDocumentResponse(doc),
			Stats:    dto.NewStatsResponse(stats[doc.ID]),
		})
	}
	return items, nil
}

func (s *distributionService) Delete(ctx context.Context, actor Actor, documentID uint) error {
	if !actor.IsAdmin() {
		return unauthorizedf("only administrators may delete documents")
	}

	doc, err := s.documents.FindByID(ctx, documentID)
	if err != nil {
		return err
	}

	entry, err := s.audit.Build(AuditEntry{
		Actor:      actor,
		Action:     models.AuditActionDeleteDocument,
		DocumentID: &doc.ID,
		Metadata:   map[string]interface{}{"doc_number": doc.DocNumber, "title": doc.Title},
	})
	if err != nil {
		return err
	}

	if _, err := s.documents.Delete(ctx, documentID, &entry); err != nil {
		return err
	}

	s.discardFile(ctx, doc.FileURL)
	s.logger.Info().Uint("document_id", documentID).Uint("actor_id", actor.ID).Msg("document deleted")
	return nil
}

func (s *distributionService) notifySender(ctx context.Context, actor Actor, recipient models.Recipient) {
	if s.notifier == nil {
		return
	}

	doc, err := s.documents.FindByID(ctx, recipient.DocumentID)
	if err != nil {
		s.logger.Warn().Err(err).Uint("document_id", recipient.DocumentID).Msg("failed to load document for notification")
		return
	}
	if doc.CreatedByID == actor.ID {
		return
	}

	message := fmt.Sprintf("%s marked %s as %s", actor.Name, doc.DocNumber, recipient.Status)
	s.notifier.Notify(ctx, doc.CreatedByID, dto.NotificationTypeRecipientUpdated, message, &doc.ID)
}

func (s *distributionService) discardFile(ctx context.Context, url string) {
	if s.uploads == nil || url == "" {
		return
	}
	if err := s.uploads.Remove(ctx, url); err != nil {
		s.logger.Warn().Err(err).Str("url", url).Msg("failed to remove stored file")
	}
}

func transitionAction(target models.RecipientStatus) models.AuditAction {
	if target == models.RecipientStatusReceived {
		return models.AuditActionReceive
	}
	return models.AuditActionRead
}

func tally(stats *models.RecipientStats, status models.RecipientStatus) {
	stats.Total++
	switch status {
	case models.RecipientStatusPending:
		stats.Pending++
	case models.RecipientStatusRead:
		stats.Read++
	case models.RecipientStatusReceived:
		stats.Received++
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func missingIDs(requested []uint, found []models.User) []uint {
	present := make(map[uint]struct{}, len(found))
	for _, user := range found {
		present[user.ID] = struct{}{}
	}

	var missing []uint
	for _, id := range requested {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
