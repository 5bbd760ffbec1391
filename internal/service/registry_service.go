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

	"github.com/noah-isme/saraban-go-api/internal/dto"
	"github.com/noah-isme/saraban-go-api/internal/models"
	"github.com/noah-isme/saraban-go-api/internal/repository"
)

const (
	defaultRegistryPageSize = 20
	maxRegistryPageSize     = 100
	registryExportLimit     = 5000
	registryDateLayout      = "2006-01-02"
)

// RegistryTable is a registry book flattened for spreadsheet export.
type RegistryTable struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// RegistryService manages one registry book of numbered documents with attached files.
type RegistryService[Req any, Resp any] interface {
	Create(ctx context.Context, actor Actor, req Req, file *multipart.FileHeader) (Resp, error)
	List(ctx context.Context, query dto.RegistryQuery) (dto.RegistryListResponse[Resp], error)
	Get(ctx context.Context, id uint) (Resp, error)
	Delete(ctx context.Context, actor Actor, id uint) error
	Count(ctx context.Context) (int64, error)
	Table(ctx context.Context, search string) (RegistryTable, error)
}

// Registry book services.
type (
	OrderService          = RegistryService[dto.CreateOrderRequest, dto.OrderResponse]
	MemorandumService     = RegistryService[dto.CreateMemorandumRequest, dto.MemorandumResponse]
	LetterService         = RegistryService[dto.CreateLetterRequest, dto.LetterResponse]
	IncomingLetterService = RegistryService[dto.CreateIncomingLetterRequest, dto.IncomingLetterResponse]
)

// registryBook describes how one registry kind maps requests, models and responses.
type registryBook[T any, Req any, Resp any] struct {
	name         string
	refKind      models.RefKind
	createAction models.AuditAction
	deleteAction models.AuditAction
	normalize    func(*Req)
	number       func(Req) string
	storage      func(Req) string
	build        func(req Req, owner models.User, fileURL, originalName string) T
	id           func(T) uint
	recordNumber func(T) string
	fileURL      func(T) string
	present      func(T) Resp
	headers      []string
	row          func(Resp) []string
}

type registryService[T any, Req any, Resp any] struct {
	book      registryBook[T, Req, Resp]
	repo      repository.RegistryRepository[T]
	audit     AuditRecorder
	uploads   UploadService
	validator *validator.Validate
	logger    zerolog.Logger
}

func newRegistryService[T any, Req any, Resp any](book registryBook[T, Req, Resp], repo repository.RegistryRepository[T], audit AuditRecorder, uploads UploadService, validate *validator.Validate, logger zerolog.Logger) *registryService[T, Req, Resp] {
	return &registryService[T, Req, Resp]{
		book:      book,
		repo:      repo,
		audit:     audit,
		uploads:   uploads,
		validator: validate,
		logger:    logger.With().Str("component", "registry_service").Str("registry", book.name).Logger(),
	}
}

func (s *registryService[T, Req, Resp]) Create(ctx context.Context, actor Actor, req Req, file *multipart.FileHeader) (Resp, error) {
	var zero Resp
	if !actor.Authenticated() {
		return zero, unauthorizedf("authentication required")
	}

	s.book.normalize(&req)
	if err := s.validator.Struct(req); err != nil {
		return zero, validationError(err)
	}
	if file == nil {
		return zero, validationf("file is required")
	}

	number := s.book.number(req)
	exists, err := s.repo.NumberExists(ctx, number)
	if err != nil {
		return zero, err
	}
	if exists {
		return zero, fmt.Errorf("%w: %s number %s already exists", ErrDuplicateKey, s.book.name, number)
	}

	stored, err := s.uploads.Store(ctx, file, s.book.storage(req), &actor.ID)
	if err != nil {
		return zero, err
	}

	owner := models.User{ID: actor.ID, Name: actor.Name, Role: actor.Role}
	record := s.book.build(req, owner, stored.URL, stored.FileName)
	if err := s.repo.Create(ctx, &record); err != nil {
		if removeErr := s.uploads.Remove(ctx, stored.URL); removeErr != nil {
			s.logger.Warn().Err(removeErr).Str("url", stored.URL).Msg("failed to remove orphaned file")
		}
		if errors.Is(err, repository.ErrDuplicateKey) {
			return zero, fmt.Errorf("%w: %s number %s already exists", ErrDuplicateKey, s.book.name, number)
		}
		return zero, err
	}

	id := s.book.id(record)
	s.audit.RecordBestEffort(ctx, AuditEntry{
		Actor:    actor,
		Action:   s.book.createAction,
		Ref:      &models.Ref{Kind: s.book.refKind, ID: id},
		Metadata: map[string]interface{}{"number": number},
	})
	s.logger.Info().Uint("id", id).Str("number", number).Uint("actor_id", actor.ID).Msg("registry entry created")

	return s.book.present(record), nil
}

func (s *registryService[T, Req, Resp]) List(ctx context.Context, query dto.RegistryQuery) (dto.RegistryListResponse[Resp], error) {
	filter := repository.RegistryFilter{
		Search:   strings.TrimSpace(query.Search),
		Page:     maxInt(query.Page, 1),
		PageSize: query.PageSize,
	}
	if filter.PageSize <= 0 {
		filter.PageSize = defaultRegistryPageSize
	}
	if filter.PageSize > maxRegistryPageSize {
		filter.PageSize = maxRegistryPageSize
	}

	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.RegistryListResponse[Resp]{}, err
	}

	items := make([]Resp, 0, len(records))
	for _, record := range records {
		items = append(items, s.book.present(record))
	}

	return dto.RegistryListResponse[Resp]{
		Items:      items,
		Pagination: dto.NewPaginationMeta(filter.Page, filter.PageSize, total),
	}, nil
}

func (s *registryService[T, Req, Resp]) Get(ctx context.Context, id uint) (Resp, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		var zero Resp
		return zero, err
	}
	return s.book.present(record), nil
}

func (s *registryService[T, Req, Resp]) Delete(ctx context.Context, actor Actor, id uint) error {
	if !actor.IsAdmin() {
		return unauthorizedf("only administrators may delete %s entries", s.book.name)
	}

	record, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	if url := s.book.fileURL(record); url != "" {
		if err := s.uploads.Remove(ctx, url); err != nil {
			s.logger.Warn().Err(err).Str("url", url).Msg("failed to remove stored file")
		}
	}

	s.audit.RecordBestEffort(ctx, AuditEntry{
		Actor:    actor,
		Action:   s.book.deleteAction,
		Ref:      &models.Ref{Kind: s.book.refKind, ID: id},
		Metadata: map[string]interface{}{"number": s.book.recordNumber(record)},
	})
	return nil
}

func (s *registryService[T, Req, Resp]) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *registryService[T, Req, Resp]) Table(ctx context.Context, search string) (RegistryTable, error) {
	records, _, err := s.repo.List(ctx, repository.RegistryFilter{Search: strings.TrimSpace(search), Page: 1, PageSize: registryExportLimit})
	if err != nil {
		return RegistryTable{}, err
	}

	table := RegistryTable{Name: s.book.name, Headers: s.book.headers, Rows: make([][]string, 0, len(records))}
	for _, record := range records {
		table.Rows = append(table.Rows, s.book.row(s.book.present(record)))
	}
	return table, nil
}

// NewOrderService constructs the order registry.
func NewOrderService(repo repository.RegistryRepository[models.Order], audit AuditRecorder, uploads UploadService, validate *validator.Validate, logger zerolog.Logger) OrderService {
	return newRegistryService(registryBook[models.Order, dto.CreateOrderRequest, dto.OrderResponse]{
		name:         "order",
		refKind:      models.RefKindOrder,
		createAction: models.AuditActionCreateOrder,
		deleteAction: models.AuditActionDeleteOrder,
		normalize: func(req *dto.CreateOrderRequest) {
			req.OrderNumber = strings.TrimSpace(req.OrderNumber)
			req.Title = cleanText(req.Title)
			req.Description = cleanText(req.Description)
			req.DocumentDate = dateOrToday(req.DocumentDate)
		},
		number:  func(req dto.CreateOrderRequest) string { return req.OrderNumber },
		storage: func(req dto.CreateOrderRequest) string { return req.Storage },
		build: func(req dto.CreateOrderRequest, owner models.User, fileURL, originalName string) models.Order {
			return models.Order{
				OrderNumber:  req.OrderNumber,
				Title:        req.Title,
				Description:  req.Description,
				DocumentDate: req.DocumentDate,
				FileURL:      fileURL,
				OriginalName: originalName,
				UploadedByID: owner.ID,
				UploadedBy:   owner,
			}
		},
		id:           func(o models.Order) uint { return o.ID },
		recordNumber: func(o models.Order) string { return o.OrderNumber },
		fileURL:      func(o models.Order) string { return o.FileURL },
		present:      dto.NewOrderResponse,
		headers:      []string{"Number", "Title", "Description", "Date", "Uploaded by", "File"},
		row: func(o dto.OrderResponse) []string {
			return []string{o.OrderNumber, o.Title, o.Description, o.DocumentDate.Format(registryDateLayout), o.UploadedBy.Name, o.FileURL}
		},
	}, repo, audit, uploads, validate, logger)
}

// NewMemorandumService constructs the memorandum registry.
func NewMemorandumService(repo repository.RegistryRepository[models.Memorandum], audit AuditRecorder, uploads UploadService, validate *validator.Validate, logger zerolog.Logger) MemorandumService {
	return newRegistryService(registryBook[models.Memorandum, dto.CreateMemorandumRequest, dto.MemorandumResponse]{
		name:         "memorandum",
		refKind:      models.RefKindMemorandum,
		createAction: models.AuditActionCreateMemo,
		deleteAction: models.AuditActionDeleteMemo,
		normalize: func(req *dto.CreateMemorandumRequest) {
			req.MemoNumber = strings.TrimSpace(req.MemoNumber)
			req.Title = cleanText(req.Title)
			req.Description = cleanText(req.Description)
			req.DocumentDate = dateOrToday(req.DocumentDate)
		},
		number:  func(req dto.CreateMemorandumRequest) string { return req.MemoNumber },
		storage: func(req dto.CreateMemorandumRequest) string { return req.Storage },
		build: func(req dto.CreateMemorandumRequest, owner models.User, fileURL, originalName string) models.Memorandum {
			return models.Memorandum{
				MemoNumber:   req.MemoNumber,
				Title:        req.Title,
				Description:  req.Description,
				DocumentDate: req.DocumentDate,
				FileURL:      fileURL,
				OriginalName: originalName,
				UploadedByID: owner.ID,
				UploadedBy:   owner,
			}
		},
		id:           func(m models.Memorandum) uint { return m.ID },
		recordNumber: func(m models.Memorandum) string { return m.MemoNumber },
		fileURL:      func(m models.Memorandum) string { return m.FileURL },
		present:      dto.NewMemorandumResponse,
		headers:      []string{"Number", "Title", "Description", "Date", "Uploaded by", "File"},
		row: func(m dto.MemorandumResponse) []string {
			return []string{m.MemoNumber, m.Title, m.Description, m.DocumentDate.Format(registryDateLayout), m.UploadedBy.Name, m.FileURL}
		},
	}, repo, audit, uploads, validate, logger)
}

// NewLetterService constructs the outgoing letter registry.
func NewLetterService(repo repository.RegistryRepository[models.Letter], audit AuditRecorder, uploads UploadService, validate *validator.Validate, logger zerolog.Logger) LetterService {
	return newRegistryService(registryBook[models.Letter, dto.CreateLetterRequest, dto.LetterResponse]{
		name:         "letter",
		refKind:      models.RefKindLetter,
		createAction: models.AuditActionCreateLetter,
		deleteAction: models.AuditActionDeleteLetter,
		normalize: func(req *dto.CreateLetterRequest) {
			req.LetterNumber = strings.TrimSpace(req.LetterNumber)
			req.Title = cleanText(req.Title)
			req.To = cleanText(req.To)
		},
		number:  func(req dto.CreateLetterRequest) string { return req.LetterNumber },
		storage: func(req dto.CreateLetterRequest) string { return req.Storage },
		build: func(req dto.CreateLetterRequest, owner models.User, fileURL, originalName string) models.Letter {
			return models.Letter{
				LetterNumber: req.LetterNumber,
				Title:        req.Title,
				Date:         req.Date,
				To:           req.To,
				FileURL:      fileURL,
				OriginalName: originalName,
				SenderID:     owner.ID,
				Sender:       owner,
			}
		},
		id:           func(l models.Letter) uint { return l.ID },
		recordNumber: func(l models.Letter) string { return l.LetterNumber },
		fileURL:      func(l models.Letter) string { return l.FileURL },
		present:      dto.NewLetterResponse,
		headers:      []string{"Number", "Title", "Date", "To", "Sender", "File"},
		row: func(l dto.LetterResponse) []string {
			return []string{l.LetterNumber, l.Title, l.Date.Format(registryDateLayout), l.To, l.Sender.Name, l.FileURL}
		},
	}, repo, audit, uploads, validate, logger)
}

// NewIncomingLetterService constructs the incoming letter registry.
func NewIncomingLetterService(repo repository.RegistryRepository[models.IncomingLetter], audit AuditRecorder, uploads UploadService, validate *validator.Validate, logger zerolog.Logger) IncomingLetterService {
	return newRegistryService(registryBook[models.IncomingLetter, dto.CreateIncomingLetterRequest, dto.IncomingLetterResponse]{
		name:         "incoming letter",
		refKind:      models.RefKindIncomingLetter,
		createAction: models.AuditActionCreateIncoming,
		deleteAction: models.AuditActionDeleteIncoming,
		normalize: func(req *dto.CreateIncomingLetterRequest) {
			req.ReceiveNumber = strings.TrimSpace(req.ReceiveNumber)
			req.RefNumber = strings.TrimSpace(req.RefNumber)
			req.Title = cleanText(req.Title)
			req.From = cleanText(req.From)
			req.To = cleanText(req.To)
			req.ReceivedDate = dateOrToday(req.ReceivedDate)
		},
		number:  func(req dto.CreateIncomingLetterRequest) string { return req.ReceiveNumber },
		storage: func(req dto.CreateIncomingLetterRequest) string { return req.Storage },
		build: func(req dto.CreateIncomingLetterRequest, owner models.User, fileURL, originalName string) models.IncomingLetter {
			return models.IncomingLetter{
				ReceiveNumber: req.ReceiveNumber,
				RefNumber:     req.RefNumber,
				Title:         req.Title,
				Date:          req.Date,
				ReceivedDate:  req.ReceivedDate,
				From:          req.From,
				To:            req.To,
				FileURL:       fileURL,
				OriginalName:  originalName,
				ReceiverID:    owner.ID,
				Receiver:      owner,
			}
		},
		id:           func(l models.IncomingLetter) uint { return l.ID },
		recordNumber: func(l models.IncomingLetter) string { return l.ReceiveNumber },
		fileURL:      func(l models.IncomingLetter) string { return l.FileURL },
		present:      dto.NewIncomingLetterResponse,
		headers:      []string{"Receive number", "Reference", "Title", "Date", "Received", "From", "To", "Receiver", "File"},
		row: func(l dto.IncomingLetterResponse) []string {
			return []string{
				l.ReceiveNumber, l.RefNumber, l.Title,
				l.Date.Format(registryDateLayout), l.ReceivedDate.Format(registryDateLayout),
				l.From, l.To, l.Receiver.Name, l.FileURL,
			}
		},
	}, repo, audit, uploads, validate, logger)
}

func dateOrToday(value time.Time) time.Time {
	if value.IsZero() {
		return time.Now().UTC().Truncate(24 * time.Hour)
	}
	return value
}
