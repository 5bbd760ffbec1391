package service

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/saraban-go-api/internal/dto"
	"github.com/noah-isme/saraban-go-api/internal/models"
	"github.com/noah-isme/saraban-go-api/internal/observability"
	"github.com/noah-isme/saraban-go-api/internal/repository"
)

// Storage backend names accepted in upload requests.
const (
	BackendLocal      = "local"
	BackendCloudinary = "cloudinary"
)

var (
	// ErrUploadTooLarge indicates the payload exceeded the configured limit.
	ErrUploadTooLarge = fmt.Errorf("%w: file exceeds maximum allowed size", ErrValidation)
	// ErrUploadTypeNotAllowed indicates the MIME type is not permitted.
	ErrUploadTypeNotAllowed = fmt.Errorf("%w: file type not allowed", ErrValidation)
	// ErrUploadScanFailed indicates validation of the file failed.
	ErrUploadScanFailed = fmt.Errorf("%w: file scanning failed", ErrValidation)
)

// FileStorage abstracts upload destinations.
type FileStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// FileDeleter is implemented by storages that can remove what they stored.
type FileDeleter interface {
	Delete(ctx context.Context, url string) error
}

// UploadService validates files and stores them in the selected backend.
type UploadService interface {
	Store(ctx context.Context, file *multipart.FileHeader, backend string, actorID *uint) (dto.UploadResponse, error)
	Remove(ctx context.Context, url string) error
	MaxBytes() int64
}

type uploadService struct {
	backends       map[string]FileStorage
	defaultBackend string
	repo           repository.UploadRepository
	logger         zerolog.Logger
	maxSize        int64
	tracer         trace.Tracer
}

// NewUploadService constructs an upload service. Nil backends are skipped so an unconfigured
// remote store is rejected at request time.
func NewUploadService(backends map[string]FileStorage, defaultBackend string, repo repository.UploadRepository, maxBytes int64, logger zerolog.Logger) UploadService {
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}

	configured := make(map[string]FileStorage, len(backends))
	for name, backend := range backends {
		if backend != nil {
			configured[strings.ToLower(name)] = backend
		}
	}

	defaultBackend = strings.ToLower(strings.TrimSpace(defaultBackend))
	if _, ok := configured[defaultBackend]; !ok {
		defaultBackend = BackendLocal
	}

	return &uploadService{
		backends:       configured,
		defaultBackend: defaultBackend,
		repo:           repo,
		logger:         logger.With().Str("component", "upload_service").Logger(),
		maxSize:        maxBytes,
		tracer:         otel.Tracer("github.com/noah-isme/saraban-go-api/internal/service/upload"),
	}
}

func (s *uploadService) MaxBytes() int64 {
	return s.maxSize
}

func (s *uploadService) Store(ctx context.Context, file *multipart.FileHeader, backend string, actorID *uint) (dto.UploadResponse, error) {
	ctx, span := s.tracer.Start(ctx, "upload.store")
	defer span.End()

	start := time.Now()
	defer func() {
		observability.UploadLatency().Observe(time.Since(start).Seconds())
	}()

	backend = strings.ToLower(strings.TrimSpace(backend))
	if backend == "" {
		backend = s.defaultBackend
	}
	span.SetAttributes(
		attribute.Int64("upload.max_bytes", s.maxSize),
		attribute.String("upload.backend", backend),
	)

	storage, ok := s.backends[backend]
	if !ok {
		err := validationf("storage backend %q is not available", backend)
		span.RecordError(err)
		span.SetStatus(codes.Error, "unknown backend")
		return dto.UploadResponse{}, err
	}

	if file == nil {
		err := validationf("file is required")
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return dto.UploadResponse{}, err
	}
	span.SetAttributes(
		attribute.String("upload.original_name", strings.TrimSpace(file.Filename)),
		attribute.Int64("upload.request_size", file.Size),
	)

	if file.Size > s.maxSize {
		return dto.UploadResponse{}, s.reject(span, "size", ErrUploadTooLarge)
	}

	handle, err := file.Open()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "open failed")
		return dto.UploadResponse{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return dto.UploadResponse{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if int64(buf.Len()) > s.maxSize {
		return dto.UploadResponse{}, s.reject(span, "size", ErrUploadTooLarge)
	}
	if buf.Len() == 0 {
		return dto.UploadResponse{}, s.reject(span, "empty", validationf("file is empty"))
	}

	fileType := normalizeMime(mimetype.Detect(buf.Bytes()))
	span.SetAttributes(attribute.String("upload.detected_mime", fileType))
	if !isAllowedType(fileType) {
		return dto.UploadResponse{}, s.reject(span, "type", ErrUploadTypeNotAllowed)
	}

	if err := s.scan(buf.Bytes(), fileType); err != nil {
		return dto.UploadResponse{}, s.reject(span, "scan", err)
	}

	checksum := sha256.Sum256(buf.Bytes())
	sanitizedName := sanitizeFileName(file.Filename)

	url, err := storage.Upload(ctx, sanitizedName, bytes.NewReader(buf.Bytes()))
	if err != nil {
		observability.UploadRejected().WithLabelValues("storage").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage failed")
		s.logger.Error().Err(err).Str("backend", backend).Msg("failed to store upload")
		return dto.UploadResponse{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	record := models.UploadRecord{
		UserID:    actorID,
		FileName:  sanitizedName,
		URL:       url,
		Backend:   backend,
		MimeType:  fileType,
		SizeBytes: int64(buf.Len()),
		Checksum:  hex.EncodeToString(checksum[:]),
	}
	if err := s.repo.Create(ctx, &record); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return dto.UploadResponse{}, err
	}

	observability.UploadRequests().WithLabelValues(fileType).Inc()
	span.SetStatus(codes.Ok, "stored")

	return dto.UploadResponse{
		URL:       url,
		Backend:   backend,
		SizeBytes: record.SizeBytes,
		MimeType:  record.MimeType,
		Checksum:  record.Checksum,
		FileName:  strings.TrimSpace(filepath.Base(file.Filename)),
		StoredAt:  record.CreatedAt,
	}, nil
}

// Remove deletes a stored file when its backend supports deletion. Unknown URLs are ignored.
func (s *uploadService) Remove(ctx context.Context, url string) error {
	if strings.TrimSpace(url) == "" {
		return nil
	}

	record, err := s.repo.FindByURL(ctx, url)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	deleter, ok := s.backends[record.Backend].(FileDeleter)
	if !ok {
		return nil
	}
	if err := deleter.Delete(ctx, url); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return nil
}

func (s *uploadService) reject(span trace.Span, reason string, err error) error {
	observability.UploadRejected().WithLabelValues(reason).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, reason)
	return err
}

func (s *uploadService) scan(payload []byte, mime string) error {
	if mime != "application/zip" && !strings.HasPrefix(mime, "application/vnd.openxmlformats") {
		return nil
	}

	reader, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return ErrUploadScanFailed
	}
	var totalUncompressed uint64
	for _, f := range reader.File {
		totalUncompressed += f.UncompressedSize64
		if totalUncompressed > uint64(s.maxSize*20) {
			return fmt.Errorf("zip archive uncompressed size too large: %w", ErrUploadScanFailed)
		}
	}
	return nil
}

func sanitizeFileName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.ToLower(base)
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		if r == '-' || r == '_' {
			return r
		}
		return '-'
	}, base)
	base = strings.Trim(base, "-")
	if base == "" {
		base = fmt.Sprintf("upload-%d", time.Now().Unix())
	}
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		ext = ".bin"
	}
	return base + ext
}

// normalizeMime collapses detected types onto the allow-list vocabulary.
func normalizeMime(detected *mimetype.MIME) string {
	for m := detected; m != nil; m = m.Parent() {
		lower := strings.ToLower(m.String())
		if idx := strings.Index(lower, ";"); idx >= 0 {
			lower = strings.TrimSpace(lower[:idx])
		}
		switch {
		case strings.HasPrefix(lower, "image/"):
			return "image"
		case lower == "application/pdf":
			return lower
		case strings.HasPrefix(lower, "application/vnd.openxmlformats"), lower == "application/msword", lower == "application/vnd.ms-excel":
			return lower
		case lower == "application/zip", lower == "application/x-zip-compressed":
			return "application/zip"
		}
	}
	return strings.ToLower(detected.String())
}

func isAllowedType(m string) bool {
	switch {
	case m == "image", m == "application/pdf", m == "application/zip":
		return true
	case strings.HasPrefix(m, "application/vnd.openxmlformats"), m == "application/msword", m == "application/vnd.ms-excel":
		return true
	default:
		return false
	}
}
