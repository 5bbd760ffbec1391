package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const uploadsDir = "uploads"

// LocalStorage keeps uploaded files on the local filesystem and serves them under /uploads.
type LocalStorage struct {
	baseDir   string
	publicURL string
	logger    zerolog.Logger
}

// NewLocalStorage creates the upload root below baseDir. publicURL is prefixed to returned
// paths and may be empty for same-origin serving.
func NewLocalStorage(baseDir, publicURL string, logger zerolog.Logger) (*LocalStorage, error) {
	if strings.TrimSpace(baseDir) == "" {
		return nil, fmt.Errorf("storage directory must not be empty")
	}
	if err := os.MkdirAll(filepath.Join(baseDir, uploadsDir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		baseDir:   baseDir,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger.With().Str("component", "local_storage").Logger(),
	}, nil
}

// Root returns the directory that should be served statically.
func (s *LocalStorage) Root() string {
	return filepath.Join(s.baseDir, uploadsDir)
}

// Upload writes the content to uploads/YYYY/MM/<random><ext> and returns its public URL.
func (s *LocalStorage) Upload(ctx context.Context, name string, reader io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	month := time.Now().Format("2006/01")
	dir := filepath.Join(s.baseDir, uploadsDir, filepath.FromSlash(month))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	fileName := generateID() + strings.ToLower(filepath.Ext(name))
	filePath := filepath.Join(dir, fileName)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(dst, reader); err != nil {
		_ = dst.Close()
		_ = os.Remove(filePath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(filePath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	url := s.publicURL + "/" + path.Join(uploadsDir, month, fileName)
	s.logger.Debug().Str("path", filePath).Msg("file stored locally")
	return url, nil
}

// Owns reports whether the URL points at a file managed by this storage.
func (s *LocalStorage) Owns(url string) bool {
	_, ok := s.relativePath(url)
	return ok
}

// Delete removes a previously uploaded file. URLs not managed by this storage are ignored.
func (s *LocalStorage) Delete(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rel, ok := s.relativePath(url)
	if !ok {
		return nil
	}

	if err := os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(rel))); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *LocalStorage) relativePath(url string) (string, bool) {
	trimmed := strings.TrimPrefix(url, s.publicURL)
	trimmed = strings.TrimPrefix(trimmed, "/")
	if !strings.HasPrefix(trimmed, uploadsDir+"/") {
		return "", false
	}

	cleaned := path.Clean(trimmed)
	if cleaned != trimmed || strings.Contains(cleaned, "..") {
		return "", false
	}
	return cleaned, true
}

func generateID() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
