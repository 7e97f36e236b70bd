package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"foodgram/internal/domain"

	"github.com/google/uuid"
)

const (
	MaxImageSize   = 10 * 1024 * 1024 // 10 MB
	DefaultDir     = "./media"
	DefaultURLBase = "/media"
)

var (
	ErrInvalidDataURI  = errors.New("image must be a base64 data URI")
	ErrEmptyImage      = errors.New("image is empty")
	ErrImageTooLarge   = errors.New("image is too large")
	ErrInvalidMimeType = errors.New("unsupported image type")
)

// AllowedMimeTypes maps accepted image types to file extensions.
var AllowedMimeTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Store writes images to local disk under baseDir and returns URLs under
// urlBase.
type Store struct {
	baseDir string
	urlBase string
	now     func() time.Time
}

func NewStore(baseDir, urlBase string) *Store {
	if baseDir == "" {
		baseDir = DefaultDir
	}
	if urlBase == "" {
		urlBase = DefaultURLBase
	}
	return &Store{baseDir: baseDir, urlBase: strings.TrimRight(urlBase, "/"), now: time.Now}
}

func (s *Store) BaseDir() string { return s.baseDir }
func (s *Store) URLBase() string { return s.urlBase }

// SaveDataURI decodes "data:image/png;base64,...." and stores it under
// recipes/YYYY/MM/DD/<uuid>.<ext>. Invalid input is reported as a
// domain.ValidationError on field "image".
func (s *Store) SaveDataURI(ctx context.Context, dataURI string) (string, error) {
	data, err := decodeDataURI(dataURI)
	if err != nil {
		return "", domain.NewValidationError("image", err.Error())
	}

	mimeType := http.DetectContentType(data)
	mimeType = strings.Split(mimeType, ";")[0]
	ext, ok := AllowedMimeTypes[mimeType]
	if !ok {
		return "", domain.NewValidationError("image", ErrInvalidMimeType.Error())
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	now := s.now()
	relDir := path.Join("recipes", fmt.Sprintf("%d/%02d/%02d", now.Year(), now.Month(), now.Day()))
	absDir := filepath.Join(s.baseDir, filepath.FromSlash(relDir))
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}

	filename := uuid.New().String() + ext
	absPath := filepath.Join(absDir, filename)
	if err := os.WriteFile(absPath, data, 0o644); err != nil {
		_ = os.Remove(absPath)
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	return s.urlBase + "/" + path.Join(relDir, filename), nil
}

// Remove deletes a file previously returned by SaveDataURI. URLs outside
// urlBase are ignored.
func (s *Store) Remove(url string) error {
	rel, ok := strings.CutPrefix(url, s.urlBase+"/")
	if !ok || rel == "" || strings.Contains(rel, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(rel)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func decodeDataURI(s string) ([]byte, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(s), "data:")
	if !ok {
		return nil, ErrInvalidDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, ErrInvalidDataURI
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageSize {
		return nil, ErrImageTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrInvalidDataURI
	}
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	return data, nil
}
