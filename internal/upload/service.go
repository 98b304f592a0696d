package upload

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/qrnote/qrnote/internal/storage"
)

// Service stores validated media files and produces access URLs for them.
type Service struct {
	provider storage.Provider
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates an upload service on top of the given storage provider.
func NewService(log *slog.Logger, provider storage.Provider) *Service {
	return &Service{
		provider: provider,
		logger:   log.With(slog.String("service", "upload")),
		now:      time.Now,
	}
}

// ValidateType checks the declared MIME type against the kind's allowed set.
// Matching is by substring, so parameterized types like
// "audio/webm;codecs=opus" pass.
func ValidateType(kind Kind, mime string) error {
	for _, allowed := range kind.allowedTypes() {
		if strings.Contains(mime, allowed) {
			return nil
		}
	}
	return kind.typeError()
}

// GenerateFileName builds a unique storage key for the kind:
// "<prefix>/<unix-millis>-<random>.<ext>".
func GenerateFileName(kind Kind, ext string) string {
	if ext == "" {
		ext = "webm"
	}
	return fmt.Sprintf("%s/%d-%s.%s", kind.KeyPrefix(), time.Now().UnixMilli(), randomSuffix(), ext)
}

// ExtensionForMime maps an image MIME type to its file extension. Audio
// uploads always use the webm extension regardless of the declared type.
func ExtensionForMime(kind Kind, mime string) string {
	if kind == KindAudio {
		return "webm"
	}
	switch {
	case strings.Contains(mime, "image/png"):
		return "png"
	case strings.Contains(mime, "image/webp"):
		return "webp"
	default:
		return "jpg"
	}
}

// Store validates the file and persists it with a 24-hour expiry hint, then
// returns the public URL, a signed URL and the expiry instant. A single
// captured clock value drives the object expiry, the signed URL TTL and the
// reported expiresAt.
func (s *Service) Store(ctx context.Context, kind Kind, mime string, size int64, reader io.Reader) (Result, error) {
	if size > MaxFileSize {
		return Result{}, ErrFileTooLarge
	}
	if err := ValidateType(kind, mime); err != nil {
		return Result{}, err
	}

	now := s.now()
	expiresAt := now.Add(ObjectTTL * time.Second)
	fileName := GenerateFileName(kind, ExtensionForMime(kind, mime))
	contentType := mime
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := s.provider.Put(ctx, fileName, reader, size, contentType, expiresAt); err != nil {
		return Result{}, fmt.Errorf("store %s: %w", kind, err)
	}

	signedURL, err := s.provider.Presign(ctx, fileName, expiresAt.Sub(now))
	if err != nil {
		return Result{}, fmt.Errorf("sign %s url: %w", kind, err)
	}

	s.logger.Info("stored upload",
		slog.String("kind", string(kind)),
		slog.String("file_name", fileName),
		slog.Int64("size", size),
	)

	return Result{
		Success:   true,
		URL:       s.provider.PublicURL(fileName),
		SignedURL: signedURL,
		FileName:  fileName,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	}, nil
}

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomSuffix() string {
	b := make([]byte, 13)
	for i := range b {
		b[i] = suffixAlphabet[rand.Intn(len(suffixAlphabet))]
	}
	return string(b)
}
