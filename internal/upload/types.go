// Package upload validates inbound media files and persists them to object storage.
package upload

import "errors"

// Kind identifies which upload endpoint a file arrived through.
type Kind string

const (
	KindAudio Kind = "audio"
	KindImage Kind = "image"
)

// MaxFileSize is the fixed per-file ceiling (10 MiB).
const MaxFileSize = 10 * 1024 * 1024

// ObjectTTL is how long uploaded objects remain accessible.
const ObjectTTL = 24 * 60 * 60 // seconds

// Validation errors mapped to 400 responses by the handlers.
var (
	ErrFileTooLarge     = errors.New("File size exceeds 10MB limit")
	ErrInvalidAudioType = errors.New("Invalid file type. Only audio files are allowed")
	ErrInvalidImageType = errors.New("Invalid file type. Only image files (JPEG, PNG, WebP) are allowed")
)

// Result is the success body returned by the upload endpoints.
type Result struct {
	Success   bool   `json:"success"`
	URL       string `json:"url"`
	SignedURL string `json:"signedUrl"`
	FileName  string `json:"fileName"`
	ExpiresAt string `json:"expiresAt"`
}

// FieldName returns the multipart form field the endpoint expects.
func (k Kind) FieldName() string {
	return string(k)
}

// KeyPrefix returns the storage path segment for the kind.
func (k Kind) KeyPrefix() string {
	if k == KindImage {
		return "images"
	}
	return "audio"
}

// allowedTypes returns the MIME substrings accepted for the kind.
func (k Kind) allowedTypes() []string {
	if k == KindImage {
		return []string{"image/jpeg", "image/jpg", "image/png", "image/webp"}
	}
	return []string{"audio/webm", "audio/mp4", "audio/wav"}
}

// typeError returns the kind-specific invalid-type error.
func (k Kind) typeError() error {
	if k == KindImage {
		return ErrInvalidImageType
	}
	return ErrInvalidAudioType
}
