package upload

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/qrnote/qrnote/internal/storage"
)

func newTestService(provider storage.Provider) *Service {
	return NewService(slog.Default(), provider)
}

func TestGenerateFileNameFormat(t *testing.T) {
	audioRe := regexp.MustCompile(`^audio/\d+-[a-z0-9]+\.webm$`)
	imageRe := regexp.MustCompile(`^images/\d+-[a-z0-9]+\.png$`)

	if name := GenerateFileName(KindAudio, "webm"); !audioRe.MatchString(name) {
		t.Errorf("audio file name %q does not match expected layout", name)
	}
	if name := GenerateFileName(KindImage, "png"); !imageRe.MatchString(name) {
		t.Errorf("image file name %q does not match expected layout", name)
	}
	if GenerateFileName(KindAudio, "webm") == GenerateFileName(KindAudio, "webm") {
		t.Error("expected two generated names to differ")
	}
}

func TestValidateType(t *testing.T) {
	cases := []struct {
		name    string
		kind    Kind
		mime    string
		wantErr error
	}{
		{"audio webm", KindAudio, "audio/webm", nil},
		{"audio webm with codecs", KindAudio, "audio/webm;codecs=opus", nil},
		{"audio mp4", KindAudio, "audio/mp4", nil},
		{"audio wav", KindAudio, "audio/wav", nil},
		{"audio rejects text", KindAudio, "text/plain", ErrInvalidAudioType},
		{"audio rejects image", KindAudio, "image/png", ErrInvalidAudioType},
		{"image jpeg", KindImage, "image/jpeg", nil},
		{"image png", KindImage, "image/png", nil},
		{"image webp", KindImage, "image/webp", nil},
		{"image rejects text", KindImage, "text/plain", ErrInvalidImageType},
		{"image rejects gif", KindImage, "image/gif", ErrInvalidImageType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := ValidateType(tc.kind, tc.mime); !errors.Is(err, tc.wantErr) {
				t.Fatalf("ValidateType(%s, %q) = %v, want %v", tc.kind, tc.mime, err, tc.wantErr)
			}
		})
	}
}

func TestExtensionForMime(t *testing.T) {
	if got := ExtensionForMime(KindAudio, "audio/mp4"); got != "webm" {
		t.Errorf("audio extension = %q, want webm", got)
	}
	cases := map[string]string{
		"image/png":  "png",
		"image/webp": "webp",
		"image/jpeg": "jpg",
		"image/jpg":  "jpg",
	}
	for mime, want := range cases {
		if got := ExtensionForMime(KindImage, mime); got != want {
			t.Errorf("ExtensionForMime(image, %q) = %q, want %q", mime, got, want)
		}
	}
}

func TestStoreRejectsOversizedFile(t *testing.T) {
	svc := newTestService(storage.NewMemoryProvider())
	_, err := svc.Store(context.Background(), KindAudio, "audio/webm", MaxFileSize+1, bytes.NewReader(nil))
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("err = %v, want ErrFileTooLarge", err)
	}
}

func TestStoreSuccess(t *testing.T) {
	provider := storage.NewMemoryProvider()
	svc := newTestService(provider)
	data := bytes.Repeat([]byte("a"), 1024)

	before := time.Now()
	result, err := svc.Store(context.Background(), KindImage, "image/png", int64(len(data)), bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if !result.Success {
		t.Error("expected success")
	}
	if !strings.HasPrefix(result.FileName, "images/") {
		t.Errorf("file name %q missing images/ prefix", result.FileName)
	}
	if !strings.HasSuffix(result.FileName, ".png") {
		t.Errorf("file name %q missing png extension", result.FileName)
	}
	if result.URL != provider.PublicURL(result.FileName) {
		t.Errorf("url = %q", result.URL)
	}
	if result.SignedURL == "" {
		t.Error("expected a signed url")
	}

	expires, err := time.Parse(time.RFC3339, result.ExpiresAt)
	if err != nil {
		t.Fatalf("expiresAt %q is not RFC3339: %v", result.ExpiresAt, err)
	}
	if expires.Before(before) || expires.After(before.Add(24*time.Hour+time.Second)) {
		t.Errorf("expiresAt %v outside (now, now+24h+1s)", expires)
	}

	obj, ok := provider.Get(result.FileName)
	if !ok {
		t.Fatal("object not stored")
	}
	if obj.ContentType != "image/png" {
		t.Errorf("content type = %q", obj.ContentType)
	}
	if obj.Expires.IsZero() {
		t.Error("expected an expiry hint on the stored object")
	}
}

func TestStorePropagatesBackendFailure(t *testing.T) {
	provider := storage.NewMemoryProvider()
	provider.PutErr = errors.New("bucket unreachable")
	svc := newTestService(provider)

	_, err := svc.Store(context.Background(), KindAudio, "audio/webm", 10, bytes.NewReader([]byte("0123456789")))
	if err == nil || IsValidation(err) {
		t.Fatalf("expected a backend error, got %v", err)
	}
}

func TestErrorDetails(t *testing.T) {
	d := ErrorDetails(errors.New("boom"), "us-east-1", "qr-note")
	if d.Message != "boom" || d.Region != "us-east-1" || d.Bucket != "qr-note" {
		t.Errorf("details = %+v", d)
	}

	d = ErrorDetails(nil, "us-east-1", "qr-note")
	if d.Message != "Unknown error" || d.Name != "Unknown" {
		t.Errorf("nil error details = %+v", d)
	}
}
