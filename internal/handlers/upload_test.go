package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrnote/qrnote/internal/config"
	"github.com/qrnote/qrnote/internal/storage"
	"github.com/qrnote/qrnote/internal/upload"
)

func newTestHandler(provider storage.Provider) *UploadHandler {
	log := slog.Default()
	return NewUploadHandler(log, upload.NewService(log, provider), config.AWSConfig{
		Region: "us-east-1",
		Bucket: "test-bucket",
	})
}

func newTestServer(provider storage.Provider) *echo.Echo {
	e := echo.New()
	newTestHandler(provider).Register(e)
	return e
}

func multipartBody(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func postUpload(e *echo.Echo, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestUploadRejectsNonMultipart(t *testing.T) {
	e := newTestServer(storage.NewMemoryProvider())

	for _, path := range []string{"/api/upload-audio", "/api/upload-image"} {
		rec := postUpload(e, path, bytes.NewBufferString(`{}`), echo.MIMEApplicationJSON)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid content type. Expected multipart/form-data", decodeError(t, rec).Error)
	}
}

func TestUploadRejectsMissingField(t *testing.T) {
	e := newTestServer(storage.NewMemoryProvider())

	body, contentType := multipartBody(t, "wrong", "a.webm", "audio/webm", []byte("data"))
	rec := postUpload(e, "/api/upload-audio", body, contentType)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No audio file provided", decodeError(t, rec).Error)

	body, contentType = multipartBody(t, "wrong", "a.jpg", "image/jpeg", []byte("data"))
	rec = postUpload(e, "/api/upload-image", body, contentType)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No image file provided", decodeError(t, rec).Error)
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	e := newTestServer(storage.NewMemoryProvider())

	big := bytes.Repeat([]byte("x"), 11*1024*1024)
	body, contentType := multipartBody(t, "audio", "big.webm", "audio/webm", big)
	rec := postUpload(e, "/api/upload-audio", body, contentType)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "File size exceeds 10MB limit", decodeError(t, rec).Error)
}

func TestUploadRejectsDisallowedType(t *testing.T) {
	e := newTestServer(storage.NewMemoryProvider())

	body, contentType := multipartBody(t, "audio", "note.txt", "text/plain", []byte("hello"))
	rec := postUpload(e, "/api/upload-audio", body, contentType)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid file type. Only audio files are allowed", decodeError(t, rec).Error)

	body, contentType = multipartBody(t, "image", "note.txt", "text/plain", []byte("hello"))
	rec = postUpload(e, "/api/upload-image", body, contentType)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid file type. Only image files (JPEG, PNG, WebP) are allowed", decodeError(t, rec).Error)
}

func TestUploadAcceptsAllowedTypes(t *testing.T) {
	cases := []struct {
		path  string
		field string
		mime  string
	}{
		{"/api/upload-audio", "audio", "audio/webm"},
		{"/api/upload-audio", "audio", "audio/mp4"},
		{"/api/upload-audio", "audio", "audio/wav"},
		{"/api/upload-image", "image", "image/jpeg"},
		{"/api/upload-image", "image", "image/png"},
		{"/api/upload-image", "image", "image/webp"},
	}
	for _, tc := range cases {
		t.Run(tc.mime, func(t *testing.T) {
			e := newTestServer(storage.NewMemoryProvider())
			body, contentType := multipartBody(t, tc.field, "file", tc.mime, bytes.Repeat([]byte("a"), 1024))
			rec := postUpload(e, tc.path, body, contentType)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		})
	}
}

func TestUploadSuccessBody(t *testing.T) {
	provider := storage.NewMemoryProvider()
	e := newTestServer(provider)

	before := time.Now()
	body, contentType := multipartBody(t, "image", "photo.png", "image/png", bytes.Repeat([]byte("p"), 1024))
	rec := postUpload(e, "/api/upload-image", body, contentType)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result upload.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.True(t, strings.HasPrefix(result.FileName, "images/"), result.FileName)
	assert.NotEmpty(t, result.URL)
	assert.NotEmpty(t, result.SignedURL)

	expires, err := time.Parse(time.RFC3339, result.ExpiresAt)
	require.NoError(t, err)
	assert.True(t, expires.After(before))
	assert.True(t, expires.Before(before.Add(24*time.Hour+time.Second)))

	_, stored := provider.Get(result.FileName)
	assert.True(t, stored, "object should be in the bucket")
}

func TestUploadBackendFailureReturns500WithDetails(t *testing.T) {
	provider := storage.NewMemoryProvider()
	provider.PutErr = errors.New("connection reset")
	e := newTestServer(provider)

	body, contentType := multipartBody(t, "audio", "rec.webm", "audio/webm", []byte("data"))
	rec := postUpload(e, "/api/upload-audio", body, contentType)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	resp := decodeError(t, rec)
	assert.Equal(t, "Upload failed", resp.Error)
	require.NotNil(t, resp.Details)
	assert.Contains(t, resp.Details.Message, "connection reset")
	assert.Equal(t, "us-east-1", resp.Details.Region)
	assert.Equal(t, "test-bucket", resp.Details.Bucket)
}
