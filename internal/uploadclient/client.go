// Package uploadclient sends media blobs to the upload endpoints and parses
// the structured results.
package uploadclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/qrnote/qrnote/internal/upload"
)

// Fixed client-side failure messages; these mirror the wire contract rather
// than Go error conventions.
var (
	ErrUploadFailed    = errors.New("Upload failed")
	ErrInvalidResponse = errors.New("Invalid response from upload service")
	ErrParseResponse   = errors.New("Failed to parse response")
)

// ProgressFunc receives upload progress as a 0-100 percentage. It is only
// called when the total length is computable.
type ProgressFunc func(percent float64)

// Client talks to the qrnote upload API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// New creates a Client for the API at baseURL.
func New(log *slog.Logger, baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  log.With(slog.String("component", "upload_client")),
	}
}

// UploadAudio sends an audio blob to /api/upload-audio. An empty mime
// defaults to audio/webm.
func (c *Client) UploadAudio(ctx context.Context, blob []byte, mime string) (upload.Result, error) {
	return c.send(ctx, upload.KindAudio, blob, mime, nil)
}

// UploadImage sends an image blob to /api/upload-image. An empty mime
// defaults to image/jpeg.
func (c *Client) UploadImage(ctx context.Context, blob []byte, mime string) (upload.Result, error) {
	return c.send(ctx, upload.KindImage, blob, mime, nil)
}

// UploadAudioWithProgress is UploadAudio with byte-level progress reporting.
func (c *Client) UploadAudioWithProgress(ctx context.Context, blob []byte, mime string, onProgress ProgressFunc) (upload.Result, error) {
	return c.send(ctx, upload.KindAudio, blob, mime, onProgress)
}

// UploadImageWithProgress is UploadImage with byte-level progress reporting.
func (c *Client) UploadImageWithProgress(ctx context.Context, blob []byte, mime string, onProgress ProgressFunc) (upload.Result, error) {
	return c.send(ctx, upload.KindImage, blob, mime, onProgress)
}

func (c *Client) send(ctx context.Context, kind upload.Kind, blob []byte, mime string, onProgress ProgressFunc) (upload.Result, error) {
	body, contentType, err := encodeForm(kind, blob, mime)
	if err != nil {
		return upload.Result{}, fmt.Errorf("encode form: %w", err)
	}

	var reader io.Reader = body
	if onProgress != nil {
		reader = &progressReader{r: body, total: int64(body.Len()), onProgress: onProgress}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(kind), reader)
	if err != nil {
		return upload.Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = int64(body.Len())

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("upload transport error", slog.String("error", err.Error()))
		return upload.Result{}, ErrUploadFailed
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return upload.Result{}, ErrUploadFailed
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if onProgress != nil {
			return upload.Result{}, fmt.Errorf("Upload failed with status: %d", resp.StatusCode)
		}
		return upload.Result{}, statusError(payload)
	}

	var result upload.Result
	if err := json.Unmarshal(payload, &result); err != nil {
		if onProgress != nil {
			return upload.Result{}, ErrParseResponse
		}
		return upload.Result{}, ErrInvalidResponse
	}
	if !result.Success || result.URL == "" {
		return upload.Result{}, ErrInvalidResponse
	}
	return result, nil
}

func (c *Client) endpoint(kind upload.Kind) string {
	if kind == upload.KindImage {
		return c.baseURL + "/api/upload-image"
	}
	return c.baseURL + "/api/upload-audio"
}

// statusError extracts {error} from a failure body, falling back to the
// generic upload failure when the body is unparsable.
func statusError(payload []byte) error {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(payload, &body); err != nil || body.Error == "" {
		return ErrUploadFailed
	}
	return errors.New(body.Error)
}

func encodeForm(kind upload.Kind, blob []byte, mime string) (*bytes.Buffer, string, error) {
	if mime == "" {
		if kind == upload.KindImage {
			mime = "image/jpeg"
		} else {
			mime = "audio/webm"
		}
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, kind.FieldName(), partFileName(kind)))
	header.Set("Content-Type", mime)
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(blob); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func partFileName(kind upload.Kind) string {
	if kind == upload.KindImage {
		return fmt.Sprintf("photo-%d.jpg", time.Now().UnixMilli())
	}
	return fmt.Sprintf("recording-%d.webm", time.Now().UnixMilli())
}

// progressReader reports read progress as a percentage of a known total.
type progressReader struct {
	r          io.Reader
	total      int64
	read       int64
	onProgress ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.total > 0 {
		p.read += int64(n)
		p.onProgress(float64(p.read) / float64(p.total) * 100)
	}
	return n, err
}
