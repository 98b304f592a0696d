// Package handlers implements the HTTP API surface (upload endpoints, health).
package handlers

// @title QR Note API
// @version 1.0.0

import (
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/qrnote/qrnote/internal/config"
	"github.com/qrnote/qrnote/internal/upload"
)

// UploadHandler serves the audio and image upload endpoints.
type UploadHandler struct {
	service *upload.Service
	aws     config.AWSConfig
	logger  *slog.Logger
}

// NewUploadHandler creates the upload handler.
func NewUploadHandler(log *slog.Logger, service *upload.Service, aws config.AWSConfig) *UploadHandler {
	return &UploadHandler{
		service: service,
		aws:     aws,
		logger:  log.With(slog.String("handler", "upload")),
	}
}

// Register mounts the upload endpoints on the Echo instance.
func (h *UploadHandler) Register(e *echo.Echo) {
	e.POST("/api/upload-audio", h.UploadAudio)
	e.POST("/api/upload-image", h.UploadImage)
}

// UploadAudio godoc
// @Summary Upload an audio recording
// @Description Accepts a multipart form with an "audio" field (webm/mp4/wav,
// @Description max 10MB), stores it in S3 with a 24h expiry hint and returns
// @Description a public URL plus a signed URL.
// @Accept multipart/form-data
// @Param audio formData file true "Audio file"
// @Success 200 {object} upload.Result
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/upload-audio [post]
func (h *UploadHandler) UploadAudio(c echo.Context) error {
	return h.handle(c, upload.KindAudio, "No audio file provided", "Upload failed")
}

// UploadImage godoc
// @Summary Upload a captured photo
// @Description Accepts a multipart form with an "image" field
// @Description (jpeg/jpg/png/webp, max 10MB), stores it in S3 with a 24h
// @Description expiry hint and returns a public URL plus a signed URL.
// @Accept multipart/form-data
// @Param image formData file true "Image file"
// @Success 200 {object} upload.Result
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/upload-image [post]
func (h *UploadHandler) UploadImage(c echo.Context) error {
	return h.handle(c, upload.KindImage, "No image file provided", "Image upload failed")
}

func (h *UploadHandler) handle(c echo.Context, kind upload.Kind, missingMsg, failedMsg string) error {
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if !strings.Contains(contentType, "multipart/form-data") {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid content type. Expected multipart/form-data",
		})
	}

	fileHeader, err := c.FormFile(kind.FieldName())
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: missingMsg})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return h.fail(c, kind, failedMsg, err)
	}
	defer func() {
		_ = file.Close()
	}()

	result, err := h.service.Store(
		c.Request().Context(),
		kind,
		partContentType(fileHeader),
		fileHeader.Size,
		file,
	)
	if err != nil {
		if upload.IsValidation(err) {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		}
		return h.fail(c, kind, failedMsg, err)
	}

	return c.JSON(http.StatusOK, result)
}

// fail responds 500 with provider diagnostics. The failure is never retried
// here; the client is told exactly once.
func (h *UploadHandler) fail(c echo.Context, kind upload.Kind, msg string, err error) error {
	h.logger.Error("upload failed",
		slog.String("kind", string(kind)),
		slog.String("error", err.Error()),
	)
	details := upload.ErrorDetails(err, h.aws.Region, h.aws.Bucket)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   msg,
		Details: &details,
	})
}

func partContentType(fh *multipart.FileHeader) string {
	return fh.Header.Get("Content-Type")
}
