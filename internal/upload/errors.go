package upload

import (
	"errors"

	"github.com/minio/minio-go/v7"
)

// Details describes a backend failure in the 500 response body. It never
// carries credentials.
type Details struct {
	Message    string `json:"message"`
	Name       string `json:"name"`
	Code       string `json:"code,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
	Region     string `json:"region"`
	Bucket     string `json:"bucket"`
}

// ErrorDetails extracts provider diagnostics from err, unwrapping the S3
// error response when present.
func ErrorDetails(err error, region, bucket string) Details {
	d := Details{
		Message: "Unknown error",
		Name:    "Unknown",
		Region:  region,
		Bucket:  bucket,
	}
	if err == nil {
		return d
	}
	d.Message = err.Error()
	d.Name = "Error"

	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		d.Code = resp.Code
		d.StatusCode = resp.StatusCode
		if resp.Message != "" {
			d.Message = resp.Message
		}
	}
	return d
}

// IsValidation reports whether err is one of the request validation errors
// that map to a 400 response.
func IsValidation(err error) bool {
	return errors.Is(err, ErrFileTooLarge) ||
		errors.Is(err, ErrInvalidAudioType) ||
		errors.Is(err, ErrInvalidImageType)
}
