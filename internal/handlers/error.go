package handlers

import "github.com/qrnote/qrnote/internal/upload"

// ErrorResponse is the standard API error body. Details is only set on
// backend failures.
type ErrorResponse struct {
	Error   string          `json:"error"`
	Details *upload.Details `json:"details,omitempty"`
}
