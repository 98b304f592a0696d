// Package note wires text input, the capture adapters, the QR generator and
// the history store into one notebook.
package note

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/qrnote/qrnote/internal/capture"
	"github.com/qrnote/qrnote/internal/history"
	"github.com/qrnote/qrnote/internal/media"
	"github.com/qrnote/qrnote/internal/qr"
	"github.com/qrnote/qrnote/internal/toast"
	"github.com/qrnote/qrnote/internal/uploadclient"
)

// Components carries the collaborators a Notebook orchestrates. Speech,
// Recorder and Camera are optional; a nil adapter simply leaves that input
// path unavailable.
type Components struct {
	History   *history.Store
	Generator *qr.Generator
	Toasts    *toast.Manager
	Speech    *capture.SpeechRecognizer
	Recorder  *capture.AudioRecorder
	Camera    *capture.CameraCapture
	Uploads   *uploadclient.Client
}

// Notebook derives the current QR value from user input and the capture
// flows. Every change of the current value re-renders the QR code.
type Notebook struct {
	mu     sync.Mutex
	input  string
	c      Components
	logger *slog.Logger
}

// NewNotebook creates the orchestrator and wires the adapter callbacks.
func NewNotebook(log *slog.Logger, c Components) *Notebook {
	n := &Notebook{
		c:      c,
		logger: log.With(slog.String("service", "notebook")),
	}

	if c.Speech != nil {
		c.Speech.OnResult = func(transcript string) {
			n.SetInput(transcript)
			n.toastSuccess("Speech recognized", transcript)
		}
		c.Speech.OnError = func(code string) {
			n.toastError("Speech recognition failed", code)
		}
	}
	if c.Recorder != nil {
		c.Recorder.OnUploadSuccess = func(url string) {
			n.SetInput(url)
			n.c.History.Add(url)
			n.toastSuccess("Audio uploaded", url)
		}
		c.Recorder.OnUploadError = func(msg string) {
			n.toastError("Audio upload failed", msg)
		}
	}
	if c.Camera != nil {
		c.Camera.OnError = func(msg string) {
			n.toastError("Camera error", msg)
		}
	}
	return n
}

// SetInput replaces the typed input text.
func (n *Notebook) SetInput(text string) {
	n.mu.Lock()
	n.input = text
	n.mu.Unlock()
}

// Input returns the raw input text.
func (n *Notebook) Input() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.input
}

// CurrentValue is the string the QR code encodes: the trimmed input, or the
// default message when the input is blank.
func (n *Notebook) CurrentValue() string {
	trimmed := strings.TrimSpace(n.Input())
	if trimmed == "" {
		return qr.DefaultMessage
	}
	return trimmed
}

// Generate renders the current value as a QR PNG and records the input in
// the history. Returns nil when encoding fails (the generator reports the
// error through its callback).
func (n *Notebook) Generate() []byte {
	png := n.c.Generator.PNG(n.CurrentValue())
	if png == nil {
		n.toastError("QR generation failed", "")
		return nil
	}
	n.c.History.Add(n.Input())
	n.toastSuccess("QR code generated", "")
	return png
}

// QRPNG renders the current value without touching the history.
func (n *Notebook) QRPNG() []byte {
	return n.c.Generator.PNG(n.CurrentValue())
}

// QRDataURL renders the current value as a data URL without touching the history.
func (n *Notebook) QRDataURL() string {
	return n.c.Generator.DataURL(n.CurrentValue())
}

// CapturePhoto takes a still frame from the active camera, uploads it, and
// makes the returned URL the current value.
func (n *Notebook) CapturePhoto(ctx context.Context) {
	if n.c.Camera == nil {
		return
	}
	blob := n.c.Camera.CapturePhoto()
	if blob == nil {
		return
	}

	result, err := n.c.Uploads.UploadImage(ctx, blob, "image/jpeg")
	if err != nil {
		n.toastError("Image upload failed", err.Error())
		return
	}

	n.SetInput(result.URL)
	n.c.History.Add(result.URL)
	if media.IsImageURL(result.URL) {
		n.toastSuccess("Photo uploaded", result.URL)
	} else {
		n.toastSuccess("Photo uploaded", "")
	}
}

// UseHistoryItem loads the history entry at index into the input.
func (n *Notebook) UseHistoryItem(index int) bool {
	item, ok := n.c.History.Item(index)
	if !ok {
		return false
	}
	n.SetInput(item.Text)
	return true
}

func (n *Notebook) toastSuccess(title, message string) {
	if n.c.Toasts != nil {
		n.c.Toasts.Success(title, message)
	}
}

func (n *Notebook) toastError(title, message string) {
	n.logger.Error(title, slog.String("detail", message))
	if n.c.Toasts != nil {
		n.c.Toasts.Error(title, message)
	}
}
