// Package qr renders text into QR code images.
package qr

import (
	"encoding/base64"
	"io"
	"log/slog"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultMessage is encoded when the input is empty or whitespace-only.
const DefaultMessage = "Welcome to QR Note!"

// Defaults for rendering.
const (
	DefaultSize   = 240
	DefaultMargin = 2
	DefaultLevel  = "M"
)

// Options configures a Generator.
type Options struct {
	// Size is the output edge length in pixels.
	Size int
	// Margin is the quiet-zone width in modules. The underlying encoder
	// draws a fixed quiet zone; the value is kept for API parity.
	Margin int
	// Level is the error correction level: L, M, Q or H.
	Level string
	// OnError receives a message when encoding fails. Failures never
	// propagate past the generator.
	OnError func(msg string)
}

// Generator encodes strings as QR code PNGs.
type Generator struct {
	opts   Options
	level  qrcode.RecoveryLevel
	logger *slog.Logger
}

// New creates a Generator, filling unset options with defaults.
func New(log *slog.Logger, opts Options) *Generator {
	if opts.Size <= 0 {
		opts.Size = DefaultSize
	}
	if opts.Margin < 0 {
		opts.Margin = DefaultMargin
	}
	return &Generator{
		opts:   opts,
		level:  parseLevel(opts.Level),
		logger: log.With(slog.String("service", "qr")),
	}
}

// Render encodes text (or the default message when text is blank) and writes
// the PNG to w. Returns false after invoking the error callback on failure.
func (g *Generator) Render(text string, w io.Writer) bool {
	png := g.PNG(text)
	if png == nil {
		return false
	}
	if _, err := w.Write(png); err != nil {
		g.fail("write QR image: " + err.Error())
		return false
	}
	return true
}

// PNG returns the encoded PNG bytes, or nil on failure.
func (g *Generator) PNG(text string) []byte {
	if strings.TrimSpace(text) == "" {
		text = DefaultMessage
	}
	png, err := qrcode.Encode(text, g.level, g.opts.Size)
	if err != nil {
		g.fail("QR code generation failed: " + err.Error())
		return nil
	}
	return png
}

// DataURL returns the QR code as a base64 PNG data URL, or "" on failure.
func (g *Generator) DataURL(text string) string {
	png := g.PNG(text)
	if png == nil {
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}

func (g *Generator) fail(msg string) {
	g.logger.Error(msg)
	if g.opts.OnError != nil {
		g.opts.OnError(msg)
	}
}

func parseLevel(level string) qrcode.RecoveryLevel {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "L":
		return qrcode.Low
	case "Q":
		return qrcode.High
	case "H":
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}
