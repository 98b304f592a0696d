package capture

import (
	"bytes"
	"context"
	"log/slog"
	"sync"

	"github.com/qrnote/qrnote/internal/uploadclient"
)

// Preferred and fallback recording MIME types.
const (
	PreferredAudioMime = "audio/webm;codecs=opus"
	FallbackAudioMime  = "audio/webm"
)

// ErrMicrophoneDenied is the fixed user-facing message for microphone denial.
const ErrMicrophoneDenied = "microphone access was not granted"

// AudioRecorder records microphone audio and uploads the finished blob:
// Idle -> Recording -> Idle (upload in flight) -> Idle. At most one upload
// is in flight per recording; it is never queued or retried.
type AudioRecorder struct {
	mu        sync.Mutex
	mic       Microphone
	client    *uploadclient.Client
	logger    *slog.Logger
	supported bool
	recording bool
	uploading bool
	stream    AudioStream
	mime      string
	chunks    [][]byte

	// OnUploadSuccess receives the public URL of the uploaded recording.
	OnUploadSuccess func(url string)
	// OnUploadError receives a failure message, once per failed action.
	OnUploadError func(msg string)
}

// NewAudioRecorder creates a recorder that uploads through client.
func NewAudioRecorder(log *slog.Logger, mic Microphone, client *uploadclient.Client) *AudioRecorder {
	return &AudioRecorder{
		mic:       mic,
		client:    client,
		logger:    log.With(slog.String("service", "recorder")),
		supported: mic != nil,
	}
}

// IsSupported reports whether microphone capture is available. It flips to
// false for the rest of the session after an access denial.
func (a *AudioRecorder) IsSupported() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.supported
}

// IsRecording reports whether a recording is in progress.
func (a *AudioRecorder) IsRecording() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.recording
}

// IsUploading reports whether an upload is in flight.
func (a *AudioRecorder) IsUploading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.uploading
}

// StartRecording requests microphone access and begins buffering chunks.
// On denial the recorder marks itself unsupported, reports the fixed error
// message and stays idle.
func (a *AudioRecorder) StartRecording(ctx context.Context) {
	a.mu.Lock()
	if !a.supported || a.recording {
		a.mu.Unlock()
		return
	}
	a.mu.Unlock()

	stream, err := a.mic.Open(ctx)
	if err != nil {
		a.mu.Lock()
		a.supported = false
		a.mu.Unlock()
		a.logger.Error("failed to open microphone", slog.String("error", err.Error()))
		if a.OnUploadError != nil {
			a.OnUploadError(ErrMicrophoneDenied)
		}
		return
	}

	mime := PreferredAudioMime
	if !stream.SupportsMimeType(mime) {
		mime = FallbackAudioMime
	}

	a.mu.Lock()
	a.stream = stream
	a.mime = mime
	a.chunks = nil
	a.recording = true
	a.mu.Unlock()

	if err := stream.Record(mime, a.appendChunk); err != nil {
		a.mu.Lock()
		a.stream = nil
		a.recording = false
		a.mu.Unlock()
		stream.Release()
		a.logger.Error("failed to start recording", slog.String("error", err.Error()))
		if a.OnUploadError != nil {
			a.OnUploadError(err.Error())
		}
	}
}

// StopRecording finalizes the recording, releases the microphone and begins
// the upload. Only effective while recording.
func (a *AudioRecorder) StopRecording(ctx context.Context) {
	a.mu.Lock()
	if !a.recording {
		a.mu.Unlock()
		return
	}
	stream := a.stream
	a.mu.Unlock()

	// Stop flushes pending chunks into appendChunk before returning.
	if err := stream.Stop(); err != nil {
		a.logger.Error("failed to stop recording", slog.String("error", err.Error()))
	}

	a.mu.Lock()
	blob := assemble(a.chunks)
	mime := a.mime
	a.chunks = nil
	a.stream = nil
	a.recording = false
	a.uploading = true
	a.mu.Unlock()

	stream.Release()

	go a.upload(ctx, blob, mime)
}

// Cleanup releases the microphone and halts any active recording without
// waiting for an in-flight upload. Safe to call from any state.
func (a *AudioRecorder) Cleanup() {
	a.mu.Lock()
	stream := a.stream
	a.stream = nil
	a.chunks = nil
	a.recording = false
	a.mu.Unlock()

	if stream != nil {
		stream.Release()
	}
}

func (a *AudioRecorder) appendChunk(chunk []byte) {
	if len(chunk) == 0 {
		return
	}
	a.mu.Lock()
	a.chunks = append(a.chunks, chunk)
	a.mu.Unlock()
}

func (a *AudioRecorder) upload(ctx context.Context, blob []byte, mime string) {
	defer func() {
		a.mu.Lock()
		a.uploading = false
		a.mu.Unlock()
	}()

	result, err := a.client.UploadAudio(ctx, blob, mime)
	if err != nil {
		a.logger.Error("audio upload failed", slog.String("error", err.Error()))
		if a.OnUploadError != nil {
			a.OnUploadError(err.Error())
		}
		return
	}
	if a.OnUploadSuccess != nil {
		a.OnUploadSuccess(result.URL)
	}
}

func assemble(chunks [][]byte) []byte {
	var buf bytes.Buffer
	for _, chunk := range chunks {
		buf.Write(chunk)
	}
	return buf.Bytes()
}
