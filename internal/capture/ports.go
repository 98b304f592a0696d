// Package capture wraps platform media capabilities (speech recognition,
// microphone recording, camera capture) behind explicit state machines.
//
// The platform itself is reached through the port interfaces below; the real
// implementations live with the embedding UI, tests use fakes.
package capture

import "context"

// Facing selects which camera lens a stream should use.
type Facing string

const (
	FacingUser        Facing = "user"
	FacingEnvironment Facing = "environment"
)

// Opposite returns the other facing mode.
func (f Facing) Opposite() Facing {
	if f == FacingUser {
		return FacingEnvironment
	}
	return FacingUser
}

// SpeechConfig configures one recognition session.
type SpeechConfig struct {
	Lang           string
	Continuous     bool
	InterimResults bool
}

// SpeechEvents carries the session callbacks. At most one terminal event
// (result or error) fires per session.
type SpeechEvents struct {
	OnResult func(transcript string)
	OnError  func(code string)
}

// SpeechSession is one running recognition session.
type SpeechSession interface {
	Stop()
}

// SpeechEngine is the platform speech-to-text capability.
type SpeechEngine interface {
	Available() bool
	Start(ctx context.Context, cfg SpeechConfig, events SpeechEvents) (SpeechSession, error)
}

// AudioStream is an open microphone stream.
type AudioStream interface {
	// SupportsMimeType reports whether the platform can record in mime.
	SupportsMimeType(mime string) bool
	// Record begins buffering; onChunk receives each data chunk.
	Record(mime string, onChunk func(chunk []byte)) error
	// Stop ends recording, flushing any pending chunks before returning.
	Stop() error
	// Release stops the underlying hardware tracks. Must be synchronous:
	// a deferred release would block switching capture modes.
	Release()
}

// Microphone is the platform microphone capability.
type Microphone interface {
	Open(ctx context.Context) (AudioStream, error)
}

// CameraConfig configures a video stream request.
type CameraConfig struct {
	// IdealWidth and IdealHeight are hints, not hard constraints.
	IdealWidth  int
	IdealHeight int
	Facing      Facing
}

// VideoStream is an open camera stream.
type VideoStream interface {
	// CaptureFrame rasterizes the current frame at native resolution into a
	// JPEG blob with the given quality (0..1).
	CaptureFrame(quality float64) ([]byte, error)
	// Release stops the underlying hardware tracks synchronously.
	Release()
}

// Camera is the platform camera capability.
type Camera interface {
	Available() bool
	Open(ctx context.Context, cfg CameraConfig) (VideoStream, error)
}
