package capture

import (
	"context"
	"log/slog"
	"sync"
)

// Camera defaults.
const (
	DefaultIdealWidth   = 640
	DefaultIdealHeight  = 480
	DefaultPhotoQuality = 0.9
)

// Fixed camera error messages.
const (
	ErrCameraUnsupported = "camera is not supported in this environment"
	ErrCameraNotActive   = "camera is not active"
	ErrCameraSwitch      = "failed to switch camera"
)

// CameraCapture owns the camera stream: Inactive <-> Active, with a
// capture-photo operation that rasterizes one still frame.
type CameraCapture struct {
	mu        sync.Mutex
	camera    Camera
	cfg       CameraConfig
	supported bool
	active    bool
	stream    VideoStream
	errMsg    string
	logger    *slog.Logger

	// OnCapture receives the captured JPEG blob.
	OnCapture func(blob []byte)
	// OnError receives each failure message.
	OnError func(msg string)
}

// NewCameraCapture creates a camera adapter with the default configuration
// (ideal 640x480, rear camera preferred).
func NewCameraCapture(log *slog.Logger, camera Camera) *CameraCapture {
	return &CameraCapture{
		camera: camera,
		cfg: CameraConfig{
			IdealWidth:  DefaultIdealWidth,
			IdealHeight: DefaultIdealHeight,
			Facing:      FacingEnvironment,
		},
		supported: camera != nil,
		logger:    log.With(slog.String("service", "camera")),
	}
}

// IsSupported reports whether the camera capability is usable.
func (c *CameraCapture) IsSupported() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.supported
}

// IsActive reports whether a stream is attached.
func (c *CameraCapture) IsActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Err returns the last error message, or "" when none.
func (c *CameraCapture) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// Facing returns the currently requested facing mode.
func (c *CameraCapture) Facing() Facing {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg.Facing
}

// StartCamera requests a video stream. On failure the adapter records the
// error, marks the capability unsupported and stays inactive.
func (c *CameraCapture) StartCamera(ctx context.Context) {
	c.mu.Lock()
	if c.active {
		c.mu.Unlock()
		return
	}
	c.errMsg = ""
	if c.camera == nil || !c.camera.Available() {
		c.supported = false
		c.errMsg = ErrCameraUnsupported
		c.mu.Unlock()
		c.fail(ErrCameraUnsupported)
		return
	}
	cfg := c.cfg
	c.mu.Unlock()

	stream, err := c.camera.Open(ctx, cfg)
	if err != nil {
		c.mu.Lock()
		c.supported = false
		c.errMsg = err.Error()
		c.mu.Unlock()
		c.fail(err.Error())
		return
	}

	c.mu.Lock()
	c.stream = stream
	c.active = true
	c.mu.Unlock()
}

// StopCamera releases the stream and clears any error.
func (c *CameraCapture) StopCamera() {
	c.mu.Lock()
	stream := c.stream
	c.stream = nil
	c.active = false
	c.errMsg = ""
	c.mu.Unlock()

	if stream != nil {
		stream.Release()
	}
}

// CapturePhoto rasterizes the current frame into a JPEG blob. Only
// meaningful while active; otherwise the fixed not-active error is reported
// and nil returned.
func (c *CameraCapture) CapturePhoto() []byte {
	c.mu.Lock()
	stream := c.stream
	active := c.active
	c.mu.Unlock()

	if !active || stream == nil {
		c.setErr(ErrCameraNotActive)
		c.fail(ErrCameraNotActive)
		return nil
	}

	blob, err := stream.CaptureFrame(DefaultPhotoQuality)
	if err != nil {
		c.setErr(err.Error())
		c.fail(err.Error())
		return nil
	}
	if c.OnCapture != nil {
		c.OnCapture(blob)
	}
	return blob
}

// SwitchCamera stops the current stream and restarts with the opposite
// facing mode. A failed restart is reported; the previous stream is not
// restored.
func (c *CameraCapture) SwitchCamera(ctx context.Context) {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}
	stream := c.stream
	c.stream = nil
	c.active = false
	c.cfg.Facing = c.cfg.Facing.Opposite()
	cfg := c.cfg
	c.mu.Unlock()

	if stream != nil {
		stream.Release()
	}

	next, err := c.camera.Open(ctx, cfg)
	if err != nil {
		c.setErr(ErrCameraSwitch)
		c.fail(ErrCameraSwitch)
		return
	}

	c.mu.Lock()
	c.stream = next
	c.active = true
	c.mu.Unlock()
}

// Cleanup is equivalent to StopCamera and safe to call unconditionally.
func (c *CameraCapture) Cleanup() {
	c.StopCamera()
}

func (c *CameraCapture) setErr(msg string) {
	c.mu.Lock()
	c.errMsg = msg
	c.mu.Unlock()
}

func (c *CameraCapture) fail(msg string) {
	c.logger.Error("camera error", slog.String("error", msg))
	if c.OnError != nil {
		c.OnError(msg)
	}
}
