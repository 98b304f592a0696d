package capture

import (
	"context"
	"errors"
	"sync"
)

// fakeSpeechEngine drives recognition callbacks manually.
type fakeSpeechEngine struct {
	available bool
	startErr  error
	started   int
	events    SpeechEvents
	session   *fakeSpeechSession
}

type fakeSpeechSession struct {
	stopped int
}

func (s *fakeSpeechSession) Stop() { s.stopped++ }

func (f *fakeSpeechEngine) Available() bool { return f.available }

func (f *fakeSpeechEngine) Start(_ context.Context, _ SpeechConfig, events SpeechEvents) (SpeechSession, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	f.started++
	f.events = events
	f.session = &fakeSpeechSession{}
	return f.session, nil
}

// fakeMicrophone hands out a scripted audio stream.
type fakeMicrophone struct {
	stream  *fakeAudioStream
	openErr error
}

func (f *fakeMicrophone) Open(context.Context) (AudioStream, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return f.stream, nil
}

type fakeAudioStream struct {
	mu            sync.Mutex
	supports      map[string]bool
	recordErr     error
	recordedMime  string
	onChunk       func([]byte)
	pendingChunks [][]byte
	released      int
}

func (f *fakeAudioStream) SupportsMimeType(mime string) bool {
	return f.supports[mime]
}

func (f *fakeAudioStream) Record(mime string, onChunk func([]byte)) error {
	if f.recordErr != nil {
		return f.recordErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recordedMime = mime
	f.onChunk = onChunk
	return nil
}

func (f *fakeAudioStream) emit(chunk []byte) {
	f.mu.Lock()
	onChunk := f.onChunk
	f.mu.Unlock()
	if onChunk != nil {
		onChunk(chunk)
	}
}

func (f *fakeAudioStream) Stop() error {
	f.mu.Lock()
	pending := f.pendingChunks
	f.pendingChunks = nil
	onChunk := f.onChunk
	f.mu.Unlock()
	for _, chunk := range pending {
		if onChunk != nil {
			onChunk(chunk)
		}
	}
	return nil
}

func (f *fakeAudioStream) Release() {
	f.mu.Lock()
	f.released++
	f.mu.Unlock()
}

func (f *fakeAudioStream) releaseCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.released
}

// fakeCamera hands out scripted video streams, one per Open call.
type fakeCamera struct {
	available bool
	openErr   error
	nextErr   error
	streams   []*fakeVideoStream
	configs   []CameraConfig
}

func (f *fakeCamera) Available() bool { return f.available }

func (f *fakeCamera) Open(_ context.Context, cfg CameraConfig) (VideoStream, error) {
	f.configs = append(f.configs, cfg)
	if len(f.configs) == 1 && f.openErr != nil {
		return nil, f.openErr
	}
	if len(f.configs) > 1 && f.nextErr != nil {
		return nil, f.nextErr
	}
	stream := &fakeVideoStream{frame: []byte("jpeg-bytes")}
	f.streams = append(f.streams, stream)
	return stream, nil
}

type fakeVideoStream struct {
	frame      []byte
	captureErr error
	quality    float64
	released   int
}

func (f *fakeVideoStream) CaptureFrame(quality float64) ([]byte, error) {
	f.quality = quality
	if f.captureErr != nil {
		return nil, f.captureErr
	}
	return f.frame, nil
}

func (f *fakeVideoStream) Release() { f.released++ }

var errDenied = errors.New("permission denied")
