package capture

import (
	"context"
	"log/slog"
	"sync"
)

// Default recognition settings: single-shot, no interim results.
var defaultSpeechConfig = SpeechConfig{
	Lang:           "ja-JP",
	Continuous:     false,
	InterimResults: false,
}

// SpeechRecognizer turns one spoken utterance into a transcript. It owns at
// most one recognition session at a time: Idle -> Listening -> Idle, with
// exactly one terminal event per session.
type SpeechRecognizer struct {
	mu        sync.Mutex
	engine    SpeechEngine
	cfg       SpeechConfig
	supported bool
	listening bool
	session   SpeechSession
	logger    *slog.Logger

	// OnResult receives the final transcript.
	OnResult func(transcript string)
	// OnError receives the platform error code.
	OnError func(code string)
}

// NewSpeechRecognizer creates a recognizer over the given engine. Capability
// is probed once here, never retried.
func NewSpeechRecognizer(log *slog.Logger, engine SpeechEngine) *SpeechRecognizer {
	return &SpeechRecognizer{
		engine:    engine,
		cfg:       defaultSpeechConfig,
		supported: engine != nil && engine.Available(),
		logger:    log.With(slog.String("service", "speech")),
	}
}

// IsSupported reports whether the platform offers speech recognition.
func (r *SpeechRecognizer) IsSupported() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.supported
}

// IsListening reports whether a session is active.
func (r *SpeechRecognizer) IsListening() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listening
}

// StartListening begins a recognition session. No-op unless currently idle
// and the capability is present.
func (r *SpeechRecognizer) StartListening(ctx context.Context) {
	r.mu.Lock()
	if !r.supported || r.listening {
		r.mu.Unlock()
		return
	}
	r.listening = true
	r.mu.Unlock()

	var once sync.Once
	session, err := r.engine.Start(ctx, r.cfg, SpeechEvents{
		OnResult: func(transcript string) {
			once.Do(func() {
				r.finish()
				if r.OnResult != nil {
					r.OnResult(transcript)
				}
			})
		},
		OnError: func(code string) {
			once.Do(func() {
				r.finish()
				r.logger.Error("speech recognition error", slog.String("code", code))
				if r.OnError != nil {
					r.OnError(code)
				}
			})
		},
	})
	if err != nil {
		r.finish()
		r.logger.Error("failed to start recognition", slog.String("error", err.Error()))
		if r.OnError != nil {
			r.OnError(err.Error())
		}
		return
	}

	r.mu.Lock()
	if r.listening {
		r.session = session
	}
	r.mu.Unlock()
}

// StopListening aborts the active session. No-op unless listening.
func (r *SpeechRecognizer) StopListening() {
	r.mu.Lock()
	session := r.session
	listening := r.listening
	r.session = nil
	r.listening = false
	r.mu.Unlock()

	if listening && session != nil {
		session.Stop()
	}
}

// finish returns to idle after a terminal event.
func (r *SpeechRecognizer) finish() {
	r.mu.Lock()
	r.session = nil
	r.listening = false
	r.mu.Unlock()
}
