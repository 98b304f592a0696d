// Package toast manages transient user-facing notifications.
package toast

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Type classifies a toast.
type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeWarning Type = "warning"
	TypeInfo    Type = "info"
)

// Default display durations. Errors stay visible longer.
const (
	DefaultDuration      = 5 * time.Second
	DefaultErrorDuration = 7 * time.Second
)

// Message is one notification.
type Message struct {
	ID       string
	Type     Type
	Title    string
	Message  string
	Duration time.Duration
}

// Manager owns the ordered toast collection. Toasts auto-expire after their
// duration and can be dismissed early. The collection is process-local.
type Manager struct {
	mu      sync.Mutex
	toasts  []Message
	counter atomic.Uint64

	// OnChange, when set, is called with a snapshot after every mutation.
	OnChange func(toasts []Message)
}

// NewManager creates an empty toast manager.
func NewManager() *Manager {
	return &Manager{}
}

// Add appends a toast and schedules its expiry. A zero duration means the
// type's default. Returns the generated id, unique even under rapid calls.
func (m *Manager) Add(typ Type, title, message string, duration time.Duration) string {
	if duration <= 0 {
		duration = DefaultDuration
		if typ == TypeError {
			duration = DefaultErrorDuration
		}
	}
	id := fmt.Sprintf("toast-%d", m.counter.Add(1))

	m.mu.Lock()
	m.toasts = append(m.toasts, Message{
		ID:       id,
		Type:     typ,
		Title:    title,
		Message:  message,
		Duration: duration,
	})
	m.mu.Unlock()
	m.notify()

	time.AfterFunc(duration, func() { m.Remove(id) })
	return id
}

// Remove dismisses the toast with the given id.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	kept := m.toasts[:0]
	removed := false
	for _, t := range m.toasts {
		if t.ID == id {
			removed = true
			continue
		}
		kept = append(kept, t)
	}
	m.toasts = kept
	m.mu.Unlock()

	if removed {
		m.notify()
	}
}

// Clear dismisses every toast.
func (m *Manager) Clear() {
	m.mu.Lock()
	m.toasts = nil
	m.mu.Unlock()
	m.notify()
}

// Toasts returns a snapshot of the collection, oldest first.
func (m *Manager) Toasts() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.toasts...)
}

// Success shows a success toast with the default duration.
func (m *Manager) Success(title, message string) string {
	return m.Add(TypeSuccess, title, message, 0)
}

// Error shows an error toast with the longer error duration.
func (m *Manager) Error(title, message string) string {
	return m.Add(TypeError, title, message, 0)
}

// Warning shows a warning toast with the default duration.
func (m *Manager) Warning(title, message string) string {
	return m.Add(TypeWarning, title, message, 0)
}

// Info shows an info toast with the default duration.
func (m *Manager) Info(title, message string) string {
	return m.Add(TypeInfo, title, message, 0)
}

func (m *Manager) notify() {
	if m.OnChange != nil {
		m.OnChange(m.Toasts())
	}
}
