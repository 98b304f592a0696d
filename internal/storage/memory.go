package storage

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// Object is a stored blob plus the metadata recorded with it.
type Object struct {
	Data        []byte
	ContentType string
	Expires     time.Time
}

// MemoryProvider is an in-memory Provider for tests.
type MemoryProvider struct {
	mu      sync.Mutex
	objects map[string]Object

	// PutErr, when set, is returned by every Put call.
	PutErr error
	// PresignErr, when set, is returned by every Presign call.
	PresignErr error
}

// NewMemoryProvider creates an empty in-memory provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{objects: map[string]Object{}}
}

func (m *MemoryProvider) Put(_ context.Context, key string, reader io.Reader, _ int64, contentType string, expires time.Time) error {
	if m.PutErr != nil {
		return m.PutErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = Object{Data: data, ContentType: contentType, Expires: expires}
	return nil
}

func (m *MemoryProvider) Presign(_ context.Context, key string, ttl time.Duration) (string, error) {
	if m.PresignErr != nil {
		return "", m.PresignErr
	}
	return fmt.Sprintf("https://signed.example.com/%s?ttl=%d", key, int(ttl.Seconds())), nil
}

func (m *MemoryProvider) PublicURL(key string) string {
	return "https://public.example.com/" + key
}

func (m *MemoryProvider) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// Get returns the stored object and whether it exists.
func (m *MemoryProvider) Get(key string) (Object, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[key]
	return obj, ok
}

// Len returns the number of stored objects.
func (m *MemoryProvider) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
