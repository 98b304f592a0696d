// Package history keeps a capped, deduplicated list of generated values,
// persisted best-effort through a key/value port.
package history

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// StorageKey is the fixed key the snapshot is persisted under.
const StorageKey = "qrnote-history"

// DefaultMaxItems caps the list length when no override is given.
const DefaultMaxItems = 10

// Item is one remembered value.
type Item struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// Store manages the history list. Mutations are serialized; persistence
// failures are logged and the in-memory state still updates.
type Store struct {
	mu     sync.Mutex
	items  []Item
	max    int
	kv     KV
	key    string
	logger *slog.Logger
	now    func() time.Time
}

// Option tweaks a Store.
type Option func(*Store)

// WithMaxItems overrides the list cap.
func WithMaxItems(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.max = n
		}
	}
}

// WithStorageKey overrides the persistence key.
func WithStorageKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// NewStore creates a Store and loads the persisted snapshot. A missing or
// corrupt snapshot degrades to an empty list, never an error.
func NewStore(log *slog.Logger, kv KV, opts ...Option) *Store {
	s := &Store{
		max:    DefaultMaxItems,
		kv:     kv,
		key:    StorageKey,
		logger: log.With(slog.String("service", "history")),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.items = s.load()
	return s
}

func (s *Store) load() []Item {
	raw, err := s.kv.Get(s.key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			s.logger.Error("failed to load history", slog.String("error", err.Error()))
		}
		return nil
	}

	var parsed []Item
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		s.logger.Error("failed to parse history snapshot", slog.String("error", err.Error()))
		return nil
	}

	// Discard entries that fail the shape check.
	valid := parsed[:0]
	for _, item := range parsed {
		if item.ID == "" || item.Text == "" || item.Timestamp <= 0 {
			continue
		}
		valid = append(valid, item)
	}
	return valid
}

// Add prepends text to the history. Blank text is a no-op and nothing is
// persisted. An existing entry with the same trimmed text is replaced, so
// re-adding a value moves it to the front with a fresh id and timestamp.
func (s *Store) Add(text string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := Item{
		ID:        uuid.NewString(),
		Text:      trimmed,
		Timestamp: s.now().UnixMilli(),
	}

	kept := make([]Item, 0, len(s.items)+1)
	kept = append(kept, item)
	for _, existing := range s.items {
		if existing.Text != trimmed {
			kept = append(kept, existing)
		}
	}
	if len(kept) > s.max {
		kept = kept[:s.max]
	}
	s.items = kept
	s.persist()
}

// Clear empties the list and removes the persisted snapshot.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	if err := s.kv.Remove(s.key); err != nil {
		s.logger.Error("failed to clear history snapshot", slog.String("error", err.Error()))
	}
}

// Remove deletes the item with the given id and persists the remainder.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	for _, item := range s.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	s.items = kept
	s.persist()
}

// Item returns the entry at index, most-recent-first.
func (s *Store) Item(index int) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.items) {
		return Item{}, false
	}
	return s.items[index], true
}

// Search returns entries whose text contains query, case-insensitive. A
// blank query returns the full list.
func (s *Store) Search(query string) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(query) == "" {
		return append([]Item(nil), s.items...)
	}
	needle := strings.ToLower(query)
	var matched []Item
	for _, item := range s.items {
		if strings.Contains(strings.ToLower(item.Text), needle) {
			matched = append(matched, item)
		}
	}
	return matched
}

// Items returns a snapshot of the list, most-recent-first.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Item(nil), s.items...)
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// persist writes the snapshot; durability is best-effort. Caller holds the lock.
func (s *Store) persist() {
	data, err := json.Marshal(s.items)
	if err != nil {
		s.logger.Error("failed to encode history", slog.String("error", err.Error()))
		return
	}
	if err := s.kv.Set(s.key, string(data)); err != nil {
		s.logger.Error("failed to save history", slog.String("error", err.Error()))
	}
}
