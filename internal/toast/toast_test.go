package toast

import (
	"sync"
	"testing"
	"time"
)

func TestAddAssignsUniqueIDs(t *testing.T) {
	m := NewManager()

	seen := map[string]bool{}
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := m.Add(TypeInfo, "title", "", time.Minute)
			mu.Lock()
			if seen[id] {
				t.Errorf("duplicate id %s", id)
			}
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	if got := len(m.Toasts()); got != 50 {
		t.Errorf("len = %d, want 50", got)
	}
}

func TestRemoveAndClear(t *testing.T) {
	m := NewManager()
	first := m.Add(TypeSuccess, "one", "", time.Minute)
	m.Add(TypeInfo, "two", "", time.Minute)

	m.Remove(first)
	toasts := m.Toasts()
	if len(toasts) != 1 || toasts[0].Title != "two" {
		t.Errorf("toasts = %+v", toasts)
	}

	m.Remove("missing") // no-op

	m.Clear()
	if len(m.Toasts()) != 0 {
		t.Error("expected empty collection after Clear")
	}
}

func TestDefaultDurations(t *testing.T) {
	m := NewManager()
	m.Error("boom", "details")
	m.Success("ok", "")

	toasts := m.Toasts()
	if toasts[0].Duration != DefaultErrorDuration {
		t.Errorf("error duration = %v, want %v", toasts[0].Duration, DefaultErrorDuration)
	}
	if toasts[1].Duration != DefaultDuration {
		t.Errorf("success duration = %v, want %v", toasts[1].Duration, DefaultDuration)
	}
}

func TestAutoExpiry(t *testing.T) {
	m := NewManager()
	m.Add(TypeInfo, "short-lived", "", 10*time.Millisecond)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if len(m.Toasts()) == 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Error("toast did not auto-expire")
}

func TestOnChangeObserver(t *testing.T) {
	m := NewManager()
	var mu sync.Mutex
	calls := 0
	m.OnChange = func([]Message) {
		mu.Lock()
		calls++
		mu.Unlock()
	}

	id := m.Add(TypeWarning, "w", "", time.Minute)
	m.Remove(id)

	mu.Lock()
	defer mu.Unlock()
	if calls != 2 {
		t.Errorf("OnChange fired %d times, want 2", calls)
	}
}
