package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count   int
	resetAt time.Time
}

// MemoryStore keeps the windows in process memory. Expired windows are swept
// lazily, at most once per window length.
type MemoryStore struct {
	mu        sync.Mutex
	limit     int
	length    time.Duration
	windows   map[string]*window
	lastSweep time.Time
	now       func() time.Time
}

type MemoryOption func(*MemoryStore)

// WithClock replaces time.Now
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

func NewMemoryStore(limit int, length time.Duration, opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		limit:   limit,
		length:  length,
		windows: make(map[string]*window),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.lastSweep = s.now()
	return s
}

func (s *MemoryStore) Hit(_ context.Context, key string) (Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	w, ok := s.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(s.length)}
		s.windows[key] = w
	}
	w.count++

	return Decision{
		Allowed:   w.count <= s.limit,
		Limit:     s.limit,
		Remaining: max(s.limit-w.count, 0),
		ResetAt:   w.resetAt,
	}, nil
}

// Len returns the number of tracked windows, expired ones included until swept
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

func (s *MemoryStore) sweep(now time.Time) {
	if now.Sub(s.lastSweep) < s.length {
		return
	}
	for key, w := range s.windows {
		if !now.Before(w.resetAt) {
			delete(s.windows, key)
		}
	}
	s.lastSweep = now
}
