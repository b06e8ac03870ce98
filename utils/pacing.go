package utils

import (
	"sync"
	"time"
)

// Throttle enforces a fixed minimum interval between consecutive network
// requests. It is the crawler's only backpressure mechanism: a static
// politeness delay, not an adaptive scheme.
type Throttle struct {
	interval time.Duration
	mu       sync.Mutex
	last     time.Time

	sleep func(time.Duration)
	now   func() time.Time
}

// NewThrottle creates a Throttle with the given minimum interval.
func NewThrottle(intervalMs int) *Throttle {
	return &Throttle{
		interval: time.Duration(intervalMs) * time.Millisecond,
		sleep:    time.Sleep,
		now:      time.Now,
	}
}

// Wait blocks until at least the configured interval has passed since the
// previous call, then records the current request.
func (t *Throttle) Wait() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.last.IsZero() {
		elapsed := t.now().Sub(t.last)
		if elapsed < t.interval {
			t.sleep(t.interval - elapsed)
		}
	}
	t.last = t.now()
}

// URLSet is a thread-safe set for tracking visited URLs.
type URLSet struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewURLSet creates an empty URLSet.
func NewURLSet() *URLSet {
	return &URLSet{seen: make(map[string]struct{})}
}

// Add returns true if the URL was newly added, false if already present.
func (s *URLSet) Add(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[url]; exists {
		return false
	}
	s.seen[url] = struct{}{}
	return true
}

// Contains returns true if the URL has already been visited.
func (s *URLSet) Contains(url string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.seen[url]
	return exists
}

// Size returns the number of unique URLs tracked.
func (s *URLSet) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}
