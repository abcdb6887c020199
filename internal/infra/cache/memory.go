// Package cache holds analysis results in process memory.
package cache

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/bryanwahyu/automaton-pricing/internal/application"
	domain "github.com/bryanwahyu/automaton-pricing/internal/domain/analysis"
)

const (
	DefaultTTL      = time.Hour
	DefaultCapacity = 10000
)

type entry struct {
	result   domain.Result
	storedAt time.Time
}

// Memory is a TTL cache with a hard LRU capacity bound.
// Expired entries read as misses and are only deleted by EvictExpired or Compact.
type Memory struct {
	mu    sync.Mutex
	lru   *lru.Cache[string, entry]
	ttl   time.Duration
	clock application.Clock
}

// NewMemory builds a cache. Non-positive capacity or ttl use the defaults,
// a nil clock uses wall time.
func NewMemory(capacity int, ttl time.Duration, clock application.Clock) (*Memory, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clock == nil {
		clock = application.SystemClock{}
	}
	l, err := lru.New[string, entry](capacity)
	if err != nil {
		return nil, err
	}
	return &Memory{lru: l, ttl: ttl, clock: clock}, nil
}

func (m *Memory) Get(key string) (domain.Result, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.lru.Get(key)
	if !ok || !m.fresh(e) {
		return domain.Result{}, false
	}
	// a malformed entry is a miss; the next Put overwrites it
	if !e.result.Confidence.Valid() {
		return domain.Result{}, false
	}
	return e.result, true
}

func (m *Memory) Put(key string, r domain.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lru.Add(key, entry{result: r, storedAt: m.clock.Now()})
}

// EvictExpired deletes every entry older than the TTL and returns how many went.
func (m *Memory) EvictExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.evictExpiredLocked()
}

func (m *Memory) evictExpiredLocked() int {
	removed := 0
	for _, k := range m.lru.Keys() {
		e, ok := m.lru.Peek(k)
		if ok && !m.fresh(e) {
			m.lru.Remove(k)
			removed++
		}
	}
	return removed
}

// Compact evicts expired entries, but only when the cache holds more than maxSize.
func (m *Memory) Compact(maxSize int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lru.Len() <= maxSize {
		return 0
	}
	return m.evictExpiredLocked()
}

func (m *Memory) Len() int {
	return m.lru.Len()
}

func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lru.Purge()
}

func (m *Memory) fresh(e entry) bool {
	return m.clock.Now().Sub(e.storedAt) < m.ttl
}
