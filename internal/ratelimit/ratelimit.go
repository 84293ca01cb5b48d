// Package ratelimit hands out per-client token buckets.
package ratelimit

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// Store returns the limiter for a client key, creating it on first use.
type Store interface {
	Limiter(key string) *rate.Limiter
}

// MemoryStore keeps limiters in memory and forgets clients idle for
// longer than ttl.
type MemoryStore struct {
	mu       sync.Mutex
	limiters *cache.Cache
	limit    rate.Limit
	burst    int
	ttl      time.Duration
}

func NewMemoryStore(rps float64, burst int, ttl time.Duration) *MemoryStore {
	if burst < 1 {
		burst = 1
	}
	return &MemoryStore{
		limiters: cache.New(ttl, ttl*2),
		limit:    rate.Limit(rps),
		burst:    burst,
		ttl:      ttl,
	}
}

func (s *MemoryStore) Limiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.limiters.Get(key); ok {
		l := v.(*rate.Limiter)
		s.limiters.Set(key, l, s.ttl)
		return l
	}

	l := rate.NewLimiter(s.limit, s.burst)
	s.limiters.Set(key, l, s.ttl)
	return l
}

// Allow reports whether key may make a request now.
func (s *MemoryStore) Allow(key string) bool {
	return s.Limiter(key).Allow()
}

func (s *MemoryStore) Len() int {
	return s.limiters.ItemCount()
}
