package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStore_Allow(t *testing.T) {
	store := NewMemoryStore(0.001, 2, time.Minute)

	assert.True(t, store.Allow("10.0.0.1"))
	assert.True(t, store.Allow("10.0.0.1"))
	assert.False(t, store.Allow("10.0.0.1"))

	assert.True(t, store.Allow("10.0.0.2"), "clients have separate buckets")
	assert.Equal(t, 2, store.Len())
}

func TestMemoryStore_SameLimiter(t *testing.T) {
	store := NewMemoryStore(1, 1, time.Minute)
	assert.Same(t, store.Limiter("a"), store.Limiter("a"))
	assert.NotSame(t, store.Limiter("a"), store.Limiter("b"))
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore(0.001, 1, 20*time.Millisecond)

	first := store.Limiter("a")
	assert.True(t, first.Allow())
	assert.False(t, store.Allow("a"))

	time.Sleep(50 * time.Millisecond)
	assert.NotSame(t, first, store.Limiter("a"))
	assert.True(t, store.Allow("a"))
}
