package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryLimiter_Burst(t *testing.T) {
	l := NewInMemoryLimiter(1, time.Hour, 2)

	assert.True(t, l.Allow("alice"))
	assert.True(t, l.Allow("alice"))
	assert.False(t, l.Allow("alice"))

	// buckets are per key
	assert.True(t, l.Allow("bob"))
}

func TestInMemoryLimiter_Disabled(t *testing.T) {
	l := NewInMemoryLimiter(0, time.Minute, 0)

	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow("alice"))
	}
}

func TestInMemoryLimiter_EvictsRefilledKeys(t *testing.T) {
	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	l := NewInMemoryLimiter(1, time.Second, 1).(*InMemoryLimiter)
	l.now = func() time.Time { return clock }

	for _, addr := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		assert.True(t, l.Allow(addr))
	}
	assert.Len(t, l.keys, 3)

	clock = clock.Add(2 * time.Minute)
	assert.True(t, l.Allow("10.0.0.4"))
	assert.Len(t, l.keys, 1)
	assert.Contains(t, l.keys, "10.0.0.4")
}

func TestInMemoryLimiter_KeepsDrainedKeys(t *testing.T) {
	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	l := NewInMemoryLimiter(1, time.Hour, 1).(*InMemoryLimiter)
	l.now = func() time.Time { return clock }

	assert.True(t, l.Allow("alice"))

	clock = clock.Add(2 * time.Minute)
	assert.True(t, l.Allow("bob"))
	assert.Len(t, l.keys, 2)

	// alice's bucket is still empty, so the sweep must not reset it
	assert.False(t, l.Allow("alice"))
}

func TestInMemoryLimiter_DisabledStoresNothing(t *testing.T) {
	l := NewInMemoryLimiter(0, time.Minute, 0).(*InMemoryLimiter)

	assert.True(t, l.Allow("alice"))
	assert.Empty(t, l.keys)
}
