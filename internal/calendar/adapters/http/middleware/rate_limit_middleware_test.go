package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"calbuddy/internal/calendar/config"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(cfg config.RateLimitConfig) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	return newRateLimiter(cfg, false, clock.now), clock
}

func TestRateLimiterBurstAndRefill(t *testing.T) {
	rl, clock := newTestLimiter(config.RateLimitConfig{RequestsPerSecond: 1, Burst: 2})

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"), "clients have separate buckets")

	clock.advance(time.Second)
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	rl, clock := newTestLimiter(config.RateLimitConfig{RequestsPerSecond: 10, Burst: 1, IdleTTL: time.Minute})

	for _, ip := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		assert.True(t, rl.Allow(ip))
	}
	assert.Equal(t, 3, rl.Clients())

	clock.advance(30 * time.Second)
	assert.True(t, rl.Allow("10.0.0.3"))

	clock.advance(45 * time.Second)
	assert.True(t, rl.Allow("10.0.0.4"))

	assert.Equal(t, 2, rl.Clients(), "clients idle past the ttl are dropped")
	rl.mu.Lock()
	_, kept := rl.clients["10.0.0.3"]
	_, dropped := rl.clients["10.0.0.1"]
	rl.mu.Unlock()
	assert.True(t, kept)
	assert.False(t, dropped)
}

func TestRateLimiterIdleTTLCoversRefill(t *testing.T) {
	rl, clock := newTestLimiter(config.RateLimitConfig{RequestsPerSecond: 0.5, Burst: 1, IdleTTL: time.Second})
	assert.Equal(t, 2*time.Second, rl.idleTTL)

	assert.True(t, rl.Allow("10.0.0.1"))
	clock.advance(1500 * time.Millisecond)
	assert.False(t, rl.Allow("10.0.0.1"), "eviction must not refill the bucket early")
	assert.Equal(t, 1, rl.Clients())
}

func TestRateLimiterMaxClients(t *testing.T) {
	rl, clock := newTestLimiter(config.RateLimitConfig{
		RequestsPerSecond: 10,
		Burst:             5,
		IdleTTL:           time.Minute,
		MaxClients:        2,
	})

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"))
	assert.False(t, rl.Allow("10.0.0.3"), "table is full")
	assert.True(t, rl.Allow("10.0.0.1"), "known clients keep their bucket")
	assert.Equal(t, 2, rl.Clients())

	clock.advance(2 * time.Minute)
	assert.True(t, rl.Allow("10.0.0.3"), "sweep frees room")
	assert.Equal(t, 1, rl.Clients())
}
