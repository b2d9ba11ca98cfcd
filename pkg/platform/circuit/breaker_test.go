package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestBreaker(clock *time.Time, opts ...Option) *Breaker {
	opts = append(opts, WithClock(func() time.Time { return *clock }))
	return New("test", opts...)
}

func TestOpensAfterConsecutiveFailures(t *testing.T) {
	clock := time.Now()
	b := newTestBreaker(&clock, WithFailureThreshold(3))

	for range 2 {
		fallback, change := b.RecordFailure()
		assert.False(t, fallback)
		assert.False(t, change.Opened)
	}
	fallback, change := b.RecordFailure()
	assert.True(t, fallback)
	assert.True(t, change.Opened)
	assert.True(t, b.IsOpen())
	assert.False(t, b.Allow())
}

func TestSuccessResetsFailureCount(t *testing.T) {
	clock := time.Now()
	b := newTestBreaker(&clock, WithFailureThreshold(2))

	b.RecordFailure()
	b.RecordSuccess()
	_, change := b.RecordFailure()
	assert.False(t, change.Opened)
}

func TestAllowsProbeAfterCooldown(t *testing.T) {
	clock := time.Now()
	b := newTestBreaker(&clock, WithFailureThreshold(1), WithCooldown(30*time.Second))

	b.RecordFailure()
	assert.False(t, b.Allow())

	clock = clock.Add(31 * time.Second)
	assert.True(t, b.Allow(), "first probe after cooldown goes through")
	assert.False(t, b.Allow(), "only one probe per cooldown period")
}

func TestClosesAfterProbeSuccesses(t *testing.T) {
	clock := time.Now()
	b := newTestBreaker(&clock, WithFailureThreshold(1), WithSuccessThreshold(2))

	b.RecordFailure()
	assert.True(t, b.IsOpen())

	_, change := b.RecordSuccess()
	assert.False(t, change.Closed)
	_, change = b.RecordSuccess()
	assert.True(t, change.Closed)
	assert.False(t, b.IsOpen())
	assert.True(t, b.Allow())
}

func TestFailedProbeRestartsCooldown(t *testing.T) {
	clock := time.Now()
	b := newTestBreaker(&clock, WithFailureThreshold(1), WithCooldown(30*time.Second))

	b.RecordFailure()
	clock = clock.Add(31 * time.Second)
	assert.True(t, b.Allow())
	b.RecordFailure()

	clock = clock.Add(10 * time.Second)
	assert.False(t, b.Allow())
}
