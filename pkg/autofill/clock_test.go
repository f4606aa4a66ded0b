package autofill

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAwaitImmediate(t *testing.T) {
	clock := newFakeClock()
	calls := 0
	err := Await(context.Background(), clock, 25*time.Millisecond, 500*time.Millisecond, func() bool {
		calls++
		return true
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, clock.sleeps)
}

func TestAwaitTimeout(t *testing.T) {
	clock := newFakeClock()
	calls := 0
	err := Await(context.Background(), clock, 25*time.Millisecond, 500*time.Millisecond, func() bool {
		calls++
		return false
	})
	assert.ErrorIs(t, err, ErrWaitTimeout)
	assert.Equal(t, 21, calls)
	assert.Len(t, clock.sleeps, 20)
}

func TestAwaitEventually(t *testing.T) {
	clock := newFakeClock()
	start := clock.Now()
	calls := 0
	err := Await(context.Background(), clock, 10*time.Millisecond, time.Second, func() bool {
		calls++
		return calls == 4
	})
	assert.NoError(t, err)
	assert.Equal(t, 30*time.Millisecond, clock.Now().Sub(start))
}

func TestAwaitCancelled(t *testing.T) {
	clock := newFakeClock()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Await(ctx, clock, 25*time.Millisecond, 500*time.Millisecond, func() bool { return false })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSystemClockSleep(t *testing.T) {
	clock := SystemClock()
	assert.NoError(t, clock.Sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, clock.Sleep(ctx, time.Hour), context.Canceled)
}

func TestEngineDefaults(t *testing.T) {
	e := New(Options{})
	assert.Equal(t, DefaultPollInterval, e.pollInterval)
	assert.Equal(t, DefaultWaitTimeout, e.waitTimeout)
	assert.Equal(t, DefaultSettleDelay, e.settleDelay)
	assert.Equal(t, DefaultRules().Ordered(), e.rules)

	negative := -time.Millisecond
	e = New(Options{SettleDelay: &negative, PollInterval: time.Millisecond})
	assert.Zero(t, e.settleDelay)
	assert.Equal(t, time.Millisecond, e.pollInterval)
}

func TestEngineExplicitZeroSettleDelay(t *testing.T) {
	zero := time.Duration(0)
	e := New(Options{SettleDelay: &zero})
	assert.Zero(t, e.settleDelay)

	custom := 80 * time.Millisecond
	e = New(Options{SettleDelay: &custom})
	assert.Equal(t, custom, e.settleDelay)
}
