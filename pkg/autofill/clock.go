package autofill

import (
	"context"
	"errors"
	"time"
)

// ErrWaitTimeout is returned by Await when the condition never held.
var ErrWaitTimeout = errors.New("condition not met before timeout")

// Clock is the time source for polling and settle delays.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done.
	Sleep(ctx context.Context, d time.Duration) error
}

type systemClock struct{}

// SystemClock returns a Clock backed by the time package.
func SystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Await evaluates cond immediately and then after every interval until it
// returns true or timeout has elapsed on clock. It makes at most
// timeout/interval+1 evaluations.
func Await(ctx context.Context, clock Clock, interval, timeout time.Duration, cond func() bool) error {
	deadline := clock.Now().Add(timeout)
	for {
		if cond() {
			return nil
		}
		if !clock.Now().Before(deadline) {
			return ErrWaitTimeout
		}
		if err := clock.Sleep(ctx, interval); err != nil {
			return err
		}
	}
}
