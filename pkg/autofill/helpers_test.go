package autofill

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Lenersebastian/sebov-autofill/pkg/dom/memdom"
)

// fakeClock advances only when slept on.
type fakeClock struct {
	now     time.Time
	sleeps  []time.Duration
	onSleep func(n int)
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	if c.onSleep != nil {
		c.onSleep(len(c.sleeps))
	}
	return nil
}

type recordingLogger struct {
	debug []string
	warn  []string
}

func (l *recordingLogger) Debugf(format string, v ...interface{}) {
	l.debug = append(l.debug, fmt.Sprintf(format, v...))
}

func (l *recordingLogger) Warnf(format string, v ...interface{}) {
	l.warn = append(l.warn, fmt.Sprintf(format, v...))
}

func newTestEngine(clock Clock) (*Engine, *recordingLogger) {
	log := &recordingLogger{}
	return New(Options{Clock: clock, Logger: log}), log
}

func parse(t *testing.T, src string) *memdom.Document {
	t.Helper()
	doc, err := memdom.Parse(src)
	require.NoError(t, err)
	return doc
}
