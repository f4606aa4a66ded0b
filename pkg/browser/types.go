// Package browser launches Playwright-driven Chromium sessions and exposes
// their page as a dom.Document for the autofill engine.
package browser

import (
	"time"
)

// SessionOptions configures a new browser session.
type SessionOptions struct {
	// Headless runs the browser without a window.
	Headless bool

	// Viewport defaults to DefaultViewportWidth x DefaultViewportHeight.
	Viewport *Viewport

	// Timeout is the page's default operation timeout.
	Timeout time.Duration
}

// Viewport is a page size in CSS pixels.
type Viewport struct {
	Width  int
	Height int
}

// NavigateOptions configures Session.Navigate.
type NavigateOptions struct {
	// WaitUntil is one of "load", "domcontentloaded", "networkidle".
	WaitUntil string

	// Timeout overrides the session default when positive.
	Timeout time.Duration
}

const (
	DefaultTimeout        = 30 * time.Second
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
)

func (o SessionOptions) withDefaults() SessionOptions {
	if o.Viewport == nil {
		o.Viewport = &Viewport{Width: DefaultViewportWidth, Height: DefaultViewportHeight}
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
