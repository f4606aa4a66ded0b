// Package autofill is the field identification and synchronization engine.
//
// It captures the values of the form controls on a page into a
// snapshot.FieldSnapshot and writes such a snapshot back. The page is reached
// only through an injected dom.Document.
//
// # Identity
//
// Every eligible control gets a FieldKey derived from its name, id,
// aria-label or placeholder attribute, in that order. Controls with none of
// those fall back to a structural key built from the index of the owning
// form and the control's position among eligible controls in that form, or
// in the whole document for controls outside any form.
// Structural keys change when controls are added, removed or reordered;
// callers that persist snapshots should expect those entries to go stale.
//
// # Fill
//
// Text-like controls are written through the base-prototype value setter
// and followed by input and change events so framework bindings pick the
// value up. Arrow-combo widgets (a readonly input paired with a trigger that
// opens a custom option list) are driven through open, wait, match and
// select steps, falling back to direct assignment when the list or option
// cannot be found.
//
// Per-control failures never abort a capture or fill. Only failure to
// enumerate the document is returned as an error.
package autofill

import (
	"errors"
	"time"
)

// Default widget automation timings.
const (
	DefaultPollInterval = 25 * time.Millisecond
	DefaultWaitTimeout  = 500 * time.Millisecond
	DefaultSettleDelay  = 25 * time.Millisecond
)

// ErrNoDocument is returned when the document cannot be enumerated.
var ErrNoDocument = errors.New("cannot enumerate document controls")

// Logger is the logging surface the engine uses. *logging.Logger
// satisfies it.
type Logger interface {
	Debugf(format string, v ...interface{})
	Warnf(format string, v ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Warnf(string, ...interface{})  {}

// Options configures an Engine. Zero values take the defaults.
type Options struct {
	PollInterval time.Duration
	WaitTimeout  time.Duration

	// SettleDelay is the pause after an option click. nil takes
	// DefaultSettleDelay; an explicit zero disables it.
	SettleDelay *time.Duration

	// Rules is the widget detection table. A zero table uses DefaultRules.
	Rules RuleTable

	Clock  Clock
	Logger Logger
}

// Engine captures and fills form controls. It holds no per-document state,
// so one Engine may serve any number of documents, one call at a time per
// document.
type Engine struct {
	pollInterval time.Duration
	waitTimeout  time.Duration
	settleDelay  time.Duration
	rules        RuleTable
	clock        Clock
	log          Logger
}

// New creates an Engine.
func New(opts Options) *Engine {
	e := &Engine{
		pollInterval: opts.PollInterval,
		waitTimeout:  opts.WaitTimeout,
		settleDelay:  DefaultSettleDelay,
		rules:        opts.Rules,
		clock:        opts.Clock,
		log:          opts.Logger,
	}
	if e.pollInterval <= 0 {
		e.pollInterval = DefaultPollInterval
	}
	if e.waitTimeout <= 0 {
		e.waitTimeout = DefaultWaitTimeout
	}
	if opts.SettleDelay != nil {
		e.settleDelay = max(*opts.SettleDelay, 0)
	}
	if e.rules.IsZero() {
		e.rules = DefaultRules()
	}
	e.rules = e.rules.Ordered()
	if e.clock == nil {
		e.clock = SystemClock()
	}
	if e.log == nil {
		e.log = nopLogger{}
	}
	return e
}
