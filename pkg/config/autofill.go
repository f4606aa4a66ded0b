package config

import (
	"fmt"
	"sync"
	"time"
)

const (
	// SectionIDAutofill identifies the engine timing section.
	SectionIDAutofill = "autofill"

	defaultPollInterval = 25 * time.Millisecond
	defaultWaitTimeout  = 500 * time.Millisecond
	defaultSettleDelay  = 25 * time.Millisecond

	minPollInterval = time.Millisecond
)

// AutofillSection holds the combo-widget timings and the optional rules file.
type AutofillSection struct {
	PollInterval time.Duration `json:"poll_interval"`
	WaitTimeout  time.Duration `json:"wait_timeout"`
	SettleDelay  time.Duration `json:"settle_delay"`
	RulesFile    string        `json:"rules_file"`
	mu           sync.RWMutex
}

// NewAutofillSection returns the section with default timings.
func NewAutofillSection() *AutofillSection {
	return &AutofillSection{
		PollInterval: defaultPollInterval,
		WaitTimeout:  defaultWaitTimeout,
		SettleDelay:  defaultSettleDelay,
	}
}

// ID returns the section identifier.
func (s *AutofillSection) ID() string {
	return SectionIDAutofill
}

// Title returns the section title.
func (s *AutofillSection) Title() string {
	return "Autofill Engine"
}

// Description returns the section description.
func (s *AutofillSection) Description() string {
	return "Timings used while driving drop-down widgets, and an optional file of extra widget selectors."
}

// Data returns the current configuration data.
func (s *AutofillSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"poll_interval": s.PollInterval.String(),
		"wait_timeout":  s.WaitTimeout.String(),
		"settle_delay":  s.SettleDelay.String(),
		"rules_file":    s.RulesFile,
	}
}

// SetData updates the section from data. Unknown keys are ignored.
func (s *AutofillSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		switch key {
		case "poll_interval", "wait_timeout", "settle_delay":
			d, err := parseDuration(key, value)
			if err != nil {
				return err
			}
			switch key {
			case "poll_interval":
				s.PollInterval = d
			case "wait_timeout":
				s.WaitTimeout = d
			default:
				s.SettleDelay = d
			}

		case "rules_file":
			path, ok := value.(string)
			if !ok {
				return fmt.Errorf("invalid value type for rules_file: expected string, got %T", value)
			}
			s.RulesFile = path
		}
	}
	return nil
}

// Validate checks that the timings can drive a poll loop.
func (s *AutofillSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.PollInterval < minPollInterval {
		return fmt.Errorf("poll_interval must be at least %v, got %v", minPollInterval, s.PollInterval)
	}
	if s.WaitTimeout < s.PollInterval {
		return fmt.Errorf("wait_timeout (%v) must not be shorter than poll_interval (%v)", s.WaitTimeout, s.PollInterval)
	}
	if s.SettleDelay < 0 {
		return fmt.Errorf("settle_delay must not be negative, got %v", s.SettleDelay)
	}
	return nil
}

// Reset restores the defaults.
func (s *AutofillSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.PollInterval = defaultPollInterval
	s.WaitTimeout = defaultWaitTimeout
	s.SettleDelay = defaultSettleDelay
	s.RulesFile = ""
}

// Timings returns poll interval, wait timeout and settle delay.
func (s *AutofillSection) Timings() (poll, wait, settle time.Duration) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.PollInterval, s.WaitTimeout, s.SettleDelay
}

// GetRulesFile returns the configured rules file, if any.
func (s *AutofillSection) GetRulesFile() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.RulesFile
}
