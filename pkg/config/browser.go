package config

import (
	"fmt"
	"sync"
	"time"
)

const (
	// SectionIDBrowser identifies the browser launch section.
	SectionIDBrowser = "browser"

	defaultHeadless       = true
	defaultViewportWidth  = 1280
	defaultViewportHeight = 720
	defaultBrowserTimeout = 30 * time.Second
)

// BrowserSection configures the browser the CLI launches.
type BrowserSection struct {
	Headless       bool          `json:"headless"`
	ViewportWidth  int           `json:"viewport_width"`
	ViewportHeight int           `json:"viewport_height"`
	Timeout        time.Duration `json:"timeout"`
	mu             sync.RWMutex
}

// NewBrowserSection returns the section with defaults.
func NewBrowserSection() *BrowserSection {
	return &BrowserSection{
		Headless:       defaultHeadless,
		ViewportWidth:  defaultViewportWidth,
		ViewportHeight: defaultViewportHeight,
		Timeout:        defaultBrowserTimeout,
	}
}

// ID returns the section identifier.
func (s *BrowserSection) ID() string {
	return SectionIDBrowser
}

// Title returns the section title.
func (s *BrowserSection) Title() string {
	return "Browser"
}

// Description returns the section description.
func (s *BrowserSection) Description() string {
	return "Launch options for the browser used to capture and fill pages."
}

// Data returns the current configuration data.
func (s *BrowserSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"headless":        s.Headless,
		"viewport_width":  s.ViewportWidth,
		"viewport_height": s.ViewportHeight,
		"timeout":         s.Timeout.String(),
	}
}

// SetData updates the section from data. Unknown keys are ignored.
func (s *BrowserSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		switch key {
		case "headless":
			headless, ok := value.(bool)
			if !ok {
				return fmt.Errorf("invalid value type for headless: expected bool, got %T", value)
			}
			s.Headless = headless

		case "viewport_width":
			n, err := parseInt(key, value)
			if err != nil {
				return err
			}
			s.ViewportWidth = n

		case "viewport_height":
			n, err := parseInt(key, value)
			if err != nil {
				return err
			}
			s.ViewportHeight = n

		case "timeout":
			d, err := parseDuration(key, value)
			if err != nil {
				return err
			}
			s.Timeout = d
		}
	}
	return nil
}

// Validate checks viewport and timeout bounds.
func (s *BrowserSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.ViewportWidth <= 0 || s.ViewportHeight <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d", s.ViewportWidth, s.ViewportHeight)
	}
	if s.Timeout < time.Second || s.Timeout > 5*time.Minute {
		return fmt.Errorf("timeout must be between 1s and 5m, got %v", s.Timeout)
	}
	return nil
}

// Reset restores the defaults.
func (s *BrowserSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Headless = defaultHeadless
	s.ViewportWidth = defaultViewportWidth
	s.ViewportHeight = defaultViewportHeight
	s.Timeout = defaultBrowserTimeout
}

// SetHeadless overrides the headless flag.
func (s *BrowserSection) SetHeadless(headless bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Headless = headless
}

// Snapshot returns headless, viewport and timeout in one read.
func (s *BrowserSection) Snapshot() (headless bool, width, height int, timeout time.Duration) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Headless, s.ViewportWidth, s.ViewportHeight, s.Timeout
}
