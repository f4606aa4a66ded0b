package browser

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// launchFunc opens the resources of one session.
type launchFunc func(name string, opts SessionOptions) (*Session, error)

// SessionManager owns the Playwright driver and the sessions opened on it.
type SessionManager struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	playwright  *playwright.Playwright
	launch      launchFunc
	initialized bool
}

// NewSessionManager creates a manager. Call Initialize before StartSession.
func NewSessionManager() *SessionManager {
	m := &SessionManager{
		sessions: make(map[string]*Session),
	}
	m.launch = m.launchChromium
	return m
}

// Initialize installs (if needed) and starts the Playwright driver.
// Driver output is discarded so it does not mix with CLI output.
func (m *SessionManager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	opts := &playwright.RunOptions{
		Browsers: []string{"chromium"},
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}
	if err := playwright.Install(opts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}
	pw, err := playwright.Run(opts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	m.playwright = pw
	m.initialized = true
	return nil
}

// StartSession opens a new named session.
func (m *SessionManager) StartSession(name string, opts SessionOptions) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[name]; exists {
		return nil, fmt.Errorf("session %q already exists", name)
	}
	if !m.initialized {
		return nil, errors.New("session manager not initialized")
	}

	s, err := m.launch(name, opts.withDefaults())
	if err != nil {
		return nil, err
	}
	m.sessions[name] = s
	return s, nil
}

func (m *SessionManager) launchChromium(name string, opts SessionOptions) (*Session, error) {
	browser, err := m.playwright.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: opts.Viewport.Width, Height: opts.Viewport.Height},
	})
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		bctx.Close()
		browser.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(millis(opts.Timeout))

	closePage := func() error { return page.Close() }
	closeContext := func() error { return bctx.Close() }
	closeBrowser := func() error { return browser.Close() }
	return newSession(name, page, closePage, closeContext, closeBrowser), nil
}

func (m *SessionManager) closeLocked() error {
	var errs []error
	for name, s := range m.sessions {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("session %q: %w", name, err))
		}
		delete(m.sessions, name)
	}
	return errors.Join(errs...)
}

// Shutdown closes every session and stops the driver.
func (m *SessionManager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.closeLocked()
	if m.initialized && m.playwright != nil {
		if stopErr := m.playwright.Stop(); stopErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to stop playwright: %w", stopErr))
		}
	}
	m.initialized = false
	return err
}
