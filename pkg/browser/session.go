package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/Lenersebastian/sebov-autofill/pkg/dom/pwdom"
)

// Session is one browser, context and page.
type Session struct {
	Name string

	page    playwright.Page
	closers []func() error

	mu         sync.Mutex
	currentURL string
	closeOnce  sync.Once
	closeErr   error
}

func newSession(name string, page playwright.Page, closers ...func() error) *Session {
	return &Session{
		Name:       name,
		page:       page,
		closers:    closers,
		currentURL: "about:blank",
	}
}

// CurrentURL returns the URL after the last navigation.
func (s *Session) CurrentURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentURL
}

// Navigate loads url in the session's page.
func (s *Session) Navigate(ctx context.Context, url string, opts NavigateOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.page == nil {
		return errors.New("session has no page")
	}

	gotoOpts := playwright.PageGotoOptions{}
	if opts.WaitUntil != "" {
		waitUntil := playwright.WaitUntilState(opts.WaitUntil)
		gotoOpts.WaitUntil = &waitUntil
	}
	if opts.Timeout > 0 {
		gotoOpts.Timeout = playwright.Float(millis(opts.Timeout))
	}

	if _, err := s.page.Goto(url, gotoOpts); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}

	s.mu.Lock()
	s.currentURL = s.page.URL()
	s.mu.Unlock()
	return nil
}

// Document returns the current page as a dom.Document.
func (s *Session) Document() *pwdom.Document {
	return pwdom.New(s.page)
}

// Close releases page, context and browser in that order. Every closer runs
// even if an earlier one fails.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		var errs []error
		for _, c := range s.closers {
			if err := c(); err != nil {
				errs = append(errs, err)
			}
		}
		s.closeErr = errors.Join(errs...)
	})
	return s.closeErr
}
