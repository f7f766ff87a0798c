package browser

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightSession is a browser, its isolated context and one page.
type PlaywrightSession struct {
	target    Target
	browser   playwright.Browser
	context   playwright.BrowserContext
	page      playwright.Page
	createdAt time.Time
	driver    *PlaywrightDriver

	closeOnce sync.Once
	closeErr  error
}

// Page returns the session's page.
func (s *PlaywrightSession) Page() playwright.Page {
	return s.page
}

// Target returns the request the session was opened for.
func (s *PlaywrightSession) Target() Target {
	return s.target
}

// CreatedAt returns when the session was opened.
func (s *PlaywrightSession) CreatedAt() time.Time {
	return s.createdAt
}

// Close closes the page, context and browser. Only the first call does any
// work; later calls return the first result.
func (s *PlaywrightSession) Close() error {
	s.closeOnce.Do(func() {
		var errs []error
		if err := s.page.Close(); err != nil {
			errs = append(errs, fmt.Errorf("page: %w", err))
		}
		if err := s.context.Close(); err != nil {
			errs = append(errs, fmt.Errorf("context: %w", err))
		}
		if err := s.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("browser: %w", err))
		}
		s.closeErr = errors.Join(errs...)

		if s.driver != nil {
			s.driver.forget(s)
		}
	})
	return s.closeErr
}

// Navigate opens url in the session's page.
func Navigate(s Session, url string, opts NavigateOptions) error {
	page := s.Page()
	if page == nil {
		return ErrNoPage
	}

	gotoOpts := playwright.PageGotoOptions{}
	if opts.WaitUntil != "" {
		waitUntil := playwright.WaitUntilState(opts.WaitUntil)
		gotoOpts.WaitUntil = &waitUntil
	}
	if opts.Timeout > 0 {
		timeout := opts.Timeout
		gotoOpts.Timeout = &timeout
	}

	if _, err := page.Goto(url, gotoOpts); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

// Title returns the title of the session's current page.
func Title(s Session) (string, error) {
	page := s.Page()
	if page == nil {
		return "", ErrNoPage
	}
	return page.Title()
}
