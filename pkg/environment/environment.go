package environment

import (
	"fmt"
	"sync"

	"github.com/entrhq/senbot/pkg/browser"
)

// TestEnvironment is one browser/version/platform target a test can run on.
// It owns at most one driver session, attached after construction and
// released by Close.
type TestEnvironment struct {
	// Browser is the browser name as written in the descriptor (e.g. "FF", "CH")
	Browser string

	// BrowserVersion is the requested version (e.g. "LATEST")
	BrowserVersion string

	// Platform is the operating system the browser should run on
	Platform Platform

	mu      sync.Mutex
	session browser.Session
}

// New returns an environment without a session.
func New(browserName, version string, platform Platform) *TestEnvironment {
	return &TestEnvironment{
		Browser:        browserName,
		BrowserVersion: version,
		Platform:       platform,
	}
}

// Session returns the driver session bound to this environment, or nil if
// none has been attached or it has been closed.
func (e *TestEnvironment) Session() browser.Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}

// Attach binds s as this environment's driver session, replacing any
// previous one without closing it.
func (e *TestEnvironment) Attach(s browser.Session) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session = s
}

// Close releases the driver session. Calling Close on an environment without
// a session is a no-op.
func (e *TestEnvironment) Close() error {
	e.mu.Lock()
	s := e.session
	e.session = nil
	e.mu.Unlock()

	if s == nil {
		return nil
	}
	if err := s.Close(); err != nil {
		return fmt.Errorf("failed to close session for %s: %w", e, err)
	}
	return nil
}

// Target converts the environment into the driver's launch request.
func (e *TestEnvironment) Target() browser.Target {
	return browser.Target{
		Browser:  e.Browser,
		Version:  e.BrowserVersion,
		Platform: e.Platform.String(),
	}
}

// String returns a human readable description, e.g. "FF LATEST on ANY".
func (e *TestEnvironment) String() string {
	return fmt.Sprintf("%s %s on %s", e.Browser, e.BrowserVersion, e.Platform)
}
