package browser

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Driver opens browser sessions. Implementations may block on network or IPC
// while a session starts.
type Driver interface {
	Open(ctx context.Context, target Target) (Session, error)
}

// Session is one live browser automation session.
type Session interface {
	// Page returns the session's active page
	Page() playwright.Page

	// Close releases the browser and everything it owns
	Close() error
}

// Target describes the session a Driver should open.
type Target struct {
	// Browser is the descriptor browser name (FF, CH, EDGE, SF, ...)
	Browser string

	// Version is the requested browser version
	Version string

	// Platform is the requested operating system name
	Platform string

	// Hub is the remote grid address; nil means launch locally
	Hub *url.URL

	// Viewport is the initial window size
	Viewport Viewport

	// Headless controls whether a locally launched browser shows a window
	Headless bool

	// Timeout is the default navigation timeout (0 keeps the driver default)
	Timeout time.Duration

	// ImplicitWait is the default element operation timeout; nil keeps the
	// driver default
	ImplicitWait *time.Duration
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// NavigateOptions configures page navigation behavior.
type NavigateOptions struct {
	// WaitUntil specifies when to consider navigation successful
	// Valid values: "load", "domcontentloaded", "networkidle"
	WaitUntil string

	// Timeout in milliseconds (0 means the page default)
	Timeout float64
}

var (
	// ErrUnsupportedBrowser is returned by Open for browser names that do not
	// map to a Playwright engine.
	ErrUnsupportedBrowser = errors.New("unsupported browser")

	// ErrNotInitialized is returned by Open before Initialize succeeded.
	ErrNotInitialized = errors.New("playwright driver not initialized")

	// ErrNoPage is returned by Navigate when the session has no page.
	ErrNoPage = errors.New("session has no page")
)

// Default values
const (
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
	LatestVersion         = "LATEST"
)
