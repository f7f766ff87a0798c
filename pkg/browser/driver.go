package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/senbot/pkg/logging"
)

// engine is a Playwright browser type plus an optional distribution channel.
type engine struct {
	name    string
	channel string
}

const (
	engineChromium = "chromium"
	engineFirefox  = "firefox"
	engineWebKit   = "webkit"
)

var engines = map[string]engine{
	"FF":       {name: engineFirefox},
	"FIREFOX":  {name: engineFirefox},
	"CH":       {name: engineChromium},
	"CHROME":   {name: engineChromium},
	"CHROMIUM": {name: engineChromium},
	"EDGE":     {name: engineChromium, channel: "msedge"},
	"SF":       {name: engineWebKit},
	"SAFARI":   {name: engineWebKit},
	"WEBKIT":   {name: engineWebKit},
}

func resolveEngine(browserName string) (engine, error) {
	e, ok := engines[strings.ToUpper(strings.TrimSpace(browserName))]
	if !ok {
		return engine{}, fmt.Errorf("%w: %q", ErrUnsupportedBrowser, browserName)
	}
	return e, nil
}

// DriverOption configures a PlaywrightDriver.
type DriverOption func(*PlaywrightDriver)

// WithInstall makes Initialize download the Playwright driver and browsers
// before starting.
func WithInstall(install bool) DriverOption {
	return func(d *PlaywrightDriver) {
		d.install = install
	}
}

// WithLogger sets the logger used for session lifecycle messages.
func WithLogger(logger *logging.Logger) DriverOption {
	return func(d *PlaywrightDriver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// PlaywrightDriver opens sessions through a single Playwright instance and
// tracks them so Shutdown can release whatever callers left open.
type PlaywrightDriver struct {
	mu          sync.Mutex
	playwright  *playwright.Playwright
	sessions    map[*PlaywrightSession]struct{}
	initialized bool
	install     bool
	logger      *logging.Logger
}

// NewPlaywrightDriver creates a driver. Initialize must be called before Open.
func NewPlaywrightDriver(opts ...DriverOption) *PlaywrightDriver {
	d := &PlaywrightDriver{
		sessions: make(map[*PlaywrightSession]struct{}),
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Initialize starts Playwright. Calling it again after success is a no-op.
func (d *PlaywrightDriver) Initialize() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.initialized {
		return nil
	}

	runOpts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if d.install {
		d.logger.Infof("installing playwright driver and browsers")
		if err := playwright.Install(runOpts); err != nil {
			return fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	d.playwright = pw
	d.initialized = true
	return nil
}

func (d *PlaywrightDriver) browserType(e engine) playwright.BrowserType {
	switch e.name {
	case engineFirefox:
		return d.playwright.Firefox
	case engineWebKit:
		return d.playwright.WebKit
	default:
		return d.playwright.Chromium
	}
}

// Open starts a browser for target. With a hub address the browser is
// obtained from the remote server, otherwise it is launched locally.
func (d *PlaywrightDriver) Open(ctx context.Context, target Target) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e, err := resolveEngine(target.Browser)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	if !d.initialized {
		d.mu.Unlock()
		return nil, ErrNotInitialized
	}
	browserType := d.browserType(e)
	d.mu.Unlock()

	if target.Version != "" && !strings.EqualFold(target.Version, LatestVersion) {
		d.logger.Warnf("%s: version %q cannot be pinned, using the installed %s build", target.Browser, target.Version, e.name)
	}

	var b playwright.Browser
	if target.Hub != nil {
		d.logger.Debugf("connecting %s to hub %s", e.name, target.Hub.Redacted())
		b, err = browserType.Connect(target.Hub.String())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to hub %s: %w", target.Hub.Redacted(), err)
		}
	} else {
		headless := target.Headless
		launchOpts := playwright.BrowserTypeLaunchOptions{
			Headless: &headless,
		}
		if e.channel != "" {
			channel := e.channel
			launchOpts.Channel = &channel
		}
		b, err = browserType.Launch(launchOpts)
		if err != nil {
			return nil, fmt.Errorf("failed to launch %s: %w", e.name, err)
		}
	}

	viewport := target.Viewport
	if viewport.Width <= 0 {
		viewport.Width = DefaultViewportWidth
	}
	if viewport.Height <= 0 {
		viewport.Height = DefaultViewportHeight
	}

	browserContext, err := b.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  viewport.Width,
			Height: viewport.Height,
		},
	})
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := browserContext.NewPage()
	if err != nil {
		_ = browserContext.Close()
		_ = b.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	if target.Timeout > 0 {
		page.SetDefaultNavigationTimeout(milliseconds(target.Timeout))
	}
	if target.ImplicitWait != nil {
		page.SetDefaultTimeout(milliseconds(*target.ImplicitWait))
	}

	session := &PlaywrightSession{
		target:    target,
		browser:   b,
		context:   browserContext,
		page:      page,
		createdAt: time.Now(),
		driver:    d,
	}

	d.mu.Lock()
	d.sessions[session] = struct{}{}
	d.mu.Unlock()

	d.logger.Debugf("opened %s session for %s %s on %s", e.name, target.Browser, target.Version, target.Platform)
	return session, nil
}

// OpenSessions returns the number of sessions opened and not yet closed.
func (d *PlaywrightDriver) OpenSessions() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sessions)
}

func (d *PlaywrightDriver) forget(s *PlaywrightSession) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.sessions, s)
}

// Shutdown closes every open session and stops Playwright.
func (d *PlaywrightDriver) Shutdown() error {
	d.mu.Lock()
	open := make([]*PlaywrightSession, 0, len(d.sessions))
	for s := range d.sessions {
		open = append(open, s)
	}
	d.mu.Unlock()

	var errs []error
	for _, s := range open {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.initialized && d.playwright != nil {
		if err := d.playwright.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
		}
		d.playwright = nil
		d.initialized = false
	}

	return errors.Join(errs...)
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
