package harness

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/entrhq/senbot/pkg/browser"
	"github.com/entrhq/senbot/pkg/config"
	"github.com/entrhq/senbot/pkg/environment"
	"github.com/entrhq/senbot/pkg/logging"
)

// Registry holds the browser configuration of a test run and the environments
// parsed from its target descriptor. Every environment has a live driver
// session from construction until CleanUp.
type Registry struct {
	defaultDomain string
	hub           *url.URL
	runOnGrid     bool
	windowWidth   int
	windowHeight  int
	timeout       int
	implicitWait  *int
	logger        *logging.Logger

	// cleanupMu serializes CleanUp; mu guards only the environments slice.
	cleanupMu    sync.Mutex
	mu           sync.RWMutex
	environments []*environment.TestEnvironment
}

// NewRegistry validates cfg, parses its target descriptor and opens one
// driver session per environment, in descriptor order.
//
// Configuration problems are returned as *ConfigError, except a malformed hub
// address, which is returned as the *url.Error from parsing. If opening any
// session fails, the sessions already opened are closed before the error is
// returned; no partial registry is ever produced.
func NewRegistry(ctx context.Context, cfg config.Config, driver browser.Driver, opts ...Option) (*Registry, error) {
	if driver == nil {
		return nil, ErrNilDriver
	}
	o := buildOptions(opts)

	hubBlank := strings.TrimSpace(cfg.HubURL) == ""
	if cfg.RunOnGrid && hubBlank {
		return nil, configError("hub_url", ErrHubRequired)
	}

	var hub *url.URL
	if !hubBlank {
		parsed, err := parseHub(cfg.HubURL)
		if err != nil {
			return nil, err
		}
		hub = parsed
	}

	envs, err := environment.Parse(cfg.Target)
	if err != nil {
		return nil, configError("target", err)
	}

	if cfg.WindowWidth <= 0 || cfg.WindowHeight <= 0 {
		return nil, configError("window size", fmt.Errorf("%w: got %dx%d", ErrInvalidWindow, cfg.WindowWidth, cfg.WindowHeight))
	}
	if cfg.Timeout < 0 {
		return nil, configError("timeout", fmt.Errorf("%w: got %d", ErrInvalidTimeout, cfg.Timeout))
	}

	implicitWait, err := parseImplicitWait(cfg.ImplicitWait)
	if err != nil {
		return nil, configError("implicit_wait", err)
	}

	r := &Registry{
		defaultDomain: cfg.DefaultDomain,
		hub:           hub,
		runOnGrid:     cfg.RunOnGrid,
		windowWidth:   cfg.WindowWidth,
		windowHeight:  cfg.WindowHeight,
		timeout:       cfg.Timeout,
		implicitWait:  implicitWait,
		logger:        o.logger,
	}

	if err := r.acquire(ctx, driver, envs, cfg.Headless); err != nil {
		return nil, err
	}
	r.environments = envs

	r.logger.Infof("registry ready with %d environment(s), grid=%t", len(envs), r.runOnGrid)
	return r, nil
}

// parseHub accepts only absolute URLs with a host. Anything else is reported
// as a *url.Error.
func parseHub(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	u, err := url.ParseRequestURI(trimmed)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, &url.Error{Op: "parse", URL: trimmed, Err: errors.New("hub address must be an absolute URL with a host")}
	}
	return u, nil
}

func parseImplicitWait(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidImplicitWait, raw)
	}
	return &seconds, nil
}

// acquire opens a session for every environment. On failure it closes the
// sessions opened so far.
func (r *Registry) acquire(ctx context.Context, driver browser.Driver, envs []*environment.TestEnvironment, headless bool) error {
	for i, env := range envs {
		err := ctx.Err()
		var session browser.Session
		if err == nil {
			session, err = driver.Open(ctx, r.target(env, headless))
		}
		if err == nil && session == nil {
			err = errors.New("driver returned no session")
		}
		if err != nil {
			r.rollback(envs[:i])
			return fmt.Errorf("failed to open session for %s: %w", env, err)
		}

		env.Attach(session)
		r.logger.Debugf("opened session for %s", env)
	}
	return nil
}

func (r *Registry) rollback(opened []*environment.TestEnvironment) {
	for _, env := range opened {
		if err := env.Close(); err != nil {
			r.logger.Warnf("rollback: %v", err)
		}
	}
	if len(opened) > 0 {
		r.logger.Warnf("rolled back %d session(s) after a failed start", len(opened))
	}
}

func (r *Registry) target(env *environment.TestEnvironment, headless bool) browser.Target {
	t := env.Target()
	if r.runOnGrid {
		t.Hub = r.hub
	}
	t.Viewport = browser.Viewport{Width: r.windowWidth, Height: r.windowHeight}
	t.Headless = headless
	t.Timeout = r.Timeout()
	if r.implicitWait != nil {
		wait := time.Duration(*r.implicitWait) * time.Second
		t.ImplicitWait = &wait
	}
	return t
}

// CleanUp closes every environment's session and empties the registry. The
// registry stays usable; accessors keep working and report no environments.
// Concurrent calls are serialized. Close failures are joined and returned
// after every environment has been attempted.
func (r *Registry) CleanUp() error {
	r.cleanupMu.Lock()
	defer r.cleanupMu.Unlock()

	r.mu.Lock()
	envs := r.environments
	r.environments = nil
	r.mu.Unlock()

	var errs []error
	for _, env := range envs {
		if err := env.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(envs) > 0 {
		r.logger.Infof("cleaned up %d environment(s)", len(envs))
	}
	return errors.Join(errs...)
}

// DefaultDomain returns the base URL tests navigate to.
func (r *Registry) DefaultDomain() string {
	return r.defaultDomain
}

// Hub returns the grid hub address, or nil when none was configured.
func (r *Registry) Hub() *url.URL {
	if r.hub == nil {
		return nil
	}
	u := *r.hub
	return &u
}

// RunOnGrid reports whether sessions come from the hub.
func (r *Registry) RunOnGrid() bool {
	return r.runOnGrid
}

// Environments returns the environments in descriptor order.
func (r *Registry) Environments() []*environment.TestEnvironment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	envs := make([]*environment.TestEnvironment, len(r.environments))
	copy(envs, r.environments)
	return envs
}

// Environment returns the i-th environment in descriptor order.
func (r *Registry) Environment(i int) (*environment.TestEnvironment, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i < 0 || i >= len(r.environments) {
		return nil, false
	}
	return r.environments[i], true
}

// TimeoutSeconds returns the configured page load timeout in seconds.
func (r *Registry) TimeoutSeconds() int {
	return r.timeout
}

// Timeout returns the page load timeout.
func (r *Registry) Timeout() time.Duration {
	return time.Duration(r.timeout) * time.Second
}

// WindowWidth returns the browser window width in pixels.
func (r *Registry) WindowWidth() int {
	return r.windowWidth
}

// WindowHeight returns the browser window height in pixels.
func (r *Registry) WindowHeight() int {
	return r.windowHeight
}

// ImplicitWait returns the element lookup timeout in seconds. ok is false
// when no implicit wait was configured.
func (r *Registry) ImplicitWait() (seconds int, ok bool) {
	if r.implicitWait == nil {
		return 0, false
	}
	return *r.implicitWait, true
}
