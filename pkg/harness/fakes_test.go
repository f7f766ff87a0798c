package harness

import (
	"context"
	"sync"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/mock"

	"github.com/entrhq/senbot/pkg/browser"
	"github.com/entrhq/senbot/pkg/config"
)

// fakeSession records how often it was closed.
type fakeSession struct {
	mu       sync.Mutex
	target   browser.Target
	closed   int
	closeErr error
}

func (s *fakeSession) Page() playwright.Page { return nil }

func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return s.closeErr
}

func (s *fakeSession) closeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// fakeDriver hands out fakeSessions and remembers them in open order.
type fakeDriver struct {
	mu       sync.Mutex
	sessions []*fakeSession
}

func (d *fakeDriver) Open(_ context.Context, target browser.Target) (browser.Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := &fakeSession{target: target}
	d.sessions = append(d.sessions, s)
	return s, nil
}

func (d *fakeDriver) opened() []*fakeSession {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*fakeSession(nil), d.sessions...)
}

// mockDriver is a testify mock of browser.Driver.
type mockDriver struct {
	mock.Mock
}

func (m *mockDriver) Open(ctx context.Context, target browser.Target) (browser.Session, error) {
	args := m.Called(ctx, target)
	session, _ := args.Get(0).(browser.Session)
	return session, args.Error(1)
}

func browserIs(name string) interface{} {
	return mock.MatchedBy(func(t browser.Target) bool { return t.Browser == name })
}

// testConfig mirrors the settings used throughout the registry tests.
func testConfig(hub string, grid bool, target string) config.Config {
	return config.Config{
		DefaultDomain: "http://www.example.com",
		HubURL:        hub,
		RunOnGrid:     grid,
		Target:        target,
		WindowWidth:   1000,
		WindowHeight:  800,
		Timeout:       5,
		Headless:      true,
	}
}
