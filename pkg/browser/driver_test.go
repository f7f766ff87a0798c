package browser

import (
	"context"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEngine(t *testing.T) {
	tests := []struct {
		browser string
		engine  string
		channel string
	}{
		{browser: "FF", engine: engineFirefox},
		{browser: "firefox", engine: engineFirefox},
		{browser: "CH", engine: engineChromium},
		{browser: " chrome ", engine: engineChromium},
		{browser: "Chromium", engine: engineChromium},
		{browser: "EDGE", engine: engineChromium, channel: "msedge"},
		{browser: "SF", engine: engineWebKit},
		{browser: "safari", engine: engineWebKit},
		{browser: "WEBKIT", engine: engineWebKit},
	}

	for _, tt := range tests {
		t.Run(tt.browser, func(t *testing.T) {
			e, err := resolveEngine(tt.browser)
			require.NoError(t, err)
			assert.Equal(t, tt.engine, e.name)
			assert.Equal(t, tt.channel, e.channel)
		})
	}
}

func TestResolveEngine_Unsupported(t *testing.T) {
	_, err := resolveEngine("IE")
	assert.ErrorIs(t, err, ErrUnsupportedBrowser)
	assert.Contains(t, err.Error(), `"IE"`)
}

func TestPlaywrightDriver_OpenBeforeInitialize(t *testing.T) {
	d := NewPlaywrightDriver()
	_, err := d.Open(context.Background(), Target{Browser: "CH", Version: "LATEST", Platform: "ANY"})
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.Equal(t, 0, d.OpenSessions())
}

func TestPlaywrightDriver_OpenUnsupportedBrowser(t *testing.T) {
	d := NewPlaywrightDriver()
	_, err := d.Open(context.Background(), Target{Browser: "NETSCAPE"})
	assert.ErrorIs(t, err, ErrUnsupportedBrowser)
}

func TestPlaywrightDriver_OpenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewPlaywrightDriver()
	_, err := d.Open(ctx, Target{Browser: "CH"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPlaywrightDriver_ShutdownWithoutInitialize(t *testing.T) {
	d := NewPlaywrightDriver(WithInstall(false), WithLogger(nil))
	assert.NoError(t, d.Shutdown())
}

type pagelessSession struct{}

func (pagelessSession) Page() playwright.Page { return nil }
func (pagelessSession) Close() error          { return nil }

func TestNavigate_NoPage(t *testing.T) {
	err := Navigate(pagelessSession{}, "https://example.com", NavigateOptions{})
	assert.ErrorIs(t, err, ErrNoPage)

	_, err = Title(pagelessSession{})
	assert.ErrorIs(t, err, ErrNoPage)
}

func TestMilliseconds(t *testing.T) {
	assert.Equal(t, 30000.0, milliseconds(30*time.Second))
	assert.Equal(t, 0.0, milliseconds(0))
}
