// Package config loads the runner configuration: which environments to test,
// where the grid hub lives and how browsers are sized and timed.
//
// Values are layered: Default, then a YAML file (Load), then SENBOT_*
// environment variables (ApplyEnv), then command line flags set by the caller.
// Nothing here validates the combination; the harness registry does that when
// it is built from a Config.
package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment variable ApplyEnv reads.
const EnvPrefix = "SENBOT"

// Default values
const (
	DefaultTarget       = "CH,LATEST,ANY"
	DefaultWindowWidth  = 1280
	DefaultWindowHeight = 720
	DefaultTimeout      = 30
	DefaultLogLevel     = "info"
)

// Config holds everything needed to build an environment registry.
type Config struct {
	// DefaultDomain is the base URL tests navigate to
	DefaultDomain string `yaml:"default_domain" json:"default_domain" envconfig:"DEFAULT_DOMAIN"`

	// HubURL is the remote grid address; blank runs browsers locally
	HubURL string `yaml:"hub_url" json:"hub_url" envconfig:"HUB_URL"`

	// RunOnGrid requires HubURL and obtains every session from the hub
	RunOnGrid bool `yaml:"run_on_grid" json:"run_on_grid" envconfig:"RUN_ON_GRID"`

	// Target is the environment descriptor, e.g. "FF,LATEST,ANY;CH,LATEST,ANY"
	Target string `yaml:"target" json:"target" envconfig:"TARGET"`

	// WindowWidth and WindowHeight size every browser window, in pixels
	WindowWidth  int `yaml:"window_width" json:"window_width" envconfig:"WINDOW_WIDTH"`
	WindowHeight int `yaml:"window_height" json:"window_height" envconfig:"WINDOW_HEIGHT"`

	// Timeout is the page load timeout in seconds
	Timeout int `yaml:"timeout" json:"timeout" envconfig:"TIMEOUT"`

	// ImplicitWait is the element lookup timeout in seconds. It is kept as
	// text so that blank means "not configured" rather than zero.
	ImplicitWait string `yaml:"implicit_wait" json:"implicit_wait" envconfig:"IMPLICIT_WAIT"`

	// Headless launches local browsers without a window
	Headless bool `yaml:"headless" json:"headless" envconfig:"HEADLESS"`

	// InstallBrowsers downloads the Playwright driver and browsers on start
	InstallBrowsers bool `yaml:"install_browsers" json:"install_browsers" envconfig:"INSTALL_BROWSERS"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level" json:"log_level" envconfig:"LOG_LEVEL"`
}

// Default returns the configuration used when nothing else is specified.
func Default() Config {
	return Config{
		Target:       DefaultTarget,
		WindowWidth:  DefaultWindowWidth,
		WindowHeight: DefaultWindowHeight,
		Timeout:      DefaultTimeout,
		Headless:     true,
		LogLevel:     DefaultLogLevel,
	}
}

// Load reads a YAML file on top of Default. Keys missing from the file keep
// their default value.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyEnv overrides cfg with any SENBOT_* variables that are set, e.g.
// SENBOT_HUB_URL or SENBOT_RUN_ON_GRID. Unset variables leave cfg unchanged.
func ApplyEnv(cfg *Config) error {
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return fmt.Errorf("failed to read %s_* environment: %w", EnvPrefix, err)
	}
	return nil
}
