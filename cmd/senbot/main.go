// Package main provides the senbot runner. It builds the environment
// registry from configuration, opens one browser session per target
// environment and runs a smoke worker against the default domain in each.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/entrhq/senbot/pkg/browser"
	"github.com/entrhq/senbot/pkg/config"
	"github.com/entrhq/senbot/pkg/environment"
	"github.com/entrhq/senbot/pkg/harness"
	"github.com/entrhq/senbot/pkg/logging"
)

const version = "0.1.0"

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigFile    string
	Target        string
	HubURL        string
	RunOnGrid     bool
	DefaultDomain string
	WindowWidth   int
	WindowHeight  int
	Timeout       int
	ImplicitWait  string
	Headed        bool
	Install       bool
	LogLevel      string
	ShowVersion   bool

	// set records which flags were given explicitly
	set map[string]bool
}

func main() {
	cli := parseFlags()

	if cli.ShowVersion {
		fmt.Printf("senbot v%s\n", version)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if err := run(ctx, cli); err != nil {
		stop()
		log.Printf("Run failed: %v", err)
		os.Exit(1)
	}
	stop()
}

// parseFlags parses command line flags
func parseFlags() *CLIConfig {
	cli := &CLIConfig{set: make(map[string]bool)}

	flag.StringVar(&cli.ConfigFile, "config", "", "Path to configuration file (YAML)")
	flag.StringVar(&cli.Target, "target", "", "Environment descriptor, e.g. \"FF,LATEST,ANY;CH,LATEST,ANY\"")
	flag.StringVar(&cli.HubURL, "hub", "", "Remote browser hub URL")
	flag.BoolVar(&cli.RunOnGrid, "grid", false, "Obtain every session from the hub")
	flag.StringVar(&cli.DefaultDomain, "domain", "", "Base URL the smoke worker navigates to")
	flag.IntVar(&cli.WindowWidth, "width", config.DefaultWindowWidth, "Browser window width in pixels")
	flag.IntVar(&cli.WindowHeight, "height", config.DefaultWindowHeight, "Browser window height in pixels")
	flag.IntVar(&cli.Timeout, "timeout", config.DefaultTimeout, "Page load timeout in seconds")
	flag.StringVar(&cli.ImplicitWait, "implicit-wait", "", "Element lookup timeout in seconds")
	flag.BoolVar(&cli.Headed, "headed", false, "Show local browser windows")
	flag.BoolVar(&cli.Install, "install", false, "Install the Playwright driver and browsers before starting")
	flag.StringVar(&cli.LogLevel, "log-level", config.DefaultLogLevel, "Log level: debug, info, warn, error")
	flag.BoolVar(&cli.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "senbot - cross-browser test environment runner\n\n")
		fmt.Fprintf(os.Stderr, "Usage: senbot [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nConfiguration is layered: defaults, -config file, SENBOT_* environment, flags.\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Firefox and Chromium locally\n")
		fmt.Fprintf(os.Stderr, "  senbot -target \"FF,LATEST,ANY;CH,LATEST,ANY\" -domain https://example.com\n\n")
		fmt.Fprintf(os.Stderr, "  # Everything from a remote hub\n")
		fmt.Fprintf(os.Stderr, "  senbot -grid -hub ws://grid.local:3000/ -config senbot.yaml\n\n")
	}

	flag.Parse()
	flag.Visit(func(f *flag.Flag) { cli.set[f.Name] = true })
	return cli
}

// loadConfig layers the config file, the environment and explicit flags.
func loadConfig(cli *CLIConfig) (config.Config, error) {
	cfg := config.Default()
	if cli.ConfigFile != "" {
		loaded, err := config.Load(cli.ConfigFile)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if err := config.ApplyEnv(&cfg); err != nil {
		return config.Config{}, err
	}

	if cli.set["target"] {
		cfg.Target = cli.Target
	}
	if cli.set["hub"] {
		cfg.HubURL = cli.HubURL
	}
	if cli.set["grid"] {
		cfg.RunOnGrid = cli.RunOnGrid
	}
	if cli.set["domain"] {
		cfg.DefaultDomain = cli.DefaultDomain
	}
	if cli.set["width"] {
		cfg.WindowWidth = cli.WindowWidth
	}
	if cli.set["height"] {
		cfg.WindowHeight = cli.WindowHeight
	}
	if cli.set["timeout"] {
		cfg.Timeout = cli.Timeout
	}
	if cli.set["implicit-wait"] {
		cfg.ImplicitWait = cli.ImplicitWait
	}
	if cli.set["headed"] {
		cfg.Headless = !cli.Headed
	}
	if cli.set["install"] {
		cfg.InstallBrowsers = cli.Install
	}
	if cli.set["log-level"] {
		cfg.LogLevel = cli.LogLevel
	}
	return cfg, nil
}

// run executes one smoke worker per configured environment
func run(ctx context.Context, cli *CLIConfig) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.NewLogger("senbot")
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.SetLevel(level)
	if path := logger.LogPath(); path != "" {
		fmt.Printf("Logging to %s\n", path)
	}

	driver := browser.NewPlaywrightDriver(
		browser.WithInstall(cfg.InstallBrowsers),
		browser.WithLogger(logger.With("browser")),
	)
	if err := driver.Initialize(); err != nil {
		return err
	}
	defer func() {
		if err := driver.Shutdown(); err != nil {
			logger.Errorf("driver shutdown: %v", err)
		}
	}()

	registry, err := harness.NewRegistry(ctx, cfg, driver, harness.WithLogger(logger.With("registry")))
	if err != nil {
		if errors.Is(err, harness.ErrConfiguration) {
			flag.Usage()
		}
		return err
	}

	rt := harness.NewRuntime(registry, harness.NewAffinityMap(harness.WithLogger(logger.With("affinity"))))
	harness.Initialize(rt)
	defer func() {
		harness.Reset()
		if err := rt.Close(); err != nil {
			logger.Errorf("cleanup: %v", err)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	for _, env := range registry.Environments() {
		env := env
		g.Go(func() error {
			return rt.RunWorker(gctx, env, func(wctx context.Context) error {
				return smoke(wctx, registry.DefaultDomain(), env, logger)
			})
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("%d environment(s) passed\n", len(registry.Environments()))
	return nil
}

// smoke loads domain in the worker's session and reports the page title.
func smoke(ctx context.Context, domain string, env *environment.TestEnvironment, logger *logging.Logger) error {
	session := harness.CurrentSession(ctx)
	if session == nil {
		return fmt.Errorf("%s: %w", env, harness.ErrNotAssociated)
	}
	if domain == "" {
		logger.Infof("%s: session ready, no default domain to visit", env)
		return nil
	}

	if err := browser.Navigate(session, domain, browser.NavigateOptions{WaitUntil: "load"}); err != nil {
		return fmt.Errorf("%s: %w", env, err)
	}
	title, err := browser.Title(session)
	if err != nil {
		return fmt.Errorf("%s: %w", env, err)
	}
	logger.Infof("%s: loaded %s (%q)", env, domain, title)
	fmt.Printf("%s: %s\n", env, title)
	return nil
}
