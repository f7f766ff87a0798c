// Package browser is the boundary between the test harness and the browser
// automation library.
//
// The harness only needs two things from a driver: open a session for a
// browser/version/platform target, and close it again. Driver and Session
// capture exactly that, so the environment registry can be exercised without
// a real browser.
//
// # Playwright
//
// PlaywrightDriver implements Driver on top of Playwright:
//
//   - Local mode: the browser is launched on this machine.
//   - Grid mode: when Target.Hub is set, the driver connects to a remote
//     Playwright server at that address instead of launching.
//
// Browser names follow the descriptor vocabulary and are matched without
// regard to case:
//
//	FF, FIREFOX            -> firefox
//	CH, CHROME, CHROMIUM   -> chromium
//	EDGE                   -> chromium (msedge channel)
//	SF, SAFARI, WEBKIT     -> webkit
//
// The outer timeout becomes the page's default navigation timeout and the
// implicit wait, when set, the default timeout for element operations.
//
// # Example Usage
//
//	driver := browser.NewPlaywrightDriver(browser.WithInstall(true))
//	if err := driver.Initialize(); err != nil {
//	    return err
//	}
//	defer driver.Shutdown()
//
//	session, err := driver.Open(ctx, browser.Target{
//	    Browser:  "FF",
//	    Version:  "LATEST",
//	    Platform: "ANY",
//	    Viewport: browser.Viewport{Width: 1280, Height: 720},
//	})
//	if err != nil {
//	    return err
//	}
//	defer session.Close()
//
//	err = browser.Navigate(session, "https://example.com", browser.NavigateOptions{})
package browser
