// Package harness holds the shared state of a test run: the environment
// registry that opens one browser session per target environment, and the
// affinity map that binds each worker to the environment it drives.
//
// Workers are identified through context.Context rather than goroutine
// identity. RunWorker creates a worker context, binds it and removes the
// binding when the worker returns:
//
//	rt := harness.NewRuntime(registry, nil)
//	harness.Initialize(rt)
//	defer rt.Close()
//
//	err := rt.RunWorker(ctx, env, func(ctx context.Context) error {
//		session := harness.CurrentSession(ctx)
//		return browser.Navigate(session, registry.DefaultDomain(), browser.NavigateOptions{})
//	})
package harness
