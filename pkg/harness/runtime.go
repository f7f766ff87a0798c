package harness

import (
	"context"
	"fmt"
	"sync"

	"github.com/entrhq/senbot/pkg/browser"
	"github.com/entrhq/senbot/pkg/environment"
)

// Runtime is the process-wide pairing of the environment registry and the
// worker affinity map that step code reaches through CurrentSession.
type Runtime struct {
	registry *Registry
	affinity *AffinityMap
}

// NewRuntime pairs registry with affinity. A nil affinity map gets a fresh one.
func NewRuntime(registry *Registry, affinity *AffinityMap) *Runtime {
	if affinity == nil {
		affinity = NewAffinityMap()
	}
	return &Runtime{
		registry: registry,
		affinity: affinity,
	}
}

// Registry returns the environment registry.
func (r *Runtime) Registry() *Registry {
	return r.registry
}

// Affinity returns the worker affinity map.
func (r *Runtime) Affinity() *AffinityMap {
	return r.affinity
}

// Session returns the driver session of the environment bound to the worker
// in ctx.
func (r *Runtime) Session(ctx context.Context) (browser.Session, error) {
	env, ok := r.affinity.Associated(ctx)
	if !ok {
		return nil, ErrNotAssociated
	}
	s := env.Session()
	if s == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionReleased, env)
	}
	return s, nil
}

// RunWorker runs fn as a new worker bound to env. The binding is removed when
// fn returns, whatever the outcome.
func (r *Runtime) RunWorker(ctx context.Context, env *environment.TestEnvironment, fn func(ctx context.Context) error) error {
	wctx := NewWorkerContext(ctx)
	if err := r.affinity.Associate(wctx, env); err != nil {
		return err
	}
	defer r.affinity.Deassociate(wctx)

	return fn(wctx)
}

// Close cleans up the registry.
func (r *Runtime) Close() error {
	if r.registry == nil {
		return nil
	}
	return r.registry.CleanUp()
}

var (
	globalRuntime *Runtime
	globalMu      sync.Mutex
)

// Initialize installs rt as the process-wide runtime, replacing any previous one.
func Initialize(rt *Runtime) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalRuntime = rt
}

// Global returns the process-wide runtime.
// Panics if Initialize has not been called.
func Global() *Runtime {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalRuntime == nil {
		panic("harness not initialized: call harness.Initialize first")
	}
	return globalRuntime
}

// IsInitialized returns true if a process-wide runtime is installed.
func IsInitialized() bool {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalRuntime != nil
}

// Reset removes the process-wide runtime and returns it, or nil if none was
// installed. It does not clean the runtime up.
func Reset() *Runtime {
	globalMu.Lock()
	defer globalMu.Unlock()
	rt := globalRuntime
	globalRuntime = nil
	return rt
}

// CurrentSession returns the driver session for the worker in ctx using the
// process-wide runtime. It returns nil when no runtime is installed, the
// worker has no environment, or the session was already released.
func CurrentSession(ctx context.Context) browser.Session {
	if !IsInitialized() {
		return nil
	}
	s, err := Global().Session(ctx)
	if err != nil {
		return nil
	}
	return s
}
