package harness

import (
	"context"
	"sync"

	"github.com/entrhq/senbot/pkg/environment"
	"github.com/entrhq/senbot/pkg/logging"
)

// AffinityMap binds each worker to the test environment it is running on.
// Bindings do not own the environment; the Registry does. Entries live until
// Deassociate and are never expired.
type AffinityMap struct {
	mu       sync.Mutex
	bindings map[WorkerID]*environment.TestEnvironment
	logger   *logging.Logger
}

// NewAffinityMap creates an empty map.
func NewAffinityMap(opts ...Option) *AffinityMap {
	o := buildOptions(opts)
	return &AffinityMap{
		bindings: make(map[WorkerID]*environment.TestEnvironment),
		logger:   o.logger,
	}
}

// Associate binds the worker in ctx to env, replacing any previous binding.
func (m *AffinityMap) Associate(ctx context.Context, env *environment.TestEnvironment) error {
	if env == nil {
		return ErrNilEnvironment
	}
	id, ok := WorkerIDFrom(ctx)
	if !ok {
		return ErrNoWorker
	}

	m.mu.Lock()
	m.bindings[id] = env
	m.mu.Unlock()

	m.logger.Debugf("associated %s with worker %s", env, id)
	return nil
}

// Deassociate removes and returns the binding of the worker in ctx. It
// returns nil when the worker has no binding.
func (m *AffinityMap) Deassociate(ctx context.Context) *environment.TestEnvironment {
	id, ok := WorkerIDFrom(ctx)
	if !ok {
		return nil
	}

	m.mu.Lock()
	env, bound := m.bindings[id]
	delete(m.bindings, id)
	m.mu.Unlock()

	if !bound {
		m.logger.Debugf("worker %s had no environment to deassociate", id)
		return nil
	}
	m.logger.Debugf("deassociated %s from worker %s", env, id)
	return env
}

// Associated returns the environment bound to the worker in ctx.
func (m *AffinityMap) Associated(ctx context.Context) (*environment.TestEnvironment, bool) {
	id, ok := WorkerIDFrom(ctx)
	if !ok {
		return nil, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	env, bound := m.bindings[id]
	return env, bound
}

// Len returns the number of bound workers.
func (m *AffinityMap) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bindings)
}
