package harness

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/senbot/pkg/browser"
)

// resetGlobal gives the test a clean process-wide runtime and restores the
// previous one afterwards.
func resetGlobal(t *testing.T) {
	t.Helper()
	prev := Reset()
	t.Cleanup(func() {
		Reset()
		if prev != nil {
			Initialize(prev)
		}
	})
}

func newTestRuntime(t *testing.T, target string) (*Runtime, *fakeDriver) {
	t.Helper()
	r, driver := newTestRegistry(t, "", false, target)
	return NewRuntime(r, nil), driver
}

func TestCurrentSession_BeforeInitialize(t *testing.T) {
	resetGlobal(t)

	assert.False(t, IsInitialized())
	assert.Nil(t, CurrentSession(context.Background()))
	assert.Nil(t, CurrentSession(NewWorkerContext(context.Background())))
	assert.Panics(t, func() { Global() })
}

func TestCurrentSession_UnassociatedWorker(t *testing.T) {
	resetGlobal(t)
	rt, _ := newTestRuntime(t, "FF,LATEST,ANY")
	Initialize(rt)

	assert.True(t, IsInitialized())
	assert.Same(t, rt, Global())
	assert.Nil(t, CurrentSession(NewWorkerContext(context.Background())))
}

func TestCurrentSession_AssociatedWorker(t *testing.T) {
	resetGlobal(t)
	rt, driver := newTestRuntime(t, "FF,LATEST,ANY;CH,LATEST,ANY")
	Initialize(rt)

	env, ok := rt.Registry().Environment(1)
	require.True(t, ok)

	ctx := NewWorkerContext(context.Background())
	require.NoError(t, rt.Affinity().Associate(ctx, env))

	session := CurrentSession(ctx)
	require.NotNil(t, session)
	assert.Same(t, driver.opened()[1], session)
}

func TestRuntime_SessionErrors(t *testing.T) {
	rt, _ := newTestRuntime(t, "FF,LATEST,ANY")

	_, err := rt.Session(NewWorkerContext(context.Background()))
	assert.ErrorIs(t, err, ErrNotAssociated)

	env, _ := rt.Registry().Environment(0)
	ctx := NewWorkerContext(context.Background())
	require.NoError(t, rt.Affinity().Associate(ctx, env))

	require.NoError(t, rt.Close())

	_, err = rt.Session(ctx)
	assert.ErrorIs(t, err, ErrSessionReleased)
}

func TestRuntime_RunWorker(t *testing.T) {
	rt, driver := newTestRuntime(t, "FF,LATEST,ANY;CH,LATEST,ANY")

	var wg sync.WaitGroup
	seen := make([]browser.Session, 2)
	for i, env := range rt.Registry().Environments() {
		env := env
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := rt.RunWorker(context.Background(), env, func(ctx context.Context) error {
				s, err := rt.Session(ctx)
				seen[i] = s
				return err
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	opened := driver.opened()
	assert.Same(t, opened[0], seen[0])
	assert.Same(t, opened[1], seen[1])
	assert.Equal(t, 0, rt.Affinity().Len())
}

func TestRuntime_RunWorkerDeassociatesOnError(t *testing.T) {
	rt, _ := newTestRuntime(t, "FF,LATEST,ANY")
	env, _ := rt.Registry().Environment(0)

	boom := errors.New("step failed")
	err := rt.RunWorker(context.Background(), env, func(ctx context.Context) error {
		assert.Equal(t, 1, rt.Affinity().Len())
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, rt.Affinity().Len())
}

func TestRuntime_RunWorkerNilEnvironment(t *testing.T) {
	rt, _ := newTestRuntime(t, "FF,LATEST,ANY")

	called := false
	err := rt.RunWorker(context.Background(), nil, func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrNilEnvironment)
	assert.False(t, called)
}

func TestRuntime_CloseWithoutRegistry(t *testing.T) {
	rt := NewRuntime(nil, NewAffinityMap())
	assert.NoError(t, rt.Close())
}

func TestConfigError(t *testing.T) {
	err := configError("target", ErrTargetRequired)

	assert.ErrorIs(t, err, ErrConfiguration)
	assert.ErrorIs(t, err, ErrTargetRequired)
	assert.False(t, errors.Is(err, ErrHubRequired))
	assert.Equal(t, "invalid target: target environment descriptor is required", err.Error())
}
