package harness

import (
	"context"

	"github.com/google/uuid"
)

// WorkerID identifies one worker (one goroutine running one test). Affinity
// lookups are keyed by the WorkerID carried in the caller's context.
type WorkerID string

type workerKey struct{}

// NewWorkerContext returns a child of parent carrying a fresh WorkerID.
func NewWorkerContext(parent context.Context) context.Context {
	return WithWorkerID(parent, WorkerID(uuid.NewString()))
}

// WithWorkerID returns a child of parent carrying id.
func WithWorkerID(parent context.Context, id WorkerID) context.Context {
	return context.WithValue(parent, workerKey{}, id)
}

// WorkerIDFrom returns the worker identity in ctx, if any.
func WorkerIDFrom(ctx context.Context) (WorkerID, bool) {
	id, ok := ctx.Value(workerKey{}).(WorkerID)
	return id, ok && id != ""
}
