package executor

import (
	"context"
	"fmt"
	"sync"
)

// TaskID identifies a submitted task. IDs increase in submission order.
type TaskID int64

// Handle is the asynchronous reference to a submitted task's result
type Handle struct {
	id   TaskID
	name string

	once   sync.Once
	done   chan struct{}
	result TaskResult
	err    error
}

func newHandle(id TaskID, name string) *Handle {
	return &Handle{
		id:   id,
		name: name,
		done: make(chan struct{}),
	}
}

// ID returns the task's identifier
func (h *Handle) ID() TaskID {
	return h.id
}

// Name returns the task description given at submission
func (h *Handle) Name() string {
	return h.name
}

// Done is closed once the result is available
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// IsReady reports whether Get would return without blocking
func (h *Handle) IsReady() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Get returns the task's result, blocking until it is available or ctx is done.
// A result that is already available is returned even if ctx is done.
func (h *Handle) Get(ctx context.Context) (TaskResult, error) {
	select {
	case <-h.done:
		return h.result, h.err
	default:
	}

	select {
	case <-h.done:
		return h.result, h.err
	case <-ctx.Done():
		return TaskResult{}, fmt.Errorf("task %d not finished: %w", h.id, ctx.Err())
	}
}

// resolve stores the outcome; only the first call has any effect
func (h *Handle) resolve(result TaskResult, err error) {
	h.once.Do(func() {
		h.result = result
		h.err = err
		close(h.done)
	})
}
