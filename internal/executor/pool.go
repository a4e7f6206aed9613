package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aryankumar/rangeminer/internal/util"
)

var (
	// ErrNotExecuted is stored in the handle of a queued task dropped by ShutdownNow
	ErrNotExecuted = errors.New("task not executed")

	// ErrTaskPanicked wraps a panic recovered from a running task
	ErrTaskPanicked = errors.New("task panicked")
)

// TaskError is the error stored in a handle when its task fails
type TaskError struct {
	ID   TaskID
	Name string
	Err  error
}

// Error implements the error interface
func (e *TaskError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("task %d (%s): %v", e.ID, e.Name, e.Err)
	}
	return fmt.Sprintf("task %d: %v", e.ID, e.Err)
}

// Unwrap returns the wrapped error for errors.Is/As compatibility
func (e *TaskError) Unwrap() error {
	return e.Err
}

// TaskHook is called after every task finishes, from the worker goroutine
type TaskHook func(id TaskID, err error)

// PoolOption configures a Pool
type PoolOption func(*Pool)

// WithTaskHook registers a callback notified after each task completes, including failures
func WithTaskHook(hook TaskHook) PoolOption {
	return func(p *Pool) {
		p.hook = hook
	}
}

// Pool runs submitted tasks on a fixed number of worker goroutines draining a FIFO queue.
// Each execution is timed through the pool's Recorder.
type Pool struct {
	// workers is the number of concurrent workers
	workers int

	recorder *Recorder
	logger   *slog.Logger
	hook     TaskHook

	// mu protects queue, closed and nextID
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []queuedTask
	closed bool
	nextID TaskID

	// shutdown indicates the pool no longer accepts submissions
	shutdown atomic.Bool

	// stopped indicates ShutdownNow was called
	stopped atomic.Bool

	// ctx is shared by every task and cancelled by ShutdownNow
	ctx    context.Context
	cancel context.CancelFunc

	group     errgroup.Group
	done      chan struct{}
	closeOnce sync.Once
	active    atomic.Int32
}

type queuedTask struct {
	runner Runner
	handle *Handle
}

// NewPool starts a pool with the specified number of workers.
// workers must be > 0, otherwise it defaults to 1. A nil recorder or logger
// is replaced with a fresh recorder and slog.Default().
func NewPool(workers int, recorder *Recorder, logger *slog.Logger, opts ...PoolOption) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if recorder == nil {
		recorder = NewRecorder()
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		workers:  workers,
		recorder: recorder,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	p.cond = sync.NewCond(&p.mu)

	for _, opt := range opts {
		opt(p)
	}

	p.logger.Debug("starting workers", "count", workers)
	for i := 0; i < workers; i++ {
		workerID := i
		p.group.Go(func() error {
			p.worker(workerID)
			return nil
		})
	}

	go func() {
		_ = p.group.Wait()
		close(p.done)
	}()

	return p
}

// Submit enqueues a task and returns its handle without blocking.
// Returns an error wrapping util.ErrShutdown once Shutdown or ShutdownNow was called.
func (p *Pool) Submit(r Runner) (*Handle, error) {
	if r == nil {
		return nil, fmt.Errorf("task must not be nil")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, fmt.Errorf("pool is shutting down, cannot submit new tasks: %w", util.ErrShutdown)
	}

	p.nextID++
	h := newHandle(p.nextID, describe(r))
	p.queue = append(p.queue, queuedTask{runner: r, handle: h})
	p.cond.Signal()

	p.logger.Debug("task submitted", "task_id", h.id, "task", h.name, "queued", len(p.queue))
	return h, nil
}

// Shutdown stops accepting new tasks. Queued and running tasks still complete.
// Calling it more than once has no further effect.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	p.shutdown.Store(true)
	p.cond.Broadcast()

	p.logger.Debug("pool shutdown requested", "queued", len(p.queue))
}

// ShutdownNow cancels every running task, drops the tasks still queued and
// returns how many were dropped. Running tasks stop at their next
// cancellation check; their handles receive partial results.
func (p *Pool) ShutdownNow() int {
	if !p.stopped.CompareAndSwap(false, true) {
		return 0
	}

	p.cancel()

	p.mu.Lock()
	dropped := p.queue
	p.queue = nil
	p.closed = true
	p.shutdown.Store(true)
	p.cond.Broadcast()
	p.mu.Unlock()

	for _, qt := range dropped {
		qt.handle.resolve(TaskResult{}, &TaskError{ID: qt.handle.id, Name: qt.handle.name, Err: ErrNotExecuted})
	}

	active := p.active.Load()
	level := slog.LevelDebug
	if len(dropped) > 0 || active > 0 {
		level = slog.LevelInfo
	}
	p.logger.Log(context.Background(), level, "pool stopped", "dropped_tasks", len(dropped), "active_tasks", active)
	return len(dropped)
}

// AwaitTermination blocks until every worker has exited after Shutdown, or
// until timeout elapses, or ctx is done. It reports whether the workers
// terminated. A timeout of zero or less waits without limit.
// When ctx ends first the returned error wraps util.ErrInterrupted.
func (p *Pool) AwaitTermination(ctx context.Context, timeout time.Duration) (bool, error) {
	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case <-p.done:
		return true, nil
	case <-expired:
		return false, nil
	case <-ctx.Done():
		return false, fmt.Errorf("%w: %w", util.ErrInterrupted, ctx.Err())
	}
}

// Close stops the pool and waits for its workers to exit.
// The first call does the work; later calls wait on the same completion.
func (p *Pool) Close(ctx context.Context) error {
	p.closeOnce.Do(func() {
		p.ShutdownNow()
	})

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for workers to exit: %w", ctx.Err())
	}
}

// IsShutdown returns true once the pool stopped accepting tasks
func (p *Pool) IsShutdown() bool {
	return p.shutdown.Load()
}

// IsTerminated returns true once every worker has exited
func (p *Pool) IsTerminated() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// WorkerCount returns the number of workers in the pool
func (p *Pool) WorkerCount() int {
	return p.workers
}

// TaskCount returns the number of tasks waiting in the queue
func (p *Pool) TaskCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Submitted returns the number of tasks accepted so far
func (p *Pool) Submitted() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return int(p.nextID)
}

// Recorder returns the statistics recorder instrumenting this pool
func (p *Pool) Recorder() *Recorder {
	return p.recorder
}

// worker is the worker goroutine that processes tasks from the queue
func (p *Pool) worker(workerID int) {
	p.logger.Debug("worker started", "worker_id", workerID)

	for {
		qt, ok := p.take()
		if !ok {
			p.logger.Debug("worker finished (no more tasks)", "worker_id", workerID)
			return
		}

		if p.ctx.Err() != nil {
			qt.handle.resolve(TaskResult{}, &TaskError{ID: qt.handle.id, Name: qt.handle.name, Err: ErrNotExecuted})
			continue
		}

		p.execute(workerID, qt)
	}
}

// take pops the oldest queued task, waiting while the queue is empty and open
func (p *Pool) take() (queuedTask, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.queue) == 0 && !p.closed {
		p.cond.Wait()
	}
	if len(p.queue) == 0 {
		return queuedTask{}, false
	}

	qt := p.queue[0]
	p.queue[0] = queuedTask{}
	p.queue = p.queue[1:]
	return qt, true
}

// execute runs one task between the recorder's Start and End calls
func (p *Pool) execute(workerID int, qt queuedTask) {
	id := qt.handle.id
	p.active.Add(1)
	defer p.active.Add(-1)

	p.logger.Debug("executing task", "worker_id", workerID, "task_id", id, "task", qt.handle.name)

	result, err := p.runInstrumented(id, qt.runner)
	if err != nil {
		err = &TaskError{ID: id, Name: qt.handle.name, Err: err}
	}
	qt.handle.resolve(result, err)

	duration, _ := p.recorder.Duration(id)
	if err != nil {
		p.logger.Warn("task failed",
			"worker_id", workerID,
			"task_id", id,
			"error", err,
			"duration", duration)
	} else {
		p.logger.Debug("task completed",
			"worker_id", workerID,
			"task_id", id,
			"matches", result.Count,
			"cancelled", result.Cancelled,
			"duration", duration)
	}

	if p.hook != nil {
		p.hook(id, err)
	}
}

func (p *Pool) runInstrumented(id TaskID, r Runner) (result TaskResult, err error) {
	p.recorder.Start(id)
	defer func() {
		if v := recover(); v != nil {
			result = TaskResult{}
			err = fmt.Errorf("%w: %v", ErrTaskPanicked, v)
		}
		p.recorder.End(id)
	}()

	return r.Run(p.ctx)
}

func describe(r Runner) string {
	if s, ok := r.(fmt.Stringer); ok {
		return s.String()
	}
	return ""
}
