package job

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aryankumar/rangeminer/internal/executor"
	"github.com/aryankumar/rangeminer/internal/partition"
	"github.com/aryankumar/rangeminer/internal/predicate"
	"github.com/aryankumar/rangeminer/internal/util"
)

// Options tune a run. The zero value waits without limit and logs to slog.Default().
type Options struct {
	// Timeout bounds how long Run waits for the tasks; zero or less means no limit
	Timeout time.Duration

	Logger *slog.Logger

	// TaskHook is notified after every task finishes
	TaskHook executor.TaskHook

	// Clock replaces time.Now for task timing and elapsed time
	Clock func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}

// Run partitions the job, evaluates pred over every sub-range on a pool of
// j.Workers workers and aggregates whatever the tasks produced.
//
// A timeout cancels the running tasks and yields their partial results.
// When ctx ends first, only tasks already finished contribute. Neither case
// is an error: the returned Outcome's Status says how the run ended. The only
// errors are invalid jobs and predicates.
func Run(ctx context.Context, j Job, pred predicate.Predicate, opts Options) (Outcome, error) {
	if err := j.Validate(); err != nil {
		return Outcome{}, err
	}
	if !pred.Valid() {
		return Outcome{}, fmt.Errorf("predicate %q: %w", pred.Name, executor.ErrInvalidPredicate)
	}
	opts = opts.withDefaults()

	runID := uuid.NewString()
	logger := opts.Logger.With("run_id", runID)
	began := opts.Clock()

	ranges, err := partition.Split(j.Start, j.End, j.Workers)
	if err != nil {
		return Outcome{}, err
	}

	recorder := executor.NewRecorder(executor.WithClock(opts.Clock))
	var poolOpts []executor.PoolOption
	if opts.TaskHook != nil {
		poolOpts = append(poolOpts, executor.WithTaskHook(opts.TaskHook))
	}
	pool := executor.NewPool(j.Workers, recorder, logger, poolOpts...)
	defer func() {
		if err := pool.Close(context.Background()); err != nil {
			logger.Error("failed to release workers", "error", err)
		}
	}()

	logger.Info("starting run",
		"start", j.Start,
		"end", j.End,
		"workers", j.Workers,
		"active_ranges", len(partition.NonEmpty(ranges)),
		"predicate", pred.Name,
		"timeout", opts.Timeout)

	handles := make([]*executor.Handle, 0, len(ranges))
	for _, r := range ranges {
		h, err := pool.Submit(executor.Task{Range: r, Predicate: pred})
		if err != nil {
			return Outcome{}, util.WrapErrorf(err, "failed to submit %s", r)
		}
		handles = append(handles, h)
	}
	pool.Shutdown()

	status := StatusCompleted
	collectCtx := ctx

	finished, err := pool.AwaitTermination(ctx, opts.Timeout)
	switch {
	case err != nil:
		// Tasks keep running until the deferred Close; only finished ones are read.
		status = StatusInterrupted
		logger.Warn("run interrupted, collecting available results", "error", err)
	case !finished:
		status = StatusTimedOut
		dropped := pool.ShutdownNow()
		logger.Warn("execution timed out, collecting partial results",
			"timeout", opts.Timeout,
			"dropped_tasks", dropped)
		collectCtx = context.Background()
	}

	report := executor.Aggregate(collectCtx, handles, recorder, logger)
	elapsed := opts.Clock().Sub(began)

	if errs := report.Errors(); errs != nil {
		logger.Debug("skipped task contributions", "error", errs)
	}
	logger.Info("run finished",
		"status", status,
		"matches", report.TotalCount,
		"duration", elapsed)

	return Outcome{
		RunID:     runID,
		Job:       j,
		Predicate: pred.Name,
		Report:    report,
		Elapsed:   elapsed,
		Timeout:   opts.Timeout,
		Status:    status,
	}, nil
}
