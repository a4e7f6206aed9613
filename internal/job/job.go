package job

import (
	"fmt"
	"time"

	"github.com/aryankumar/rangeminer/internal/executor"
	"github.com/aryankumar/rangeminer/internal/util"
)

// Status describes how a run ended
type Status string

const (
	// StatusCompleted means every task ran to the end before the timeout
	StatusCompleted Status = "completed"

	// StatusTimedOut means the timeout elapsed and running tasks were cancelled
	StatusTimedOut Status = "timed_out"

	// StatusInterrupted means the caller's context ended while waiting
	StatusInterrupted Status = "interrupted"
)

// Job is an inclusive range [Start, End] evaluated with Workers parallel tasks
type Job struct {
	Start   int64 `json:"start" yaml:"start"`
	End     int64 `json:"end" yaml:"end"`
	Workers int   `json:"workers" yaml:"workers"`
}

// New returns a validated Job
func New(start, end int64, workers int) (Job, error) {
	j := Job{Start: start, End: end, Workers: workers}
	if err := j.Validate(); err != nil {
		return Job{}, err
	}
	return j, nil
}

// Validate checks the range bounds and the worker count
func (j Job) Validate() error {
	if j.Workers < 1 {
		return util.NewValidationError("workers", j.Workers, "must be at least 1")
	}
	if j.End < j.Start {
		return util.NewValidationError("end", j.End, fmt.Sprintf("must not be less than start (%d)", j.Start))
	}
	return nil
}

// String returns a short description used in logs
func (j Job) String() string {
	return fmt.Sprintf("[%d..%d] x%d", j.Start, j.End, j.Workers)
}

// Outcome is everything a run produced
type Outcome struct {
	RunID     string          `json:"runId" yaml:"runId"`
	Job       Job             `json:"job" yaml:"job"`
	Predicate string          `json:"predicate" yaml:"predicate"`
	Report    executor.Report `json:"-" yaml:"-"`
	Elapsed   time.Duration   `json:"-" yaml:"-"`
	Timeout   time.Duration   `json:"-" yaml:"-"`
	Status    Status          `json:"status" yaml:"status"`
}

// ElapsedMillis returns the wall-clock duration of the run in milliseconds
func (o Outcome) ElapsedMillis() int64 {
	return o.Elapsed.Milliseconds()
}

// Err describes why the run stopped early, nil for completed runs
func (o Outcome) Err() error {
	switch o.Status {
	case StatusTimedOut:
		return fmt.Errorf("run %s after %s: %w", o.RunID, o.Timeout, util.ErrTimeout)
	case StatusInterrupted:
		return fmt.Errorf("run %s: %w", o.RunID, util.ErrInterrupted)
	default:
		return nil
	}
}

// Partial reports whether the run was cut short or lost any contribution
func (o Outcome) Partial() bool {
	return o.Status != StatusCompleted || !o.Report.Complete()
}
