package executor

import (
	"bytes"
	"context"
	"errors"
	"strconv"

	"github.com/aryankumar/rangeminer/internal/partition"
	"github.com/aryankumar/rangeminer/internal/predicate"
)

// ErrInvalidPredicate is returned by a task whose predicate has nothing to evaluate
var ErrInvalidPredicate = errors.New("predicate has neither a primary test nor a transform")

// Runner is a unit of work the pool can execute.
// Implementations must observe ctx cancellation and return promptly with
// whatever partial result they have.
type Runner interface {
	Run(ctx context.Context) (TaskResult, error)
}

// RunnerFunc adapts an ordinary function to the Runner interface
type RunnerFunc func(ctx context.Context) (TaskResult, error)

// Run calls f(ctx)
func (f RunnerFunc) Run(ctx context.Context) (TaskResult, error) {
	return f(ctx)
}

// TaskResult is the outcome of one task over one sub-range
type TaskResult struct {
	// Count is the number of values that satisfied the predicate
	Count int

	// Text holds one line per match, in ascending value order
	Text string

	// Cancelled is true when the task stopped early; Count and Text are then partial
	Cancelled bool
}

// Task evaluates a predicate over every value of one sub-range
type Task struct {
	Range     partition.SubRange
	Predicate predicate.Predicate
}

// String identifies the task in logs
func (t Task) String() string {
	return "range " + t.Range.String()
}

// Run walks Range in ascending order. Cancellation is checked before every
// value; once observed, the matches found so far are returned without error.
func (t Task) Run(ctx context.Context) (TaskResult, error) {
	if !t.Predicate.Valid() {
		return TaskResult{}, ErrInvalidPredicate
	}
	if t.Range.Empty() {
		return TaskResult{}, nil
	}

	done := ctx.Done()
	var out Output

	for v := t.Range.Start; ; v++ {
		select {
		case <-done:
			return out.result(true), nil
		default:
		}

		if derived, ok := t.Predicate.Eval(v); ok {
			out.AppendMatch(v, t.Predicate.Label, derived)
		}

		// Compare before incrementing so a range ending at MaxInt64 terminates.
		if v == t.Range.End {
			break
		}
	}

	return out.result(false), nil
}

// Output accumulates the matches of a single task.
// It is owned by one task and is not safe for concurrent use.
type Output struct {
	buf   bytes.Buffer
	count int
}

// AppendMatch records a match as "\t<value>\t<label>: <derived>\n".
// The label part is omitted when label is empty.
func (o *Output) AppendMatch(v int64, label, derived string) {
	o.count++
	o.buf.WriteByte('\t')
	o.buf.WriteString(strconv.FormatInt(v, 10))
	if label != "" {
		o.buf.WriteByte('\t')
		o.buf.WriteString(label)
		o.buf.WriteString(": ")
		o.buf.WriteString(derived)
	}
	o.buf.WriteByte('\n')
}

// Count returns the number of matches appended
func (o *Output) Count() int {
	return o.count
}

// String returns the accumulated text
func (o *Output) String() string {
	return o.buf.String()
}

func (o *Output) result(cancelled bool) TaskResult {
	return TaskResult{Count: o.count, Text: o.buf.String(), Cancelled: cancelled}
}
