package executor

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TaskOutcome is what the aggregator learned about one handle
type TaskOutcome struct {
	ID       TaskID
	Name     string
	Count    int
	Partial  bool
	Err      error
	Duration time.Duration
	Timed    bool
}

// Dropped reports whether the task never ran because the pool was stopped
func (o TaskOutcome) Dropped() bool {
	return errors.Is(o.Err, ErrNotExecuted)
}

// CountSuccessful returns the number of outcomes that contributed a result
func CountSuccessful(outcomes []TaskOutcome) int {
	count := 0
	for _, o := range outcomes {
		if o.Err == nil {
			count++
		}
	}
	return count
}

// CountFailed returns the number of outcomes without a result
func CountFailed(outcomes []TaskOutcome) int {
	count := 0
	for _, o := range outcomes {
		if o.Err != nil {
			count++
		}
	}
	return count
}

// CountPartial returns the number of tasks that were cancelled mid-range
func CountPartial(outcomes []TaskOutcome) int {
	count := 0
	for _, o := range outcomes {
		if o.Err == nil && o.Partial {
			count++
		}
	}
	return count
}

// FilterFailed returns only the outcomes with errors
func FilterFailed(outcomes []TaskOutcome) []TaskOutcome {
	filtered := make([]TaskOutcome, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Err != nil {
			filtered = append(filtered, o)
		}
	}
	return filtered
}

// GetErrors extracts all errors from outcomes
func GetErrors(outcomes []TaskOutcome) []error {
	errs := make([]error, 0)
	for _, o := range outcomes {
		if o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	return errs
}

// MaxDuration returns the longest measured duration, or 0 when nothing was timed
func MaxDuration(outcomes []TaskOutcome) time.Duration {
	var max time.Duration
	for _, o := range outcomes {
		if o.Timed && o.Duration > max {
			max = o.Duration
		}
	}
	return max
}

// AverageDuration returns the mean of the measured durations, or 0 when nothing was timed
func AverageDuration(outcomes []TaskOutcome) time.Duration {
	var total time.Duration
	n := 0
	for _, o := range outcomes {
		if o.Timed {
			total += o.Duration
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return total / time.Duration(n)
}

// Summary provides a summary of task outcomes
type Summary struct {
	Total       int
	Successful  int
	Partial     int
	Failed      int
	AvgDuration time.Duration
	MaxDuration time.Duration
}

// Summarize creates a summary of the outcomes
func Summarize(outcomes []TaskOutcome) Summary {
	return Summary{
		Total:       len(outcomes),
		Successful:  CountSuccessful(outcomes),
		Partial:     CountPartial(outcomes),
		Failed:      CountFailed(outcomes),
		AvgDuration: AverageDuration(outcomes),
		MaxDuration: MaxDuration(outcomes),
	}
}

// String returns a human-readable string representation of the summary
func (s Summary) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Total: %d, ", s.Total))
	sb.WriteString(fmt.Sprintf("Successful: %d, ", s.Successful))
	sb.WriteString(fmt.Sprintf("Partial: %d, ", s.Partial))
	sb.WriteString(fmt.Sprintf("Failed: %d", s.Failed))

	if s.Total > 0 {
		sb.WriteString(fmt.Sprintf(", Avg: %s", s.AvgDuration.Round(time.Millisecond)))
		sb.WriteString(fmt.Sprintf(", Max: %s", s.MaxDuration.Round(time.Millisecond)))
	}

	return sb.String()
}

// AllSuccessful returns true if every task contributed a complete result
func AllSuccessful(outcomes []TaskOutcome) bool {
	for _, o := range outcomes {
		if o.Err != nil || o.Partial {
			return false
		}
	}
	return true
}
