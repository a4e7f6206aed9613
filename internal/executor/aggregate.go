package executor

import (
	"context"
	"log/slog"
	"strings"

	"github.com/aryankumar/rangeminer/internal/util"
)

// Report is the combined result of one run
type Report struct {
	// TotalCount is the sum of the counts of every task that returned a result
	TotalCount int

	// MaxTaskDurationMillis and MeanTaskDurationMillis come from the recorder
	// and cover only tasks that finished executing.
	MaxTaskDurationMillis  int64
	MeanTaskDurationMillis int64

	// CombinedText is every task's text concatenated in submission order
	CombinedText string

	// Tasks holds one outcome per handle, in submission order
	Tasks []TaskOutcome

	Stats Stats
}

// Summary summarizes the per-task outcomes
func (r Report) Summary() Summary {
	return Summarize(r.Tasks)
}

// Complete reports whether every task contributed its full result
func (r Report) Complete() bool {
	return AllSuccessful(r.Tasks)
}

// Errors returns the skipped contributions as a single error, or nil
func (r Report) Errors() error {
	return util.CombineErrors(GetErrors(r.Tasks)...)
}

// Aggregate reads the handles in order and folds their results into a Report.
//
// Reading blocks on unfinished handles until ctx is done; from then on only
// handles that are already resolved contribute. A handle that yields an error
// is logged and skipped. Aggregate never fails: missing contributions only
// make the report smaller.
func Aggregate(ctx context.Context, handles []*Handle, recorder *Recorder, logger *slog.Logger) Report {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = NewRecorder()
	}

	report := Report{Tasks: make([]TaskOutcome, 0, len(handles))}
	var text strings.Builder

	for _, h := range handles {
		result, err := h.Get(ctx)

		outcome := TaskOutcome{ID: h.ID(), Name: h.Name(), Err: err}
		outcome.Duration, outcome.Timed = recorder.Duration(h.ID())

		if err != nil {
			logger.Warn("unable to retrieve task result, continuing with partial results",
				"task_id", h.ID(),
				"task", h.Name(),
				"error", err)
			report.Tasks = append(report.Tasks, outcome)
			continue
		}

		outcome.Count = result.Count
		outcome.Partial = result.Cancelled
		report.Tasks = append(report.Tasks, outcome)

		report.TotalCount += result.Count
		text.WriteString(result.Text)
	}

	report.CombinedText = text.String()
	report.Stats = recorder.Snapshot()
	report.MaxTaskDurationMillis = report.Stats.MaxMillis()
	report.MeanTaskDurationMillis = report.Stats.MeanMillis()

	summary := report.Summary()
	logger.Debug("results aggregated",
		"tasks", summary.Total,
		"successful", summary.Successful,
		"partial", summary.Partial,
		"failed", summary.Failed,
		"total_count", report.TotalCount)

	return report
}
