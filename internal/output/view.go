package output

import (
	"github.com/aryankumar/rangeminer/internal/executor"
	"github.com/aryankumar/rangeminer/internal/job"
)

// OutcomeView is the serialized form of a run, shared by the JSON and YAML formatters
type OutcomeView struct {
	RunID          string     `json:"runId" yaml:"runId"`
	Status         job.Status `json:"status" yaml:"status"`
	Start          int64      `json:"start" yaml:"start"`
	End            int64      `json:"end" yaml:"end"`
	Workers        int        `json:"workers" yaml:"workers"`
	Predicate      string     `json:"predicate" yaml:"predicate"`
	TimeoutMillis  int64      `json:"timeoutMillis" yaml:"timeoutMillis"`
	TotalCount     int        `json:"totalCount" yaml:"totalCount"`
	MaxTaskMillis  int64      `json:"maxTaskMillis" yaml:"maxTaskMillis"`
	MeanTaskMillis int64      `json:"meanTaskMillis" yaml:"meanTaskMillis"`
	DurationMillis int64      `json:"durationMillis" yaml:"durationMillis"`
	Output         string     `json:"output" yaml:"output"`
	Tasks          []TaskView `json:"tasks" yaml:"tasks"`
}

// TaskView is the serialized form of one task's outcome
type TaskView struct {
	ID             executor.TaskID `json:"id" yaml:"id"`
	Range          string          `json:"range" yaml:"range"`
	Count          int             `json:"count" yaml:"count"`
	Partial        bool            `json:"partial,omitempty" yaml:"partial,omitempty"`
	DurationMillis *int64          `json:"durationMillis,omitempty" yaml:"durationMillis,omitempty"`
	Error          string          `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewOutcomeView flattens an outcome for serialization
func NewOutcomeView(o job.Outcome) OutcomeView {
	view := OutcomeView{
		RunID:          o.RunID,
		Status:         o.Status,
		Start:          o.Job.Start,
		End:            o.Job.End,
		Workers:        o.Job.Workers,
		Predicate:      o.Predicate,
		TimeoutMillis:  o.Timeout.Milliseconds(),
		TotalCount:     o.Report.TotalCount,
		MaxTaskMillis:  o.Report.MaxTaskDurationMillis,
		MeanTaskMillis: o.Report.MeanTaskDurationMillis,
		DurationMillis: o.ElapsedMillis(),
		Output:         o.Report.CombinedText,
		Tasks:          make([]TaskView, 0, len(o.Report.Tasks)),
	}

	for _, t := range o.Report.Tasks {
		tv := TaskView{
			ID:      t.ID,
			Range:   t.Name,
			Count:   t.Count,
			Partial: t.Partial,
		}
		if t.Timed {
			ms := t.Duration.Milliseconds()
			tv.DurationMillis = &ms
		}
		if t.Err != nil {
			tv.Error = t.Err.Error()
		}
		view.Tasks = append(view.Tasks, tv)
	}

	return view
}
