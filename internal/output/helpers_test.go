package output

import (
	"errors"
	"time"

	"github.com/aryankumar/rangeminer/internal/executor"
	"github.com/aryankumar/rangeminer/internal/job"
)

const sampleText = "\t1\tbinary: 1\n\t3\tbinary: 11\n\t5\tbinary: 101\n\t7\tbinary: 111\n\t9\tbinary: 1001\n"

func sampleOutcome() job.Outcome {
	return job.Outcome{
		RunID:     "0b9d7a3e-5f21-4c43-9a57-2d0f3c1e8b11",
		Job:       job.Job{Start: 1, End: 20, Workers: 4},
		Predicate: "decimal-binary-palindrome",
		Elapsed:   12 * time.Millisecond,
		Timeout:   time.Minute,
		Status:    job.StatusCompleted,
		Report: executor.Report{
			TotalCount:             5,
			MaxTaskDurationMillis:  3,
			MeanTaskDurationMillis: 1,
			CombinedText:           sampleText,
			Tasks: []executor.TaskOutcome{
				{ID: 1, Name: "range #0[1..5]", Count: 3, Duration: 3 * time.Millisecond, Timed: true},
				{ID: 2, Name: "range #1[6..10]", Count: 2, Duration: time.Millisecond, Timed: true},
				{ID: 3, Name: "range #2[11..15]", Count: 0, Duration: 0, Timed: true},
				{ID: 4, Name: "range #3[16..20]", Count: 0, Duration: 0, Timed: true},
			},
		},
	}
}

func partialOutcome() job.Outcome {
	o := sampleOutcome()
	o.Status = job.StatusTimedOut
	o.Report.TotalCount = 3
	o.Report.CombinedText = "\t1\tbinary: 1\n\t3\tbinary: 11\n\t5\tbinary: 101\n"
	o.Report.Tasks = []executor.TaskOutcome{
		{ID: 1, Name: "range #0[1..5]", Count: 3, Duration: 3 * time.Millisecond, Timed: true},
		{ID: 2, Name: "range #1[6..10]", Partial: true, Duration: time.Millisecond, Timed: true},
		{ID: 3, Name: "range #2[11..15]", Err: &executor.TaskError{ID: 3, Err: executor.ErrNotExecuted}},
		{ID: 4, Name: "range #3[16..20]", Err: errors.New("boom")},
	}
	return o
}
