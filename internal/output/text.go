package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/aryankumar/rangeminer/internal/executor"
	"github.com/aryankumar/rangeminer/internal/job"
)

// TextFormatter writes the line-oriented report
type TextFormatter struct {
	options *Options
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(opts *Options) *TextFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &TextFormatter{
		options: opts,
	}
}

// Format writes data with its default formatting
func (f *TextFormatter) Format(w io.Writer, data interface{}) error {
	_, err := fmt.Fprintln(w, data)
	return err
}

// FormatOutcome writes the header, the matches and the statistics of a run.
// Partial runs get a notice line before the matches.
func (f *TextFormatter) FormatOutcome(w io.Writer, outcome job.Outcome) error {
	colors := NewColorScheme(w, f.options.NoColor)
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "Mining range")
	fmt.Fprintf(bw, "range to mine:  %d to %d\n", outcome.Job.Start, outcome.Job.End)
	if outcome.Timeout > 0 {
		fmt.Fprintf(bw, "timeout: %s\n", outcome.Timeout)
	} else {
		fmt.Fprintln(bw, "timeout: none")
	}

	if notice := statusNotice(outcome.Status); notice != "" {
		fmt.Fprintln(bw, colors.Warning("%s", notice))
	}

	fmt.Fprintln(bw, "Palindromes:")
	fmt.Fprint(bw, outcome.Report.CombinedText)
	fmt.Fprintf(bw, "Performance (millis): max: %d, mean: %d\n",
		outcome.Report.MaxTaskDurationMillis, outcome.Report.MeanTaskDurationMillis)
	fmt.Fprintf(bw, "Palindromes computed: %d\n", outcome.Report.TotalCount)
	fmt.Fprintf(bw, "Tasks run: %d\n", outcome.Job.Workers)
	fmt.Fprintf(bw, "Duration: %d millis.\n", outcome.ElapsedMillis())

	if f.options.Wide {
		fmt.Fprintf(bw, "Run: %s\n", colors.Range("%s", outcome.RunID))
		fmt.Fprintf(bw, "Tasks: %s\n", outcome.Report.Summary())
		for _, t := range executor.FilterFailed(outcome.Report.Tasks) {
			fmt.Fprintf(bw, "  %s: %s\n", t.Name, colors.Error("%v", t.Err))
		}
	}

	return bw.Flush()
}

func statusNotice(status job.Status) string {
	switch status {
	case job.StatusTimedOut:
		return "Execution timed out, printing partial results."
	case job.StatusInterrupted:
		return "Run interrupted, printing partial results."
	default:
		return ""
	}
}
