package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/aryankumar/rangeminer/internal/executor"
	"github.com/aryankumar/rangeminer/internal/job"
)

// TableFormatter formats output as borderless tables
type TableFormatter struct {
	options *Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(opts *Options) *TableFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &TableFormatter{
		options: opts,
	}
}

// Format outputs a single data item as a table
func (f *TableFormatter) Format(w io.Writer, data interface{}) error {
	table := f.createTable(w)

	switch v := data.(type) {
	case map[string]interface{}:
		return f.formatMap(table, v)
	case []map[string]interface{}:
		return f.formatMapSlice(table, v)
	default:
		_, err := fmt.Fprintln(w, v)
		return err
	}
}

// FormatOutcome outputs the run as a field/value table. Wide mode adds one
// row per task.
func (f *TableFormatter) FormatOutcome(w io.Writer, outcome job.Outcome) error {
	colors := NewColorScheme(w, f.options.NoColor)

	table := f.createTable(w)
	f.setHeader(table, []string{"FIELD", "VALUE"}, colors)

	report := outcome.Report
	timeout := "none"
	if outcome.Timeout > 0 {
		timeout = outcome.Timeout.String()
	}

	rows := [][]string{
		{"Run", colors.Range("%s", outcome.RunID)},
		{"Status", colors.RunStatusColor(outcome.Status)("%s", outcome.Status)},
		{"Range", fmt.Sprintf("%d..%d", outcome.Job.Start, outcome.Job.End)},
		{"Workers", fmt.Sprintf("%d", outcome.Job.Workers)},
		{"Predicate", outcome.Predicate},
		{"Timeout", timeout},
		{"Matches", fmt.Sprintf("%d", report.TotalCount)},
		{"Max task", colors.Duration("%dms", report.MaxTaskDurationMillis)},
		{"Mean task", colors.Duration("%dms", report.MeanTaskDurationMillis)},
		{"Duration", colors.Duration("%dms", outcome.ElapsedMillis())},
	}
	table.AppendBulk(rows)
	table.Render()

	if f.options.Wide && len(report.Tasks) > 0 {
		fmt.Fprintln(w, "")
		tasks := f.createTable(w)
		f.setHeader(tasks, []string{"TASK", "RANGE", "MATCHES", "STATUS", "DURATION", "ERROR"}, colors)
		for _, t := range report.Tasks {
			tasks.Append(f.formatTaskRow(t, colors))
		}
		tasks.Render()
	}

	f.printSummary(w, report.Tasks, colors)
	return nil
}

// formatTaskRow formats a single task outcome as a table row
func (f *TableFormatter) formatTaskRow(t executor.TaskOutcome, colors *ColorScheme) []string {
	status := "Success"
	switch {
	case t.Dropped():
		status = "Not run"
	case t.Err != nil:
		status = "Failed"
	case t.Partial:
		status = "Partial"
	}
	if t.Partial && t.Err == nil {
		status = colors.Warning("%s", status)
	} else {
		status = colors.StatusColor(t.Err != nil)("%s", status)
	}

	duration := "-"
	if t.Timed {
		duration = colors.Duration("%dms", t.Duration.Milliseconds())
	}

	errText := ""
	if t.Err != nil {
		errText = t.Err.Error()
		if len(errText) > 50 {
			errText = errText[:47] + "..."
		}
	}

	return []string{
		fmt.Sprintf("%d", t.ID),
		colors.Range("%s", strings.TrimPrefix(t.Name, "range ")),
		fmt.Sprintf("%d", t.Count),
		status,
		duration,
		errText,
	}
}

// formatMap formats a map as a two-column table, sorted by key
func (f *TableFormatter) formatMap(table *tablewriter.Table, data map[string]interface{}) error {
	if !f.options.NoHeaders {
		table.SetHeader([]string{"KEY", "VALUE"})
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		table.Append([]string{k, fmt.Sprintf("%v", data[k])})
	}

	table.Render()
	return nil
}

// formatMapSlice formats a slice of maps as a table with sorted columns
func (f *TableFormatter) formatMapSlice(table *tablewriter.Table, data []map[string]interface{}) error {
	if len(data) == 0 {
		return nil
	}

	keys := make([]string, 0, len(data[0]))
	for k := range data[0] {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if !f.options.NoHeaders {
		headers := make([]string, len(keys))
		for i, k := range keys {
			headers[i] = strings.ToUpper(k)
		}
		table.SetHeader(headers)
	}

	for _, item := range data {
		row := make([]string, 0, len(keys))
		for _, k := range keys {
			row = append(row, fmt.Sprintf("%v", item[k]))
		}
		table.Append(row)
	}

	table.Render()
	return nil
}

func (f *TableFormatter) setHeader(table *tablewriter.Table, headers []string, colors *ColorScheme) {
	if f.options.NoHeaders {
		return
	}
	if colors.Disabled {
		table.SetHeader(headers)
		return
	}

	colored := make([]string, len(headers))
	for i, h := range headers {
		colored[i] = colors.Header("%s", h)
	}
	table.SetHeader(colored)
}

// createTable creates a new table with borderless, tab-separated configuration
func (f *TableFormatter) createTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	return table
}

// printSummary prints a one-line summary of the task outcomes
func (f *TableFormatter) printSummary(w io.Writer, tasks []executor.TaskOutcome, colors *ColorScheme) {
	summary := executor.Summarize(tasks)

	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Summary: ")

	successText := colors.Success("%d successful", summary.Successful)

	partialText := fmt.Sprintf("%d partial", summary.Partial)
	if summary.Partial > 0 {
		partialText = colors.Warning("%s", partialText)
	}

	failedText := fmt.Sprintf("%d failed", summary.Failed)
	if summary.Failed > 0 {
		failedText = colors.Error("%s", failedText)
	}

	durationText := colors.Duration("avg=%s", summary.AvgDuration.Round(1000))

	fmt.Fprintf(w, "%s, %s, %s, %s\n", successText, partialText, failedText, durationText)
}
