// Package output provides formatters for displaying rangeminer results.
//
// The package supports four output formats (text, table, JSON, YAML) behind a
// single Formatter interface that renders both arbitrary data and the
// outcome of a run.
//
// # Basic Usage
//
//	formatter := output.NewFormatter(output.FormatText)
//	formatter.FormatOutcome(os.Stdout, outcome)
//
// # Options
//
// Formatters can be configured with functional options:
//
//	formatter := output.NewFormatter(
//	    output.FormatTable,
//	    output.WithNoColor(true),
//	    output.WithWide(true),
//	)
//
// # Formatters
//
// Text Formatter:
//   - The classic report: header, one line per match, statistics
//   - A notice line when the run timed out or was interrupted
//
// Table Formatter:
//   - Borderless field/value table with tab-separated columns
//   - Wide mode adds one row per task with its range, count and duration
//   - Summary line with successful, partial and failed task counts
//
// JSON and YAML Formatters:
//   - Serialize an OutcomeView, the flattened form of a run
//   - Suitable for scripting and automation
//
// # Color Support
//
// Colors are automatically enabled for TTY outputs and can be disabled with:
//   - WithNoColor(true) option
//   - Non-TTY output (pipes, redirects)
//
// Color scheme:
//   - Run IDs and ranges: Cyan, Bold
//   - Completed status: Green
//   - Timed out, interrupted and partial: Yellow
//   - Errors: Red, Bold
//   - Headers: White, Bold
//   - Durations: Blue
package output
