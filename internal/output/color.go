package output

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/aryankumar/rangeminer/internal/job"
)

// ColorScheme provides color functions for different output elements
type ColorScheme struct {
	// Range colors sub-range and run identifiers
	Range func(format string, a ...interface{}) string

	// Success colors success status
	Success func(format string, a ...interface{}) string

	// Error colors error messages
	Error func(format string, a ...interface{}) string

	// Warning colors partial-result notices
	Warning func(format string, a ...interface{}) string

	// Header colors table headers
	Header func(format string, a ...interface{}) string

	// Duration colors duration values
	Duration func(format string, a ...interface{}) string

	// Disabled indicates if colors are disabled
	Disabled bool
}

// NewColorScheme creates a new color scheme
// Colors are automatically disabled for non-TTY outputs or when noColor is true
func NewColorScheme(w io.Writer, noColor bool) *ColorScheme {
	useColor := !noColor && IsTTY(w)

	if !useColor {
		plain := color.New()
		plain.DisableColor()
		return &ColorScheme{
			Range:    plain.Sprintf,
			Success:  plain.Sprintf,
			Error:    plain.Sprintf,
			Warning:  plain.Sprintf,
			Header:   plain.Sprintf,
			Duration: plain.Sprintf,
			Disabled: true,
		}
	}

	return &ColorScheme{
		Range:    color.New(color.FgCyan, color.Bold).Sprintf,
		Success:  color.New(color.FgGreen).Sprintf,
		Error:    color.New(color.FgRed, color.Bold).Sprintf,
		Warning:  color.New(color.FgYellow).Sprintf,
		Header:   color.New(color.FgWhite, color.Bold).Sprintf,
		Duration: color.New(color.FgBlue).Sprintf,
		Disabled: false,
	}
}

// IsTTY checks if the writer is a terminal
func IsTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// StatusColor returns an appropriate color function based on error status
func (cs *ColorScheme) StatusColor(hasError bool) func(format string, a ...interface{}) string {
	if hasError {
		return cs.Error
	}
	return cs.Success
}

// RunStatusColor colors a run status: green when completed, yellow otherwise
func (cs *ColorScheme) RunStatusColor(status job.Status) func(format string, a ...interface{}) string {
	if status == job.StatusCompleted {
		return cs.Success
	}
	return cs.Warning
}
