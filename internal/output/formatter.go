package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/aryankumar/rangeminer/internal/job"
)

// Format represents the output format type
type Format string

const (
	// FormatText outputs the classic line-oriented report
	FormatText Format = "text"
	// FormatTable outputs data in a borderless table
	FormatTable Format = "table"
	// FormatJSON outputs data in JSON format
	FormatJSON Format = "json"
	// FormatYAML outputs data in YAML format
	FormatYAML Format = "yaml"
)

// Formats lists every supported format
var Formats = []Format{FormatText, FormatTable, FormatJSON, FormatYAML}

// ParseFormat validates a format name. The empty string selects FormatText.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatText, nil
	}
	for _, f := range Formats {
		if Format(strings.ToLower(s)) == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format: %s (supported: text, table, json, yaml)", s)
}

// Formatter defines the interface for output formatting
type Formatter interface {
	// Format outputs a single data item to the writer
	Format(w io.Writer, data interface{}) error

	// FormatOutcome outputs the report of one run to the writer
	FormatOutcome(w io.Writer, outcome job.Outcome) error
}

// Option is a functional option for configuring formatters
type Option func(*Options)

// Options holds configuration for formatters
type Options struct {
	// NoColor disables color output
	NoColor bool

	// NoHeaders disables table headers
	NoHeaders bool

	// Wide adds the per-task breakdown
	Wide bool
}

// WithNoColor disables color output
func WithNoColor(noColor bool) Option {
	return func(o *Options) {
		o.NoColor = noColor
	}
}

// WithNoHeaders disables table headers
func WithNoHeaders(noHeaders bool) Option {
	return func(o *Options) {
		o.NoHeaders = noHeaders
	}
}

// WithWide enables wide output
func WithWide(wide bool) Option {
	return func(o *Options) {
		o.Wide = wide
	}
}

// NewFormatter creates a new formatter based on the specified format
func NewFormatter(format Format, opts ...Option) Formatter {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	switch format {
	case FormatJSON:
		return NewJSONFormatter(options)
	case FormatYAML:
		return NewYAMLFormatter(options)
	case FormatTable:
		return NewTableFormatter(options)
	case FormatText:
		fallthrough
	default:
		return NewTextFormatter(options)
	}
}
