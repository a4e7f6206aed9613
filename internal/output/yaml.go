package output

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/aryankumar/rangeminer/internal/job"
)

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	options *Options
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(opts *Options) *YAMLFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &YAMLFormatter{
		options: opts,
	}
}

// Format outputs a single data item as YAML
func (f *YAMLFormatter) Format(w io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	return encoder.Encode(data)
}

// FormatOutcome outputs a run as YAML
func (f *YAMLFormatter) FormatOutcome(w io.Writer, outcome job.Outcome) error {
	return f.Format(w, NewOutcomeView(outcome))
}
