package config

import "time"

// RangeminerConfig represents the rangeminer configuration file structure
type RangeminerConfig struct {
	// DefaultProfile is the profile used by "run" when no range is given
	DefaultProfile string `yaml:"defaultProfile,omitempty" json:"defaultProfile,omitempty"`

	// Profiles maps names to saved jobs
	Profiles map[string]ProfileConfig `yaml:"profiles,omitempty" json:"profiles,omitempty"`

	// Defaults contains default settings for runs
	Defaults DefaultsConfig `yaml:"defaults,omitempty" json:"defaults,omitempty"`
}

// ProfileConfig is a saved job
type ProfileConfig struct {
	Start int64 `yaml:"start" json:"start"`
	End   int64 `yaml:"end" json:"end"`

	// Workers overrides Defaults.Workers when set
	Workers int `yaml:"workers,omitempty" json:"workers,omitempty"`

	// Timeout overrides Defaults.Timeout when set
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	// Predicate overrides Defaults.Predicate when set
	Predicate string `yaml:"predicate,omitempty" json:"predicate,omitempty"`

	// Labels for organizing profiles
	Labels map[string]string `yaml:"labels,omitempty" json:"labels,omitempty"`
}

// DefaultsConfig contains default configuration values
type DefaultsConfig struct {
	// Workers is the number of sub-ranges evaluated in parallel
	Workers int `yaml:"workers,omitempty" json:"workers,omitempty"`

	// Timeout bounds how long a run waits before cancelling its tasks
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	// Predicate names the per-value test
	Predicate string `yaml:"predicate,omitempty" json:"predicate,omitempty"`

	// OutputFormat is the default output format (text, table, json, yaml)
	OutputFormat string `yaml:"outputFormat,omitempty" json:"outputFormat,omitempty"`

	// NoColor disables colored output
	NoColor bool `yaml:"noColor,omitempty" json:"noColor,omitempty"`

	// Progress shows a progress bar on stderr while tasks run
	Progress bool `yaml:"progress,omitempty" json:"progress,omitempty"`
}

// RunSettings is a fully resolved set of parameters for one run
type RunSettings struct {
	Start     int64
	End       int64
	Workers   int
	Timeout   time.Duration
	Predicate string
}

// ProfileInfo is a profile with its name, for listing
type ProfileInfo struct {
	Name      string            `json:"name" yaml:"name"`
	Start     int64             `json:"start" yaml:"start"`
	End       int64             `json:"end" yaml:"end"`
	Workers   int               `json:"workers" yaml:"workers"`
	Timeout   time.Duration     `json:"timeout" yaml:"timeout"`
	Predicate string            `json:"predicate" yaml:"predicate"`
	Labels    map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
	Default   bool              `json:"default" yaml:"default"`
}
