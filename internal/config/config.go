package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/aryankumar/rangeminer/internal/util"
)

const (
	defaultConfigName = ".rangeminer"
	defaultConfigDir  = ".rangeminer"

	// EnvPrefix prefixes every environment variable read by the configuration
	EnvPrefix = "RANGEMINER"

	DefaultTimeout      = 60 * time.Second
	DefaultOutputFormat = "text"
)

// defaultKeys can be overridden from the environment, e.g. RANGEMINER_DEFAULTS_WORKERS
var defaultKeys = []string{
	"defaults.workers",
	"defaults.timeout",
	"defaults.predicate",
	"defaults.outputFormat",
	"defaults.noColor",
	"defaults.progress",
}

// Manager handles rangeminer configuration
type Manager struct {
	configPath string
	config     *RangeminerConfig
	viper      *viper.Viper
}

// NewManager creates a new configuration manager
func NewManager(configPath string) *Manager {
	return &Manager{
		configPath: configPath,
		viper:      viper.New(),
		config:     &RangeminerConfig{},
	}
}

// DefaultWorkers is the worker count used when nothing else is configured
func DefaultWorkers() int {
	return runtime.NumCPU()
}

// Load loads the rangeminer configuration from file and environment
func (m *Manager) Load() (*RangeminerConfig, error) {
	if m.configPath != "" {
		m.viper.SetConfigFile(m.configPath)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		// Check ~/.rangeminer/.rangeminer.yaml
		m.viper.AddConfigPath(filepath.Join(home, defaultConfigDir))
		// Check ~/.rangeminer.yaml
		m.viper.AddConfigPath(home)
		m.viper.SetConfigName(defaultConfigName)
		m.viper.SetConfigType("yaml")
	}

	m.viper.SetEnvPrefix(EnvPrefix)
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.viper.AutomaticEnv()
	for _, key := range defaultKeys {
		if err := m.viper.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	m.config = &RangeminerConfig{}

	// It's okay if the config file doesn't exist, defaults apply
	if err := m.viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := m.viper.Unmarshal(m.config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	m.applyDefaults()

	return m.config, nil
}

// Save writes the configuration back to the file Load read, or to
// ~/.rangeminer.yaml when no file was found.
func (m *Manager) Save() error {
	if m.configPath == "" {
		m.configPath = m.viper.ConfigFileUsed()
	}
	if m.configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		m.configPath = filepath.Join(home, defaultConfigName+".yaml")
	}

	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := m.viper.WriteConfigAs(m.configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Path returns the file Save writes to, empty until known
func (m *Manager) Path() string {
	if m.configPath != "" {
		return m.configPath
	}
	return m.viper.ConfigFileUsed()
}

// GetConfig returns the current configuration
func (m *Manager) GetConfig() *RangeminerConfig {
	return m.config
}

// GetProfile returns the saved job with the given name
func (m *Manager) GetProfile(name string) (*ProfileConfig, bool) {
	if m.config.Profiles == nil {
		return nil, false
	}

	profile, ok := m.config.Profiles[name]
	return &profile, ok
}

// SetProfile validates and stores a profile under name
func (m *Manager) SetProfile(name string, profile ProfileConfig) error {
	if name == "" {
		return util.NewValidationError("name", name, "profile name must not be empty")
	}
	if profile.End < profile.Start {
		return util.NewValidationError("end", profile.End, fmt.Sprintf("must not be less than start (%d)", profile.Start))
	}
	if profile.Workers < 0 {
		return util.NewValidationError("workers", profile.Workers, "must not be negative")
	}

	if m.config.Profiles == nil {
		m.config.Profiles = make(map[string]ProfileConfig)
	}

	m.config.Profiles[name] = profile
	m.viper.Set("profiles", m.config.Profiles)
	return nil
}

// RemoveProfile removes a profile and clears it as default if needed.
// It reports whether the profile existed.
func (m *Manager) RemoveProfile(name string) bool {
	if _, ok := m.config.Profiles[name]; !ok {
		return false
	}

	delete(m.config.Profiles, name)
	m.viper.Set("profiles", m.config.Profiles)

	if m.config.DefaultProfile == name {
		m.config.DefaultProfile = ""
		m.viper.Set("defaultProfile", "")
	}
	return true
}

// SetDefaultProfile selects the profile used when "run" gets no range
func (m *Manager) SetDefaultProfile(name string) error {
	if _, ok := m.config.Profiles[name]; !ok {
		return fmt.Errorf("profile %q not found", name)
	}

	m.config.DefaultProfile = name
	m.viper.Set("defaultProfile", name)
	return nil
}

// ListProfiles returns every profile with defaults filled in, sorted by name
func (m *Manager) ListProfiles() []ProfileInfo {
	infos := make([]ProfileInfo, 0, len(m.config.Profiles))
	for name := range m.config.Profiles {
		settings, _ := m.Resolve(name)
		infos = append(infos, ProfileInfo{
			Name:      name,
			Start:     settings.Start,
			End:       settings.End,
			Workers:   settings.Workers,
			Timeout:   settings.Timeout,
			Predicate: settings.Predicate,
			Labels:    m.config.Profiles[name].Labels,
			Default:   name == m.config.DefaultProfile,
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos
}

// GetProfilesByLabel returns the sorted names of profiles matching every given label
func (m *Manager) GetProfilesByLabel(labels map[string]string) []string {
	matching := make([]string, 0)
	for name, profile := range m.config.Profiles {
		if matchesLabels(profile.Labels, labels) {
			matching = append(matching, name)
		}
	}

	sort.Strings(matching)
	return matching
}

// Resolve returns the run settings of a profile, falling back to Defaults
// for everything the profile leaves unset.
func (m *Manager) Resolve(name string) (RunSettings, error) {
	profile, ok := m.GetProfile(name)
	if !ok {
		return RunSettings{}, fmt.Errorf("profile %q not found", name)
	}

	settings := RunSettings{
		Start:     profile.Start,
		End:       profile.End,
		Workers:   m.config.Defaults.Workers,
		Timeout:   m.config.Defaults.Timeout,
		Predicate: m.config.Defaults.Predicate,
	}
	if profile.Workers > 0 {
		settings.Workers = profile.Workers
	}
	if profile.Timeout > 0 {
		settings.Timeout = profile.Timeout
	}
	if profile.Predicate != "" {
		settings.Predicate = profile.Predicate
	}
	return settings, nil
}

// applyDefaults sets default values for configuration
func (m *Manager) applyDefaults() {
	if m.config == nil {
		return
	}

	if m.config.Defaults.Workers <= 0 {
		m.config.Defaults.Workers = DefaultWorkers()
	}

	if m.config.Defaults.Timeout == 0 {
		m.config.Defaults.Timeout = DefaultTimeout
	}

	if m.config.Defaults.OutputFormat == "" {
		m.config.Defaults.OutputFormat = DefaultOutputFormat
	}
}

// matchesLabels checks if profile labels match the required labels
func matchesLabels(profileLabels, requiredLabels map[string]string) bool {
	if len(requiredLabels) == 0 {
		return true
	}

	for key, value := range requiredLabels {
		profileValue, exists := profileLabels[key]
		if !exists || profileValue != value {
			return false
		}
	}

	return true
}
