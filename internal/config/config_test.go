package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/aryankumar/rangeminer/internal/util"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".rangeminer.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestManager_Load(t *testing.T) {
	tests := []struct {
		name          string
		configContent string
		wantProfiles  int
		wantTimeout   time.Duration
		wantWorkers   int
		wantOutput    string
	}{
		{
			name: "valid config with profiles",
			configContent: `
defaultProfile: small
profiles:
  small:
    start: 1
    end: 20
    workers: 4
  large:
    start: 1
    end: 100000000
    timeout: 5m
    labels:
      size: large
defaults:
  timeout: 90s
  workers: 12
  outputFormat: json
`,
			wantProfiles: 2,
			wantTimeout:  90 * time.Second,
			wantWorkers:  12,
			wantOutput:   "json",
		},
		{
			name: "minimal config with defaults",
			configContent: `
profiles:
  only:
    start: 5
    end: 6
`,
			wantProfiles: 1,
			wantTimeout:  DefaultTimeout,
			wantWorkers:  DefaultWorkers(),
			wantOutput:   DefaultOutputFormat,
		},
		{
			name:          "empty config",
			configContent: "",
			wantProfiles:  0,
			wantTimeout:   DefaultTimeout,
			wantWorkers:   DefaultWorkers(),
			wantOutput:    DefaultOutputFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager := NewManager(writeConfig(t, tt.configContent))
			config, err := manager.Load()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if config != manager.GetConfig() {
				t.Error("GetConfig should return the loaded config")
			}
			if len(config.Profiles) != tt.wantProfiles {
				t.Errorf("got %d profiles, want %d", len(config.Profiles), tt.wantProfiles)
			}
			if config.Defaults.Timeout != tt.wantTimeout {
				t.Errorf("got timeout %v, want %v", config.Defaults.Timeout, tt.wantTimeout)
			}
			if config.Defaults.Workers != tt.wantWorkers {
				t.Errorf("got workers %d, want %d", config.Defaults.Workers, tt.wantWorkers)
			}
			if config.Defaults.OutputFormat != tt.wantOutput {
				t.Errorf("got output %q, want %q", config.Defaults.OutputFormat, tt.wantOutput)
			}
		})
	}
}

func TestManager_LoadMissingFile(t *testing.T) {
	manager := NewManager(filepath.Join(t.TempDir(), "missing.yaml"))
	config, err := manager.Load()
	if err != nil {
		t.Fatalf("missing config file should not be an error: %v", err)
	}
	if config.Defaults.Timeout != DefaultTimeout {
		t.Errorf("expected default timeout, got %v", config.Defaults.Timeout)
	}
}

func TestManager_LoadInvalidFile(t *testing.T) {
	manager := NewManager(writeConfig(t, "defaults: [unclosed"))
	if _, err := manager.Load(); err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestManager_LoadFromEnvironment(t *testing.T) {
	t.Setenv("RANGEMINER_DEFAULTS_WORKERS", "3")
	t.Setenv("RANGEMINER_DEFAULTS_TIMEOUT", "15s")
	t.Setenv("RANGEMINER_DEFAULTS_PROGRESS", "true")

	manager := NewManager(writeConfig(t, "defaults:\n  workers: 9\n"))
	config, err := manager.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.Defaults.Workers != 3 {
		t.Errorf("environment should override file, got workers %d", config.Defaults.Workers)
	}
	if config.Defaults.Timeout != 15*time.Second {
		t.Errorf("got timeout %v, want 15s", config.Defaults.Timeout)
	}
	if !config.Defaults.Progress {
		t.Error("expected progress enabled from environment")
	}
}

func TestManager_Resolve(t *testing.T) {
	manager := NewManager(writeConfig(t, `
profiles:
  inherit:
    start: 1
    end: 20
  override:
    start: -5
    end: 5
    workers: 2
    timeout: 1s
    predicate: decimal-palindrome
defaults:
  workers: 8
  timeout: 30s
  predicate: decimal-binary-palindrome
`))
	if _, err := manager.Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name    string
		profile string
		want    RunSettings
		wantErr bool
	}{
		{
			name:    "inherits defaults",
			profile: "inherit",
			want:    RunSettings{Start: 1, End: 20, Workers: 8, Timeout: 30 * time.Second, Predicate: "decimal-binary-palindrome"},
		},
		{
			name:    "overrides defaults",
			profile: "override",
			want:    RunSettings{Start: -5, End: 5, Workers: 2, Timeout: time.Second, Predicate: "decimal-palindrome"},
		},
		{
			name:    "unknown profile",
			profile: "nope",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := manager.Resolve(tt.profile)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestManager_SetProfile(t *testing.T) {
	tests := []struct {
		name      string
		profile   string
		config    ProfileConfig
		wantField string
	}{
		{name: "valid", profile: "a", config: ProfileConfig{Start: 1, End: 2}},
		{name: "empty name", profile: "", config: ProfileConfig{Start: 1, End: 2}, wantField: "name"},
		{name: "end before start", profile: "b", config: ProfileConfig{Start: 3, End: 2}, wantField: "end"},
		{name: "negative workers", profile: "c", config: ProfileConfig{Start: 1, End: 2, Workers: -1}, wantField: "workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager := NewManager("")
			err := manager.SetProfile(tt.profile, tt.config)

			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				got, ok := manager.GetProfile(tt.profile)
				if !ok || !reflect.DeepEqual(*got, tt.config) {
					t.Errorf("GetProfile() = %+v, %v", got, ok)
				}
				return
			}

			var verr *util.ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.wantField {
				t.Errorf("expected validation error on %q, got %v", tt.wantField, err)
			}
		})
	}
}

func TestManager_RemoveProfile(t *testing.T) {
	manager := NewManager("")
	if err := manager.SetProfile("a", ProfileConfig{Start: 1, End: 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := manager.SetDefaultProfile("a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !manager.RemoveProfile("a") {
		t.Error("expected profile to be removed")
	}
	if manager.RemoveProfile("a") {
		t.Error("removing twice should report false")
	}
	if manager.GetConfig().DefaultProfile != "" {
		t.Error("removing the default profile should clear the default")
	}
	if err := manager.SetDefaultProfile("a"); err == nil {
		t.Error("expected error selecting an unknown profile")
	}
}

func TestManager_ListProfiles(t *testing.T) {
	manager := NewManager(writeConfig(t, `
defaultProfile: b
profiles:
  c:
    start: 1
    end: 3
  a:
    start: 1
    end: 1
    labels:
      tier: tiny
  b:
    start: 2
    end: 9
    workers: 3
defaults:
  workers: 4
`))
	if _, err := manager.Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	infos := manager.ListProfiles()
	if len(infos) != 3 {
		t.Fatalf("expected 3 profiles, got %d", len(infos))
	}

	names := []string{infos[0].Name, infos[1].Name, infos[2].Name}
	if !reflect.DeepEqual(names, []string{"a", "b", "c"}) {
		t.Errorf("profiles not sorted: %v", names)
	}
	if !infos[1].Default || infos[0].Default {
		t.Error("only b is the default profile")
	}
	if infos[0].Workers != 4 || infos[1].Workers != 3 {
		t.Errorf("unexpected resolved workers: %d, %d", infos[0].Workers, infos[1].Workers)
	}
	if infos[0].Labels["tier"] != "tiny" {
		t.Errorf("expected labels to be listed, got %v", infos[0].Labels)
	}

	if got := manager.GetProfilesByLabel(map[string]string{"tier": "tiny"}); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("GetProfilesByLabel() = %v", got)
	}
	if got := manager.GetProfilesByLabel(nil); len(got) != 3 {
		t.Errorf("no labels should match everything, got %v", got)
	}
}

func TestManager_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	manager := NewManager(path)
	if _, err := manager.Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := manager.SetProfile("saved", ProfileConfig{Start: 10, End: 99, Workers: 2, Timeout: 3 * time.Second}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := manager.SetDefaultProfile("saved"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := manager.Save(); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	if manager.Path() != path {
		t.Errorf("Path() = %q, want %q", manager.Path(), path)
	}

	reloaded := NewManager(path)
	config, err := reloaded.Load()
	if err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if config.DefaultProfile != "saved" {
		t.Errorf("expected default profile to persist, got %q", config.DefaultProfile)
	}
	settings, err := reloaded.Resolve("saved")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Start != 10 || settings.End != 99 || settings.Workers != 2 || settings.Timeout != 3*time.Second {
		t.Errorf("unexpected settings after reload: %+v", settings)
	}
}

func TestManager_SaveWritesBackToDiscoveredFile(t *testing.T) {
	tests := []struct {
		name     string
		seedPath string
	}{
		{name: "config directory", seedPath: filepath.Join(".rangeminer", ".rangeminer.yaml")},
		{name: "home file", seedPath: ".rangeminer.yaml"},
		{name: "no file yet", seedPath: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := t.TempDir()
			t.Setenv("HOME", home)

			want := filepath.Join(home, ".rangeminer.yaml")
			if tt.seedPath != "" {
				want = filepath.Join(home, tt.seedPath)
				if err := os.MkdirAll(filepath.Dir(want), 0755); err != nil {
					t.Fatalf("failed to create config dir: %v", err)
				}
				seed := "profiles:\n  small:\n    start: 1\n    end: 20\n"
				if err := os.WriteFile(want, []byte(seed), 0644); err != nil {
					t.Fatalf("failed to seed config: %v", err)
				}
			}

			manager := NewManager("")
			if _, err := manager.Load(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := manager.SetProfile("big", ProfileConfig{Start: 1, End: 1000000}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := manager.Save(); err != nil {
				t.Fatalf("failed to save: %v", err)
			}
			if manager.Path() != want {
				t.Errorf("saved to %q, want %q", manager.Path(), want)
			}

			reloaded := NewManager("")
			config, err := reloaded.Load()
			if err != nil {
				t.Fatalf("failed to reload: %v", err)
			}
			if _, ok := config.Profiles["big"]; !ok {
				t.Errorf("saved profile missing after reload, got %v", config.Profiles)
			}
			if tt.seedPath != "" {
				if _, ok := config.Profiles["small"]; !ok {
					t.Errorf("existing profile lost after save, got %v", config.Profiles)
				}
			}
		})
	}
}

func TestMatchesLabels(t *testing.T) {
	tests := []struct {
		name     string
		have     map[string]string
		required map[string]string
		want     bool
	}{
		{name: "no requirements", have: nil, required: nil, want: true},
		{name: "match", have: map[string]string{"a": "1", "b": "2"}, required: map[string]string{"a": "1"}, want: true},
		{name: "wrong value", have: map[string]string{"a": "1"}, required: map[string]string{"a": "2"}, want: false},
		{name: "missing key", have: map[string]string{}, required: map[string]string{"a": "1"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchesLabels(tt.have, tt.required); got != tt.want {
				t.Errorf("matchesLabels() = %v, want %v", got, tt.want)
			}
		})
	}
}
