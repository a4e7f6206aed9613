package output

import (
	"bytes"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestYAMLFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	if err := NewYAMLFormatter(nil).Format(&buf, map[string]interface{}{"name": "small", "workers": 4}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "name: small") || !strings.Contains(out, "workers: 4") {
		t.Errorf("unexpected YAML:\n%s", out)
	}
}

func TestYAMLFormatter_FormatOutcome(t *testing.T) {
	var buf bytes.Buffer
	if err := NewYAMLFormatter(nil).FormatOutcome(&buf, partialOutcome()); err != nil {
		t.Fatalf("FormatOutcome() error = %v", err)
	}

	var view OutcomeView
	if err := yaml.Unmarshal(buf.Bytes(), &view); err != nil {
		t.Fatalf("output is not valid YAML: %v\n%s", err, buf.String())
	}

	if view.RunID != "0b9d7a3e-5f21-4c43-9a57-2d0f3c1e8b11" {
		t.Errorf("runId = %q", view.RunID)
	}
	if view.TotalCount != 3 {
		t.Errorf("totalCount = %d, want 3", view.TotalCount)
	}
	if len(view.Tasks) != 4 || view.Tasks[2].Error == "" {
		t.Errorf("unexpected tasks: %+v", view.Tasks)
	}
	if !strings.HasPrefix(view.Tasks[2].Error, "task 3: task not executed") {
		t.Errorf("task 3 error = %q", view.Tasks[2].Error)
	}
}

func TestYAMLFormatter_Indentation(t *testing.T) {
	var buf bytes.Buffer
	if err := NewYAMLFormatter(nil).FormatOutcome(&buf, sampleOutcome()); err != nil {
		t.Fatalf("FormatOutcome() error = %v", err)
	}

	if !strings.Contains(buf.String(), "\ntasks:\n  - id: 1\n") {
		t.Errorf("expected two-space indented task list:\n%s", buf.String())
	}
}
