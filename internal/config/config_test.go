package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"sheetform/internal/form"
	"sheetform/internal/template"
)

func TestLoadConfig_Full(t *testing.T) {
	content := `
endpoint:
  url: "https://script.google.com/macros/s/abc/exec"
required: [name, email]
transform:
  name: "${name}"
  email: "${email}"
  age: "${age}"
  timestamp: "${date(2006-01-02)}"
timeout: 10s
overlap: last-writer-wins
log:
  level: debug
  format: json
`
	cfg := loadConfigFromString(t, content)

	if cfg.Endpoint.Endpoint() != "https://script.google.com/macros/s/abc/exec" {
		t.Errorf("unexpected endpoint %q", cfg.Endpoint.Endpoint())
	}
	if diff := cmp.Diff([]string{"name", "email"}, cfg.Required); diff != "" {
		t.Errorf("required mismatch (-want +got):\n%s", diff)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("expected timeout 10s, got %v", cfg.Timeout)
	}
	if cfg.Overlap != "last-writer-wins" {
		t.Errorf("expected overlap last-writer-wins, got %q", cfg.Overlap)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("unexpected log config %+v", cfg.Log)
	}

	want := template.Fields{
		{Key: "name", Value: "${name}"},
		{Key: "email", Value: "${email}"},
		{Key: "age", Value: "${age}"},
		{Key: "timestamp", Value: "${date(2006-01-02)}"},
	}
	if diff := cmp.Diff(want, cfg.Transform.Fields); diff != "" {
		t.Errorf("transform mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := loadConfigFromString(t, `required: [name]`)

	if cfg.Endpoint.Env != DefaultEndpointEnv {
		t.Errorf("expected env %q, got %q", DefaultEndpointEnv, cfg.Endpoint.Env)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("expected default timeout, got %v", cfg.Timeout)
	}
	if cfg.Overlap != "reject" {
		t.Errorf("expected overlap reject, got %q", cfg.Overlap)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("unexpected log defaults %+v", cfg.Log)
	}
	if cfg.Transform.Func() != nil {
		t.Error("expected no transform")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestEndpoint_ReadsEnvironmentEachCall(t *testing.T) {
	e := EndpointConfig{Env: "SHEETFORM_TEST_URL"}

	t.Setenv("SHEETFORM_TEST_URL", "")
	if got := e.Endpoint(); got != "" {
		t.Errorf("expected empty endpoint, got %q", got)
	}

	t.Setenv("SHEETFORM_TEST_URL", " https://example.com/exec ")
	if got := e.Endpoint(); got != "https://example.com/exec" {
		t.Errorf("expected env endpoint, got %q", got)
	}
}

func TestEndpoint_URLWinsOverEnv(t *testing.T) {
	t.Setenv(DefaultEndpointEnv, "https://env.example.com/exec")

	e := EndpointConfig{URL: "https://file.example.com/exec"}
	if got := e.Endpoint(); got != "https://file.example.com/exec" {
		t.Errorf("expected file endpoint, got %q", got)
	}
}

func TestTransform_Func(t *testing.T) {
	cfg := loadConfigFromString(t, `
transform:
  n: "${name}"
  a: "${age}"
`)

	fn := cfg.Transform.Func()
	if fn == nil {
		t.Fatal("expected transform func")
	}

	out, err := fn(form.NewRecord(
		form.Field{Key: "name", Value: "A"},
		form.Field{Key: "age", Value: 5},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []form.Field{{Key: "n", Value: "A"}, {Key: "a", Value: "5"}}
	if diff := cmp.Diff(want, out.Fields()); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad overlap", `overlap: queue`, "overlap"},
		{"bad level", "log:\n  level: trace", "log.level"},
		{"bad format", "log:\n  format: xml", "log.format"},
		{"negative timeout", `timeout: -1s`, "timeout"},
		{"empty required", `required: [name, ""]`, "required[1]"},
		{"transform list", "transform:\n  - a", "transform must be a mapping"},
		{"transform nested", "transform:\n  a:\n    b: c", `"a"`},
		{"invalid yaml", "endpoint: [", "yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error for non-existent file")
	}
	if !strings.Contains(err.Error(), "reading config file") {
		t.Errorf("expected wrapped read error, got %v", err)
	}
}

func loadConfigFromString(t *testing.T, content string) *Config {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	return cfg
}
