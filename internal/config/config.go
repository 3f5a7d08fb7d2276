// Package config handles YAML configuration parsing.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"sheetform/internal/form"
	"sheetform/internal/template"
)

const (
	// DefaultEndpointEnv is the environment variable holding the script URL
	// when the config file does not name one.
	DefaultEndpointEnv = "GOOGLE_SCRIPT_URL"
	DefaultTimeout     = 30 * time.Second
)

// Config is the root configuration structure.
type Config struct {
	Endpoint  EndpointConfig  `yaml:"endpoint"`
	Required  []string        `yaml:"required"`
	Transform TransformConfig `yaml:"transform,omitempty"`
	Timeout   time.Duration   `yaml:"timeout"`
	Overlap   string          `yaml:"overlap"`
	Log       LogConfig       `yaml:"log"`
}

// EndpointConfig locates the script URL. An explicit URL wins; otherwise
// the named environment variable is read each time Endpoint is called.
type EndpointConfig struct {
	URL string `yaml:"url"`
	Env string `yaml:"env"`
}

// Endpoint returns the configured URL, or "" when none is set.
func (e EndpointConfig) Endpoint() string {
	if u := strings.TrimSpace(e.URL); u != "" {
		return u
	}
	name := e.Env
	if name == "" {
		name = DefaultEndpointEnv
	}
	return strings.TrimSpace(os.Getenv(name))
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// TransformConfig maps outgoing parameter names to templates evaluated
// against the submitted record. Parameter order follows the YAML mapping.
type TransformConfig struct {
	Fields template.Fields
}

// UnmarshalYAML reads a mapping node pair by pair so key order survives.
func (t *TransformConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: transform must be a mapping of param: template", node.Line)
	}
	fields := make(template.Fields, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: transform param %q must be a string template", value.Line, key.Value)
		}
		fields = append(fields, form.Field{Key: key.Value, Value: value.Value})
	}
	t.Fields = fields
	return nil
}

// Func returns the transform as a function, or nil when no params are set.
func (t TransformConfig) Func() func(*form.Record) (*form.Record, error) {
	if len(t.Fields) == 0 {
		return nil
	}
	return t.Fields.Apply
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Parse decodes YAML, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Endpoint.Env == "" {
		c.Endpoint.Env = DefaultEndpointEnv
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Overlap == "" {
		c.Overlap = "reject"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks enumerated values and field names.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0, got %v", c.Timeout)
	}
	switch c.Overlap {
	case "reject", "last-writer-wins":
	default:
		return fmt.Errorf("overlap must be 'reject' or 'last-writer-wins', got %q", c.Overlap)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be 'text' or 'json', got %q", c.Log.Format)
	}
	for i, name := range c.Required {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("required[%d]: field name is empty", i)
		}
	}
	return nil
}
