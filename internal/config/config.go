// Package config loads ftwiki settings from fts/ftwiki.yaml and FTWIKI_*
// environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/chriserin/ftwiki/internal/formatter"
	"github.com/chriserin/ftwiki/internal/logging"
)

// DefaultPath is where init writes the project config.
const DefaultPath = "fts/ftwiki.yaml"

const envVarPrefix = "FTWIKI_"

// Config holds rendering and CLI settings.
type Config struct {
	// TagRendering enables tag annotation lines. Nil means enabled.
	TagRendering *bool `yaml:"tags,omitempty"`

	// InformationSign prefixes tag annotation lines. Empty means the
	// built-in sign.
	InformationSign string `yaml:"information_sign,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty"`

	// OutputDir receives rendered .wiki files. Empty means stdout.
	OutputDir string `yaml:"output_dir,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	enabled := true
	return &Config{
		TagRendering: &enabled,
		LogLevel:     "warn",
	}
}

// TagsEnabled reports whether tag lines are rendered.
func (c *Config) TagsEnabled() bool {
	return c.TagRendering == nil || *c.TagRendering
}

// SetTags sets TagRendering.
func (c *Config) SetTags(enabled bool) {
	c.TagRendering = &enabled
}

// FormatterOptions maps the config to renderer options.
func (c *Config) FormatterOptions() formatter.Options {
	return formatter.Options{
		TagRendering:    c.TagsEnabled(),
		InformationSign: c.InformationSign,
	}
}

// Validate rejects settings no command can honor.
func (c *Config) Validate() error {
	if !logging.ValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level %q (want debug, info, warn or error)", c.LogLevel)
	}
	return nil
}

// ToYAML serializes the configuration.
func (c *Config) ToYAML() ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}
	return buf.Bytes(), nil
}

// FromYAML parses a configuration, starting from the defaults.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}

// Load reads path, then applies environment overrides. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	default:
		cfg, err = FromYAML(data)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	if err := LoadFromEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv applies FTWIKI_* overrides to cfg.
func LoadFromEnv(cfg *Config) error {
	if v := os.Getenv(envVarPrefix + "TAGS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid boolean for %sTAGS: %q (expected true/false/1/0)", envVarPrefix, v)
		}
		cfg.SetTags(b)
	}
	if v := os.Getenv(envVarPrefix + "INFORMATION_SIGN"); v != "" {
		cfg.InformationSign = v
	}
	if v := os.Getenv(envVarPrefix + "LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(envVarPrefix + "OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	return nil
}
