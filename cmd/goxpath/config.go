package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/sandrolain/goxpath/pkg/types"
)

// DefaultConfigFile is read from the working directory when -config is not given.
const DefaultConfigFile = ".goxpath.yaml"

// Config holds the CLI settings. Values from the config file are overridden
// by command-line flags.
type Config struct {
	HTML           bool           `yaml:"html"`
	TrimWhitespace bool           `yaml:"trim_whitespace"`
	Extensions     []string       `yaml:"extensions"`
	Output         string         `yaml:"output"`
	LogLevel       string         `yaml:"log_level"`
	MaxDepth       int            `yaml:"max_depth"`
	Variables      map[string]any `yaml:"variables"`
}

// Defaults returns the configuration used when no file is present.
func Defaults() *Config {
	return &Config{
		Output:   "text",
		LogLevel: "warn",
	}
}

// LoadConfig reads the YAML file at path over the defaults. An empty path
// loads DefaultConfigFile if it exists and the defaults otherwise.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Output {
	case "text", "json":
	default:
		return errors.Errorf("output must be text or json, got %q", c.Output)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.MaxDepth < 0 {
		return errors.Errorf("max_depth must not be negative, got %d", c.MaxDepth)
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, errors.Errorf("unknown log level %q", s)
	}
}

// Bindings converts the configured variables to XPath values: YAML numbers
// become numbers, booleans become booleans and everything else a string.
func (c *Config) Bindings() map[string]types.Value {
	out := make(map[string]types.Value, len(c.Variables))
	for name, raw := range c.Variables {
		out[name] = toValue(raw)
	}
	return out
}

func toValue(raw any) types.Value {
	switch v := raw.(type) {
	case bool:
		return types.Boolean(v)
	case int:
		return types.Number(v)
	case int64:
		return types.Number(v)
	case uint64:
		return types.Number(v)
	case float64:
		return types.Number(v)
	case string:
		return types.String(v)
	case nil:
		return types.String("")
	default:
		return types.String(toString(v))
	}
}

func toString(v any) string {
	out, err := yaml.Marshal(v)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
