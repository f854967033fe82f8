// Package config handles configuration loading and validation for convtodo.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/colonyops/convtodo/internal/core/todo"
	"gopkg.in/yaml.v3"
)

// DefaultTodoFile is the todo file used when neither the config nor the
// command line names one.
const DefaultTodoFile = "todo_list.yaml"

// ColorMode controls whether terminal output is styled.
type ColorMode string

// Supported color modes.
const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IsValid reports whether m is a known color mode.
func (m ColorMode) IsValid() bool {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}

// Config holds the application configuration.
type Config struct {
	TodoFile string       `yaml:"todo_file"`
	DoneInfo string       `yaml:"done_info"`
	Search   SearchConfig `yaml:"search"`
	Color    ColorMode    `yaml:"color"`
}

// SearchConfig holds defaults for `convtodo ls`.
type SearchConfig struct {
	Mode todo.SearchMode `yaml:"mode"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		TodoFile: DefaultTodoFile,
		DoneInfo: todo.DefaultDoneInfo,
		Search:   SearchConfig{Mode: todo.SearchPlain},
		Color:    ColorAuto,
	}
}

// Load reads configuration from configPath. A missing file yields the
// defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.TodoFile == "" {
		c.TodoFile = defaults.TodoFile
	}
	if c.DoneInfo == "" {
		c.DoneInfo = defaults.DoneInfo
	}
	if c.Search.Mode == "" {
		c.Search.Mode = defaults.Search.Mode
	}
	if c.Color == "" {
		c.Color = defaults.Color
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.TodoFile == "" {
		return fmt.Errorf("todo_file cannot be empty")
	}

	if !c.Search.Mode.IsValid() {
		return fmt.Errorf("search.mode %q is invalid (valid: plain, regex, fuzzy)", c.Search.Mode)
	}

	if !c.Color.IsValid() {
		return fmt.Errorf("color %q is invalid (valid: auto, always, never)", c.Color)
	}

	return nil
}

// TodoPath resolves the todo file. A non-empty override wins over the
// configured file; relative paths are made absolute against the working
// directory.
func (c *Config) TodoPath(override string) (string, error) {
	path := c.TodoFile
	if override != "" {
		path = override
	}
	return filepath.Abs(path)
}
