package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hay-kot/criterio"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs Validate and then checks the file system: the config
// file must be a regular file when it exists and the todo file's directory
// must exist. The configPath argument may be empty to skip the config file
// check.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("todo_file", c.TodoFile, todoDirExists),
		criterio.Run("done_info", c.DoneInfo, notBlank),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	path, err := c.TodoPath("")
	if err != nil {
		return warnings
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		warnings = append(warnings, ValidationWarning{
			Category: "Todo File",
			Item:     path,
			Message:  "file does not exist yet, it will be created by the first add or import",
		})
	}

	return warnings
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// todoDirExists validates that the directory holding the todo file exists
// and that the todo file itself is not a directory.
func todoDirExists(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", abs)
	}

	dir := filepath.Dir(abs)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("directory %s cannot be accessed: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

func notBlank(s string) error {
	if s == "" {
		return fmt.Errorf("cannot be empty")
	}
	return nil
}
