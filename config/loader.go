package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigPaths lists the config file search paths in priority order
var ConfigPaths = []string{
	"./.procread.yaml",               // working directory (highest priority)
	"~/.config/procread/config.yaml", // user
	"/etc/procread/config.yaml",      // system (lowest priority)
}

// Loader loads configuration from files and the environment
type Loader struct {
	configPaths []string
	getenv      func(string) string
}

// NewLoader creates a loader searching ConfigPaths
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
		getenv:      os.Getenv,
	}
}

// LoadConfig builds the configuration in priority order:
// 1. Command line flags (applied by the caller)
// 2. PROCREAD_* environment variables
// 3. ./.procread.yaml
// 4. ~/.config/procread/config.yaml
// 5. /etc/procread/config.yaml
// 6. Built-in defaults
//
// A non-empty customPath replaces the search paths.
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			path := expandPath(l.configPaths[i])
			if !fileExists(path) {
				continue
			}
			if err := l.loadFromFile(config, path); err != nil {
				return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
			}
		}
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// loadFromFile decodes path on top of config. Keys absent from the file keep
// their current values.
func (l *Loader) loadFromFile(config *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := []struct {
		name string
		set  func(string) error
	}{
		{"PROCREAD_ROOT", func(v string) error { config.Root = v; return nil }},
		{"PROCREAD_OUTPUT", func(v string) error { config.Output.Format = v; return nil }},
		{"PROCREAD_COLOR", func(v string) error { return parseBool(v, &config.Output.Color) }},
		{"PROCREAD_UNESCAPE", func(v string) error { return parseBool(v, &config.Paths.Unescape) }},
	}

	for _, m := range envMappings {
		if value := l.getenv(m.name); value != "" {
			if err := m.set(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", m.name, err)
			}
		}
	}
	return nil
}

// FindConfigFile returns the highest priority config file that exists
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expanded := expandPath(path)
		if fileExists(expanded) {
			return expanded, true
		}
	}
	return "", false
}

func validateConfigPath(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}
	return nil
}

// expandPath expands ~ to the home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
