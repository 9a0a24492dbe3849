// Package config holds the procread command line configuration.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Output formats understood by the CLI.
const (
	FormatTable = "table"
	FormatYAML  = "yaml"
	FormatJSON  = "json"
)

var formats = []string{FormatTable, FormatYAML, FormatJSON}

// Config is the complete procread configuration.
type Config struct {
	Root   string       `yaml:"root"`
	Output OutputConfig `yaml:"output"`
	Paths  PathsConfig  `yaml:"paths"`
}

// OutputConfig controls how decoded records are printed.
type OutputConfig struct {
	Format string `yaml:"format"`
	Color  bool   `yaml:"color"`
}

// PathsConfig controls path decoding in maps and mounts.
type PathsConfig struct {
	// Unescape decodes the kernel's \ooo octal escapes. Off by default so
	// paths print exactly as the kernel wrote them.
	Unescape bool `yaml:"unescape"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Root: "/proc",
		Output: OutputConfig{
			Format: FormatTable,
		},
	}
}

// Validate checks the configuration for values the CLI cannot act on.
func (c *Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("root must not be empty")
	}
	if !filepath.IsAbs(c.Root) {
		return fmt.Errorf("root must be an absolute path, got %q", c.Root)
	}

	format := strings.ToLower(c.Output.Format)
	for _, f := range formats {
		if format == f {
			c.Output.Format = f
			return nil
		}
	}
	return fmt.Errorf("invalid output format %q, must be one of: %s", c.Output.Format, strings.Join(formats, ", "))
}
