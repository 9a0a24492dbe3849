package config

import (
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Root != "/proc" {
		t.Errorf("Root = %q, want /proc", cfg.Root)
	}
	if cfg.Output.Format != FormatTable {
		t.Errorf("Format = %q, want table", cfg.Output.Format)
	}
	if cfg.Paths.Unescape {
		t.Error("Unescape should default to false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"json", func(c *Config) { c.Output.Format = "json" }, ""},
		{"upper case format", func(c *Config) { c.Output.Format = "YAML" }, ""},
		{"unknown format", func(c *Config) { c.Output.Format = "xml" }, "invalid output format"},
		{"empty root", func(c *Config) { c.Root = "" }, "must not be empty"},
		{"relative root", func(c *Config) { c.Root = "proc" }, "absolute path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}

	cfg := DefaultConfig()
	cfg.Output.Format = "JSON"
	if err := cfg.Validate(); err != nil || cfg.Output.Format != FormatJSON {
		t.Errorf("format not normalised: %q, %v", cfg.Output.Format, err)
	}
}
