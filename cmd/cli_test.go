package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseArgs(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := []struct {
		name    string
		args    []string
		command string
		backend string
		format  string
		level   string
	}{
		{"Root defaults to list", nil, CommandList, "portaudio", "table", "info"},
		{"Inputs", []string{"inputs"}, CommandInputs, "portaudio", "table", "info"},
		{"Outputs json", []string{"outputs", "-f", "json"}, CommandOutputs, "portaudio", "json", "info"},
		{"Backend flag", []string{"list", "--backend", "malgo"}, CommandList, "malgo", "table", "info"},
		{"Verbose", []string{"browse", "-v"}, CommandBrowse, "portaudio", "table", "debug"},
		{"Log level", []string{"inputs", "--log-level", "warn"}, CommandInputs, "portaudio", "table", "warn"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseArgs(tt.args)
			if err != nil {
				t.Fatalf("ParseArgs(%v) error: %v", tt.args, err)
			}
			if cfg.Command != tt.command || cfg.Audio.Backend != tt.backend ||
				cfg.Output.Format != tt.format || cfg.LogLevel != tt.level {
				t.Errorf("ParseArgs(%v) = %+v", tt.args, cfg)
			}
		})
	}
}

func TestParseArgs_Errors(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := []struct {
		name   string
		args   []string
		substr string
	}{
		{"Unknown backend", []string{"inputs", "-b", "jack"}, "audio.backend"},
		{"Unknown format", []string{"inputs", "-f", "xml"}, "output.format"},
		{"Unknown command", []string{"record"}, "record"},
		{"Missing config", []string{"inputs", "-c", "missing.yaml"}, "failed to read config file"},
		{"Index and default", []string{"inputs", "-i", "1", "-d"}, "none of the others"},
		{"Index on list", []string{"list", "--index", "0"}, "unknown flag"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseArgs(tt.args)
			if err == nil || !strings.Contains(err.Error(), tt.substr) {
				t.Errorf("ParseArgs(%v) error = %v, want substring %q", tt.args, err, tt.substr)
			}
			if cfg != nil {
				t.Errorf("expected nil config on error, got %+v", cfg)
			}
		})
	}
}

func TestParseArgs_FlagsOverrideConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	content := "audio:\n  backend: malgo\noutput:\n  format: yaml\nlog_level: error\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := ParseArgs([]string{"outputs", "--config", path, "--format", "plain"})
	if err != nil {
		t.Fatalf("ParseArgs error: %v", err)
	}
	if cfg.Audio.Backend != "malgo" {
		t.Errorf("backend = %q, want malgo from file", cfg.Audio.Backend)
	}
	if cfg.Output.Format != "plain" {
		t.Errorf("format = %q, want plain from flag", cfg.Output.Format)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("log level = %q, want error from file", cfg.LogLevel)
	}
}

func TestParseArgs_Selection(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := []struct {
		name        string
		args        []string
		index       string
		defaultOnly bool
	}{
		{"No selection", []string{"inputs"}, "", false},
		{"Input index", []string{"inputs", "--index", "2"}, "2", false},
		{"Output index short", []string{"outputs", "-i", "0"}, "0", false},
		{"Default input", []string{"inputs", "--default"}, "", true},
		{"Default output short", []string{"outputs", "-d"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseArgs(tt.args)
			if err != nil {
				t.Fatalf("ParseArgs(%v) error: %v", tt.args, err)
			}
			if cfg.DeviceIndex != tt.index || cfg.DefaultOnly != tt.defaultOnly {
				t.Errorf("ParseArgs(%v) selection = %q/%v, want %q/%v",
					tt.args, cfg.DeviceIndex, cfg.DefaultOnly, tt.index, tt.defaultOnly)
			}
		})
	}
}

func TestParseArgs_Help(t *testing.T) {
	cfg, err := ParseArgs([]string{"--help"})
	if err != nil {
		t.Fatalf("ParseArgs error: %v", err)
	}
	if cfg.Command != "" {
		t.Errorf("help selected command %q", cfg.Command)
	}
}
