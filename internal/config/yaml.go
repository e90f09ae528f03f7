// SPDX-License-Identifier: MIT
package config

import (
	"fmt"
	"os"
	"slices"

	"audiodev/internal/audio"
	"audiodev/internal/log"
	"audiodev/internal/render"

	"gopkg.in/yaml.v3"
)

var confLog = log.Subsystem("CONF")

// Config represents the application configuration, loaded from YAML.
type Config struct {
	LogLevel string       `yaml:"log_level"` // Logging level (e.g., "debug", "info", "warn", "error").
	LogFile  string       `yaml:"log_file"`  // Optional rotating log file; empty logs to stderr only.
	Command  string       `yaml:"-"`         // Command selected on the command line (e.g., "inputs", "list").
	Audio    AudioConfig  `yaml:"audio"`     // Audio host settings.
	Output   OutputConfig `yaml:"output"`    // Listing output settings.

	DeviceIndex string `yaml:"-"` // Only show the device with this index (--index).
	DefaultOnly bool   `yaml:"-"` // Only show the default device (--default).

	source    string   // File the settings were loaded from, if any.
	overrides []string // Environment overrides applied on top of the file.
}

// AudioConfig holds settings related to the audio host.
type AudioConfig struct {
	Backend string `yaml:"backend"` // Audio backend used to enumerate devices ("portaudio" or "malgo").
}

// OutputConfig holds settings related to rendering device listings.
type OutputConfig struct {
	Format string `yaml:"format"` // Listing format ("table", "plain", "json" or "yaml").
}

// LoadConfig loads configuration from a YAML file specified by path. If path
// is empty, it looks for DefaultConfigFile in the working directory and uses
// built-in defaults when there is none. Environment overrides are applied
// after the file; the result is not validated since command line flags may
// still change it.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()

	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err != nil {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.source = path

	// Apply environment variable overrides AFTER loading from file.
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Validate checks the settings that name a fixed set of choices.
func (c *Config) Validate() error {
	if _, ok := log.ParseLevel(c.LogLevel); !ok {
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if !slices.Contains(audio.Backends(), c.Audio.Backend) {
		return fmt.Errorf("invalid audio.backend %q (want one of %v)",
			c.Audio.Backend, audio.Backends())
	}
	if !slices.Contains(render.Formats, c.Output.Format) {
		return fmt.Errorf("invalid output.format %q (want one of %v)",
			c.Output.Format, render.Formats)
	}
	return nil
}

// LogSummary logs where the configuration came from. Loading happens before
// the log level is known, so this runs once logging is set up.
func (c *Config) LogSummary() {
	if c.source == "" {
		confLog.Debugf("No configuration file, using defaults")
	} else {
		confLog.Debugf("Loaded configuration from %s", c.source)
	}
	for _, o := range c.overrides {
		confLog.Debugf("Environment override %s", o)
	}
}

func (c *Config) applyEnvOverrides() {
	if val, ok := os.LookupEnv(EnvBackend); ok {
		c.Audio.Backend = val
		c.overrides = append(c.overrides, "audio.backend="+val)
	}
	if val, ok := os.LookupEnv(EnvFormat); ok {
		c.Output.Format = val
		c.overrides = append(c.overrides, "output.format="+val)
	}
	if val, ok := os.LookupEnv(EnvLogLevel); ok {
		c.LogLevel = val
		c.overrides = append(c.overrides, "log_level="+val)
	}
	if val, ok := os.LookupEnv(EnvLogFile); ok {
		c.LogFile = val
		c.overrides = append(c.overrides, "log_file="+val)
	}
}
