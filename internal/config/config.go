package config

import (
	"audiodev/internal/audio"
	"audiodev/internal/render"
)

// Defaults applied before the config file, the environment and the command
// line flags, in that order.
const (
	DefaultConfigFile = "audiodev.yaml"
	DefaultLogLevel   = "info"
	DefaultLogFile    = ""
	DefaultBackend    = audio.DefaultBackend
	DefaultFormat     = render.FormatTable
	DefaultCommand    = ""
)

// Environment variables overriding file settings.
const (
	EnvBackend  = "AUDIODEV_BACKEND"
	EnvFormat   = "AUDIODEV_FORMAT"
	EnvLogLevel = "AUDIODEV_LOG_LEVEL"
	EnvLogFile  = "AUDIODEV_LOG_FILE"
)

// NewConfig creates a new Config instance with default values.
// This is the base configuration before a config file, the environment or
// command line arguments are applied.
func NewConfig() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		LogFile:  DefaultLogFile,
		Command:  DefaultCommand,
		Audio: AudioConfig{
			Backend: DefaultBackend,
		},
		Output: OutputConfig{
			Format: DefaultFormat,
		},
	}
}
