// Package log is the process-wide leveled logger. Each package asks for a
// subsystem logger tagged with a short name; all of them share one backend
// writing to stderr and, when configured, to a rotating log file.
package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"
)

// Rotation settings for the optional log file.
const (
	logRotateThresholdKB = 1024
	logRotateMaxRolls    = 3
)

// logWriter fans backend output out to the console and the log file. A
// failing destination does not stop the other one from being written.
type logWriter struct{}

func (logWriter) Write(b []byte) (int, error) {
	mu.Lock()
	defer mu.Unlock()
	var errs []error
	if out != nil {
		if _, err := out.Write(b); err != nil {
			errs = append(errs, fmt.Errorf("console: %w", err))
		}
	}
	if logRotator != nil {
		if _, err := logRotator.Write(b); err != nil {
			errs = append(errs, fmt.Errorf("log file: %w", err))
		}
	}
	return len(b), errors.Join(errs...)
}

// --- Global Logger State ---

var (
	mu         sync.Mutex
	out        io.Writer = os.Stderr
	logRotator *rotator.Rotator

	backend    = slog.NewBackend(logWriter{})
	level      = slog.LevelInfo
	subsystems = make(map[string]slog.Logger)
)

var mainLog = Subsystem("MAIN")

// exit terminates the process after Fatalf.
var exit = os.Exit

// ParseLevel converts a string (case-insensitive) to a level. "warning" is
// accepted for "warn". Returns LevelInfo and false if the string is not
// recognized.
func ParseLevel(levelStr string) (slog.Level, bool) {
	s := strings.ToLower(strings.TrimSpace(levelStr))
	if s == "warning" {
		s = "warn"
	}
	l, ok := slog.LevelFromString(s)
	if !ok {
		return slog.LevelInfo, false
	}
	return l, true
}

// Subsystem returns the logger for tag, creating it at the current level.
func Subsystem(tag string) slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if l, ok := subsystems[tag]; ok {
		return l
	}
	l := backend.Logger(tag)
	l.SetLevel(level)
	subsystems[tag] = l
	return l
}

// SetLevel sets the level of every subsystem logger.
func SetLevel(l slog.Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
	for _, logger := range subsystems {
		logger.SetLevel(l)
	}
}

// GetLevel returns the level applied to subsystem loggers.
func GetLevel() slog.Level {
	mu.Lock()
	defer mu.Unlock()
	return level
}

// SetOutput replaces the console writer. A nil writer silences the console.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// InitLogRotator additionally writes all log output to path, rolling the
// file over once it grows past the rotation threshold.
func InitLogRotator(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	r, err := rotator.New(path, logRotateThresholdKB, false, logRotateMaxRolls)
	if err != nil {
		return fmt.Errorf("failed to create file rotator: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if logRotator != nil {
		logRotator.Close()
	}
	logRotator = r
	return nil
}

// Close flushes and closes the log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logRotator == nil {
		return nil
	}
	err := logRotator.Close()
	logRotator = nil
	return err
}

// --- Public Logging Functions ---

func Debugf(format string, v ...interface{}) { mainLog.Debugf(format, v...) }
func Infof(format string, v ...interface{})  { mainLog.Infof(format, v...) }
func Warnf(format string, v ...interface{})  { mainLog.Warnf(format, v...) }
func Errorf(format string, v ...interface{}) { mainLog.Errorf(format, v...) }

// Fatalf logs at critical level, closes the log file and exits with status 1.
func Fatalf(format string, v ...interface{}) {
	mainLog.Criticalf(format, v...)
	Close()
	exit(1)
}
