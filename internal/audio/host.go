// SPDX-License-Identifier: MIT
/*
Package audio enumerates host audio devices.

A Host is the platform audio subsystem as seen through one backend
(PortAudio or miniaudio). The enumerators in devices.go only talk to the
Host and Device interfaces, so the backend adapters stay thin and the
listing rules can be tested against an in-memory host.
*/
package audio

import (
	"errors"
	"fmt"
	"sync"
)

// Backend names accepted by UseBackend.
const (
	BackendPortAudio = "portaudio"
	BackendMalgo     = "malgo"

	DefaultBackend = BackendPortAudio
)

var (
	ErrUnknownBackend  = errors.New("unknown audio backend")
	ErrBackendInit     = errors.New("audio backend initialization failed")
	ErrEnumeration     = errors.New("device enumeration failed")
	ErrNameUnavailable = errors.New("device name unavailable")
	ErrNoInputConfig   = errors.New("no default input configuration")
)

// StreamConfig describes one stream configuration a device can negotiate.
type StreamConfig struct {
	Channels     int     `json:"channels" yaml:"channels"`
	SampleRate   float64 `json:"sample_rate" yaml:"sample_rate"`
	SampleFormat string  `json:"sample_format,omitempty" yaml:"sample_format,omitempty"`
}

func (c StreamConfig) String() string {
	if c.SampleFormat == "" {
		return fmt.Sprintf("%d ch @ %.0f Hz", c.Channels, c.SampleRate)
	}
	return fmt.Sprintf("%d ch @ %.0f Hz (%s)", c.Channels, c.SampleRate, c.SampleFormat)
}

// Device is a single audio endpoint reported by a Host.
type Device interface {
	Name() (string, error)
	SupportedInputConfigs() ([]StreamConfig, error)
	DefaultInputConfig() (StreamConfig, error)
}

// Host is the device provider of one audio backend.
type Host interface {
	Name() string
	DefaultInputDevice() (Device, bool)
	DefaultOutputDevice() (Device, bool)
	InputDevices() ([]Device, error)
	OutputDevices() ([]Device, error)
}

// hostCloser is implemented by hosts holding native resources.
type hostCloser interface {
	Host
	Close() error
}

// backends maps a backend name to its host constructor.
var backends = map[string]func() (hostCloser, error){
	BackendPortAudio: newPortAudioHost,
	BackendMalgo:     newMalgoHost,
}

// Backends returns the names of the built-in backends.
func Backends() []string {
	return []string{BackendPortAudio, BackendMalgo}
}

var (
	hostMu      sync.Mutex
	hostOnce    sync.Once
	hostBackend = DefaultBackend
	hostStarted bool
	host        hostCloser
	hostErr     error
)

// UseBackend selects the backend DefaultHost initializes. It has no effect
// once DefaultHost has run, whether or not initialization succeeded.
func UseBackend(name string) error {
	if _, ok := backends[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	hostMu.Lock()
	defer hostMu.Unlock()
	if hostStarted {
		audioLog.Warnf("Audio host %s already initialized, ignoring backend %q",
			hostBackend, name)
		return nil
	}
	hostBackend = name
	return nil
}

// DefaultHost returns the process-wide host, creating it on first use.
func DefaultHost() (Host, error) {
	hostOnce.Do(func() {
		hostMu.Lock()
		defer hostMu.Unlock()

		hostStarted = true
		h, err := backends[hostBackend]()
		if err != nil {
			hostErr = fmt.Errorf("%w: %s: %w", ErrBackendInit, hostBackend, err)
			return
		}
		audioLog.Debugf("Initialized %s audio host", h.Name())
		host = h
	})

	hostMu.Lock()
	defer hostMu.Unlock()
	if hostErr != nil {
		return nil, hostErr
	}
	return host, nil
}

// Terminate releases the native resources held by the default host. The
// host is not recreated: later calls to DefaultHost and the listing
// functions fail with ErrBackendInit. Calling Terminate again is a no-op.
func Terminate() error {
	hostMu.Lock()
	defer hostMu.Unlock()
	if host == nil {
		return nil
	}
	if err := host.Close(); err != nil {
		return fmt.Errorf("failed to terminate %s host: %w", host.Name(), err)
	}
	audioLog.Debugf("Terminated %s audio host", host.Name())
	host = nil
	hostErr = fmt.Errorf("%w: host terminated", ErrBackendInit)
	return nil
}

// resetDefaultHost drops the singleton. Tests only.
func resetDefaultHost() {
	hostMu.Lock()
	defer hostMu.Unlock()
	hostOnce = sync.Once{}
	hostBackend = DefaultBackend
	hostStarted = false
	host = nil
	hostErr = nil
}
