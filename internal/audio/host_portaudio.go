package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// Sample rates checked when building the supported input configurations.
var standardSampleRates = []float64{8000, 11025, 16000, 22050, 32000, 44100, 48000, 88200, 96000, 176400, 192000}

const portAudioSampleFormat = "float32"

// Seams over the PortAudio library, swapped in tests.
var (
	paLibInitialize          = portaudio.Initialize
	paLibTerminate           = portaudio.Terminate
	paLibDefaultHostApiFunc  = portaudio.DefaultHostApi
	paLibIsFormatSupportedFn = func(p portaudio.StreamParameters) error {
		return portaudio.IsFormatSupported(p, func(in []float32) {})
	}
)

// portAudioHost is the PortAudio default host API.
type portAudioHost struct{}

func newPortAudioHost() (hostCloser, error) {
	if err := paLibInitialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	return portAudioHost{}, nil
}

func (portAudioHost) Name() string { return BackendPortAudio }

func (portAudioHost) Close() error {
	if err := paLibTerminate(); err != nil {
		return fmt.Errorf("failed to terminate PortAudio: %w", err)
	}
	return nil
}

func (portAudioHost) DefaultInputDevice() (Device, bool) {
	api, err := paLibDefaultHostApiFunc()
	if err != nil || api == nil || api.DefaultInputDevice == nil {
		return nil, false
	}
	return portAudioDevice{info: api.DefaultInputDevice}, true
}

func (portAudioHost) DefaultOutputDevice() (Device, bool) {
	api, err := paLibDefaultHostApiFunc()
	if err != nil || api == nil || api.DefaultOutputDevice == nil {
		return nil, false
	}
	return portAudioDevice{info: api.DefaultOutputDevice}, true
}

func (h portAudioHost) InputDevices() ([]Device, error) {
	return h.devices(func(info *portaudio.DeviceInfo) bool {
		return info.MaxInputChannels > 0
	})
}

func (h portAudioHost) OutputDevices() ([]Device, error) {
	return h.devices(func(info *portaudio.DeviceInfo) bool {
		return info.MaxOutputChannels > 0
	})
}

func (portAudioHost) devices(keep func(*portaudio.DeviceInfo) bool) ([]Device, error) {
	api, err := paLibDefaultHostApiFunc()
	if err != nil {
		return nil, err
	}
	if api == nil {
		return nil, fmt.Errorf("no default PortAudio host API")
	}

	out := make([]Device, 0, len(api.Devices))
	for _, info := range api.Devices {
		if info != nil && keep(info) {
			out = append(out, portAudioDevice{info: info})
		}
	}
	return out, nil
}

// portAudioDevice wraps a PortAudio device info record.
type portAudioDevice struct {
	info *portaudio.DeviceInfo
}

func (d portAudioDevice) Name() (string, error) {
	if d.info.Name == "" {
		return "", ErrNameUnavailable
	}
	return d.info.Name, nil
}

// SupportedInputConfigs checks the standard sample rates at mono and at the
// device's maximum channel count.
func (d portAudioDevice) SupportedInputConfigs() ([]StreamConfig, error) {
	if d.info.MaxInputChannels <= 0 {
		return nil, nil
	}

	channelCounts := []int{1}
	if d.info.MaxInputChannels > 1 {
		channelCounts = append(channelCounts, d.info.MaxInputChannels)
	}

	var configs []StreamConfig
	for _, ch := range channelCounts {
		for _, rate := range standardSampleRates {
			if d.supports(ch, rate) {
				configs = append(configs, StreamConfig{
					Channels:     ch,
					SampleRate:   rate,
					SampleFormat: portAudioSampleFormat,
				})
			}
		}
	}
	return configs, nil
}

// DefaultInputConfig is the device default sample rate at up to two channels.
func (d portAudioDevice) DefaultInputConfig() (StreamConfig, error) {
	if d.info.MaxInputChannels <= 0 || d.info.DefaultSampleRate <= 0 {
		return StreamConfig{}, ErrNoInputConfig
	}

	ch := min(d.info.MaxInputChannels, 2)
	if !d.supports(ch, d.info.DefaultSampleRate) {
		return StreamConfig{}, fmt.Errorf("%w: %d ch @ %.0f Hz rejected",
			ErrNoInputConfig, ch, d.info.DefaultSampleRate)
	}
	return StreamConfig{
		Channels:     ch,
		SampleRate:   d.info.DefaultSampleRate,
		SampleFormat: portAudioSampleFormat,
	}, nil
}

func (d portAudioDevice) supports(channels int, rate float64) bool {
	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Channels: channels,
			Device:   d.info,
			Latency:  d.info.DefaultHighInputLatency,
		},
		Output: portaudio.StreamDeviceParameters{
			Channels: 0,
			Device:   nil,
		},
		FramesPerBuffer: portaudio.FramesPerBufferUnspecified,
		SampleRate:      rate,
	}
	return paLibIsFormatSupportedFn(params) == nil
}
