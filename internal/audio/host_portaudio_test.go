package audio

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/gordonklaus/portaudio"
)

// mockHostApi installs a fake default host API for the duration of t.
func mockHostApi(t *testing.T, api *portaudio.HostApiInfo, err error) {
	t.Helper()
	orig := paLibDefaultHostApiFunc
	t.Cleanup(func() { paLibDefaultHostApiFunc = orig })
	paLibDefaultHostApiFunc = func() (*portaudio.HostApiInfo, error) {
		return api, err
	}
}

// mockFormatSupport accepts a stream when accept returns true.
func mockFormatSupport(t *testing.T, accept func(p portaudio.StreamParameters) bool) {
	t.Helper()
	orig := paLibIsFormatSupportedFn
	t.Cleanup(func() { paLibIsFormatSupportedFn = orig })
	paLibIsFormatSupportedFn = func(p portaudio.StreamParameters) error {
		if accept(p) {
			return nil
		}
		return fmt.Errorf("Invalid sample rate")
	}
}

func testHostApi() *portaudio.HostApiInfo {
	mic := &portaudio.DeviceInfo{Index: 0, Name: "Built-in Microphone", MaxInputChannels: 2, DefaultSampleRate: 48000}
	speakers := &portaudio.DeviceInfo{Index: 1, Name: "Built-in Output", MaxOutputChannels: 2, DefaultSampleRate: 48000}
	headset := &portaudio.DeviceInfo{Index: 2, Name: "USB Headset", MaxInputChannels: 1, MaxOutputChannels: 2, DefaultSampleRate: 44100}
	broken := &portaudio.DeviceInfo{Index: 3, Name: "Broken Interface", MaxInputChannels: 8, DefaultSampleRate: 96000}
	return &portaudio.HostApiInfo{
		Name:                "Core Audio",
		DefaultInputDevice:  mic,
		DefaultOutputDevice: speakers,
		Devices:             []*portaudio.DeviceInfo{mic, speakers, headset, broken},
	}
}

// acceptAllButBroken rejects every stream on the broken interface.
func acceptAllButBroken(p portaudio.StreamParameters) bool {
	return p.Input.Device.Name != "Broken Interface"
}

func TestPortAudioHost_Lists(t *testing.T) {
	mockHostApi(t, testHostApi(), nil)
	mockFormatSupport(t, acceptAllButBroken)

	h := portAudioHost{}

	inputs, err := ListInputDevicesFrom(h)
	if err != nil {
		t.Fatalf("ListInputDevicesFrom error: %v", err)
	}
	wantIn := []DeviceDescriptor{
		{Index: "0", Name: "Built-in Microphone", IsDefault: true},
		{Index: "1", Name: "USB Headset"},
	}
	if len(inputs) != len(wantIn) {
		t.Fatalf("got %d inputs, want %d: %+v", len(inputs), len(wantIn), inputs)
	}
	for i, w := range wantIn {
		if inputs[i].Index != w.Index || inputs[i].Name != w.Name || inputs[i].IsDefault != w.IsDefault {
			t.Errorf("input %d = %+v, want %+v", i, inputs[i], w)
		}
	}

	outputs, err := ListOutputDevicesFrom(h)
	if err != nil {
		t.Fatalf("ListOutputDevicesFrom error: %v", err)
	}
	if len(outputs) != 2 || outputs[0].Name != "Built-in Output" || !outputs[0].IsDefault ||
		outputs[1].Name != "USB Headset" || outputs[1].IsDefault {
		t.Errorf("unexpected outputs: %+v", outputs)
	}
}

func TestPortAudioHost_DefaultHostApiError(t *testing.T) {
	mockHostApi(t, nil, fmt.Errorf("mock error"))

	h := portAudioHost{}
	if _, ok := h.DefaultInputDevice(); ok {
		t.Error("expected no default input device")
	}
	if _, ok := h.DefaultOutputDevice(); ok {
		t.Error("expected no default output device")
	}

	_, err := ListInputDevicesFrom(h)
	if err == nil || !strings.Contains(err.Error(), "mock error") {
		t.Errorf("expected mock error, got %v", err)
	}
	_, err = ListOutputDevicesFrom(h)
	if err == nil || !errors.Is(err, ErrEnumeration) {
		t.Errorf("expected ErrEnumeration, got %v", err)
	}
}

func TestPortAudioHost_NoDefaults(t *testing.T) {
	api := testHostApi()
	api.DefaultInputDevice = nil
	api.DefaultOutputDevice = nil
	mockHostApi(t, api, nil)
	mockFormatSupport(t, acceptAllButBroken)

	for _, list := range []func(Host) ([]DeviceDescriptor, error){ListInputDevicesFrom, ListOutputDevicesFrom} {
		devices, err := list(portAudioHost{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, d := range devices {
			if d.IsDefault {
				t.Errorf("device %q marked default", d.Name)
			}
		}
	}
}

func TestPortAudioDevice_SupportedInputConfigs(t *testing.T) {
	mockFormatSupport(t, func(p portaudio.StreamParameters) bool {
		return p.SampleRate == 44100 || p.SampleRate == 48000
	})

	d := portAudioDevice{info: &portaudio.DeviceInfo{Name: "Interface", MaxInputChannels: 4, DefaultSampleRate: 48000}}
	configs, err := d.SupportedInputConfigs()
	if err != nil {
		t.Fatalf("SupportedInputConfigs error: %v", err)
	}
	want := []StreamConfig{
		{1, 44100, "float32"}, {1, 48000, "float32"},
		{4, 44100, "float32"}, {4, 48000, "float32"},
	}
	if len(configs) != len(want) {
		t.Fatalf("got %v, want %v", configs, want)
	}
	for i := range want {
		if configs[i] != want[i] {
			t.Errorf("config %d = %v, want %v", i, configs[i], want[i])
		}
	}

	out := portAudioDevice{info: &portaudio.DeviceInfo{Name: "Speakers", MaxOutputChannels: 2}}
	if configs, _ := out.SupportedInputConfigs(); len(configs) != 0 {
		t.Errorf("output-only device reported input configs: %v", configs)
	}
}

func TestPortAudioDevice_DefaultInputConfig(t *testing.T) {
	mockFormatSupport(t, func(p portaudio.StreamParameters) bool {
		return p.SampleRate != 96000
	})

	tests := []struct {
		name    string
		info    portaudio.DeviceInfo
		want    StreamConfig
		wantErr bool
	}{
		{"Mono", portaudio.DeviceInfo{MaxInputChannels: 1, DefaultSampleRate: 16000}, StreamConfig{1, 16000, "float32"}, false},
		{"Capped at stereo", portaudio.DeviceInfo{MaxInputChannels: 8, DefaultSampleRate: 48000}, StreamConfig{2, 48000, "float32"}, false},
		{"Rejected rate", portaudio.DeviceInfo{MaxInputChannels: 2, DefaultSampleRate: 96000}, StreamConfig{}, true},
		{"No rate", portaudio.DeviceInfo{MaxInputChannels: 2}, StreamConfig{}, true},
		{"Output only", portaudio.DeviceInfo{MaxOutputChannels: 2, DefaultSampleRate: 48000}, StreamConfig{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := tt.info
			got, err := portAudioDevice{info: &info}.DefaultInputConfig()
			if tt.wantErr {
				if !errors.Is(err, ErrNoInputConfig) {
					t.Errorf("expected ErrNoInputConfig, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DefaultInputConfig error: %v", err)
			}
			if got != tt.want {
				t.Errorf("DefaultInputConfig() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPortAudioDevice_EmptyName(t *testing.T) {
	d := portAudioDevice{info: &portaudio.DeviceInfo{}}
	if _, err := d.Name(); !errors.Is(err, ErrNameUnavailable) {
		t.Errorf("expected ErrNameUnavailable, got %v", err)
	}
}

func TestErrorInitialize(t *testing.T) {
	orig := paLibInitialize
	defer func() { paLibInitialize = orig }()

	paLibInitialize = func() error { return nil }
	if _, err := newPortAudioHost(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}

	paLibInitialize = func() error { return fmt.Errorf("mock init error") }
	if _, err := newPortAudioHost(); err == nil || !strings.Contains(err.Error(), "mock init error") {
		t.Errorf("expected mock init error, got %v", err)
	}
}

func TestErrorTerminate(t *testing.T) {
	orig := paLibTerminate
	defer func() { paLibTerminate = orig }()

	paLibTerminate = func() error { return nil }
	if err := (portAudioHost{}).Close(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}

	paLibTerminate = func() error { return fmt.Errorf("mock term error") }
	if err := (portAudioHost{}).Close(); err == nil || !strings.Contains(err.Error(), "mock term error") {
		t.Errorf("expected mock term error, got %v", err)
	}
}
