package audio

import (
	"fmt"

	"github.com/gen2brain/malgo"
)

// Fallbacks for native formats that leave channels or rate open.
const (
	malgoFallbackChannels   = 2
	malgoFallbackSampleRate = 48000
)

// malgoHost is a miniaudio context over the platform default backends.
type malgoHost struct {
	ctx *malgo.AllocatedContext
}

func newMalgoHost() (hostCloser, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(msg string) {
		audioLog.Tracef("miniaudio: %s", msg)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize miniaudio context: %w", err)
	}
	return &malgoHost{ctx: ctx}, nil
}

func (h *malgoHost) Name() string { return BackendMalgo }

func (h *malgoHost) Close() error {
	if err := h.ctx.Uninit(); err != nil {
		return err
	}
	h.ctx.Free()
	return nil
}

func (h *malgoHost) DefaultInputDevice() (Device, bool) {
	return h.defaultDevice(malgo.Capture)
}

func (h *malgoHost) DefaultOutputDevice() (Device, bool) {
	return h.defaultDevice(malgo.Playback)
}

func (h *malgoHost) InputDevices() ([]Device, error) {
	return h.devices(malgo.Capture)
}

func (h *malgoHost) OutputDevices() ([]Device, error) {
	return h.devices(malgo.Playback)
}

func (h *malgoHost) devices(typ malgo.DeviceType) ([]Device, error) {
	infos, err := h.ctx.Devices(typ)
	if err != nil {
		return nil, err
	}
	out := make([]Device, len(infos))
	for i := range infos {
		out[i] = &malgoDevice{ctx: h.ctx, typ: typ, info: infos[i]}
	}
	return out, nil
}

func (h *malgoHost) defaultDevice(typ malgo.DeviceType) (Device, bool) {
	infos, err := h.ctx.Devices(typ)
	if err != nil {
		return nil, false
	}
	for i := range infos {
		if infos[i].IsDefault == 1 {
			return &malgoDevice{ctx: h.ctx, typ: typ, info: infos[i]}, true
		}
	}
	return nil, false
}

// malgoDevice is one miniaudio device. Native formats are only reported by
// the full device info query, so the config methods issue it on demand.
type malgoDevice struct {
	ctx  *malgo.AllocatedContext
	typ  malgo.DeviceType
	info malgo.DeviceInfo
}

func (d *malgoDevice) Name() (string, error) {
	name := d.info.Name()
	if name == "" {
		return "", ErrNameUnavailable
	}
	return name, nil
}

func (d *malgoDevice) SupportedInputConfigs() ([]StreamConfig, error) {
	if d.typ != malgo.Capture {
		return nil, nil
	}
	full, err := d.ctx.DeviceInfo(d.typ, d.info.ID, malgo.Shared)
	if err != nil {
		return nil, err
	}
	return malgoConfigs(full.Formats[:full.FormatCount]), nil
}

func (d *malgoDevice) DefaultInputConfig() (StreamConfig, error) {
	if d.typ != malgo.Capture {
		return StreamConfig{}, ErrNoInputConfig
	}
	full, err := d.ctx.DeviceInfo(d.typ, d.info.ID, malgo.Shared)
	if err != nil {
		return StreamConfig{}, fmt.Errorf("%w: %w", ErrNoInputConfig, err)
	}
	return malgoDefaultConfig(full.Formats[:full.FormatCount])
}

func malgoConfigs(formats []malgo.DataFormat) []StreamConfig {
	configs := make([]StreamConfig, 0, len(formats))
	for _, f := range formats {
		configs = append(configs, malgoConfig(f))
	}
	return configs
}

// malgoDefaultConfig picks the first native format, as miniaudio does when
// a device is opened without an explicit format.
func malgoDefaultConfig(formats []malgo.DataFormat) (StreamConfig, error) {
	if len(formats) == 0 {
		return StreamConfig{}, ErrNoInputConfig
	}
	return malgoConfig(formats[0]), nil
}

func malgoConfig(f malgo.DataFormat) StreamConfig {
	c := StreamConfig{
		Channels:     int(f.Channels),
		SampleRate:   float64(f.SampleRate),
		SampleFormat: malgoFormatName(f.Format),
	}
	if c.Channels == 0 {
		c.Channels = malgoFallbackChannels
	}
	if c.SampleRate == 0 {
		c.SampleRate = malgoFallbackSampleRate
	}
	return c
}

func malgoFormatName(f malgo.FormatType) string {
	switch f {
	case malgo.FormatU8:
		return "u8"
	case malgo.FormatS16:
		return "s16"
	case malgo.FormatS24:
		return "s24"
	case malgo.FormatS32:
		return "s32"
	case malgo.FormatF32:
		return "f32"
	default:
		return ""
	}
}
