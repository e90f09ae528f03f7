package audio

import (
	"fmt"
	"strconv"
)

// IsValidInput reports whether the device exposes at least one supported
// input configuration and a resolvable default input configuration.
func IsValidInput(d Device) bool {
	configs, err := d.SupportedInputConfigs()
	if err != nil || len(configs) == 0 {
		return false
	}
	_, err = d.DefaultInputConfig()
	return err == nil
}

// ListInputDevices lists the usable input devices of the default host.
func ListInputDevices() ([]DeviceDescriptor, error) {
	h, err := DefaultHost()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEnumeration, err)
	}
	return ListInputDevicesFrom(h)
}

// ListOutputDevices lists the output devices of the default host.
func ListOutputDevices() ([]DeviceDescriptor, error) {
	h, err := DefaultHost()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEnumeration, err)
	}
	return ListOutputDevicesFrom(h)
}

// ListInputDevicesFrom lists the input devices of h that pass IsValidInput.
// Indices count accepted devices only, so they are dense over the result.
func ListInputDevicesFrom(h Host) ([]DeviceDescriptor, error) {
	defName, hasDefault := defaultName(h.DefaultInputDevice())

	devices, err := h.InputDevices()
	if err != nil {
		return nil, fmt.Errorf("%w: %s input devices: %w", ErrEnumeration, h.Name(), err)
	}

	out := make([]DeviceDescriptor, 0, len(devices))
	for _, d := range devices {
		if !IsValidInput(d) {
			audioLog.Debugf("Skipping device %q: no valid input configuration",
				deviceName(d))
			continue
		}

		name := deviceName(d)
		out = append(out, DeviceDescriptor{
			Index:     strconv.Itoa(len(out)),
			Name:      name,
			IsDefault: hasDefault && name == defName,
			Device:    d,
		})
	}

	audioLog.Debugf("Listed %d of %d %s input devices", len(out), len(devices), h.Name())
	return out, nil
}

// ListOutputDevicesFrom lists every output device of h in host order.
func ListOutputDevicesFrom(h Host) ([]DeviceDescriptor, error) {
	defName, hasDefault := defaultName(h.DefaultOutputDevice())

	devices, err := h.OutputDevices()
	if err != nil {
		return nil, fmt.Errorf("%w: %s output devices: %w", ErrEnumeration, h.Name(), err)
	}

	out := make([]DeviceDescriptor, len(devices))
	for i, d := range devices {
		name := deviceName(d)
		out[i] = DeviceDescriptor{
			Index:     strconv.Itoa(i),
			Name:      name,
			IsDefault: hasDefault && name == defName,
			Device:    d,
		}
	}

	audioLog.Debugf("Listed %d %s output devices", len(out), h.Name())
	return out, nil
}
