package audio

import (
	"errors"
	"fmt"
)

// UnknownDeviceName replaces a device name the backend could not report.
const UnknownDeviceName = "Unknown"

var ErrDeviceNotFound = errors.New("device not found")

// DeviceDescriptor is one entry of an enumeration result. It is built fresh
// on every listing call; Index is only meaningful within that result.
type DeviceDescriptor struct {
	Index     string `json:"index" yaml:"index"`
	Name      string `json:"name" yaml:"name"`
	IsDefault bool   `json:"is_default" yaml:"is_default"`
	Device    Device `json:"-" yaml:"-"`
}

// FindDevice returns the descriptor with the given index.
func FindDevice(devices []DeviceDescriptor, index string) (DeviceDescriptor, error) {
	for _, d := range devices {
		if d.Index == index {
			return d, nil
		}
	}
	return DeviceDescriptor{}, fmt.Errorf("%w: index %s", ErrDeviceNotFound, index)
}

// DefaultDevice returns the first descriptor flagged as default.
func DefaultDevice(devices []DeviceDescriptor) (DeviceDescriptor, bool) {
	for _, d := range devices {
		if d.IsDefault {
			return d, true
		}
	}
	return DeviceDescriptor{}, false
}

// deviceName reads the device name, substituting UnknownDeviceName.
func deviceName(d Device) string {
	name, err := d.Name()
	if err != nil {
		return UnknownDeviceName
	}
	return name
}

// defaultName resolves the name of a host default device, if any.
func defaultName(d Device, ok bool) (string, bool) {
	if !ok || d == nil {
		return "", false
	}
	name, err := d.Name()
	if err != nil {
		return "", false
	}
	return name, true
}
