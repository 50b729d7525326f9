package ble

import "errors"

var (
	// ErrAdapterUnavailable is returned when the system has no usable Bluetooth adapter.
	ErrAdapterUnavailable = errors.New("bluetooth adapter not found")

	// ErrNameUnavailable is returned when a peripheral does not expose a name.
	ErrNameUnavailable = errors.New("device name unavailable")

	// ErrNotConnected is returned by transports when GATT access is attempted
	// before connecting.
	ErrNotConnected = errors.New("device not connected")
)
