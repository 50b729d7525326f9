package ble

import (
	"context"

	"github.com/google/uuid"
)

// Transport gives access to the platform Bluetooth stack.
type Transport interface {
	// DefaultAdapter returns the default adapter, or ErrAdapterUnavailable
	// when there is none.
	DefaultAdapter(ctx context.Context) (Adapter, error)
}

// Adapter is a local Bluetooth radio.
type Adapter interface {
	// WaitAvailable blocks until the adapter is powered and usable.
	WaitAvailable(ctx context.Context) error
	// ConnectedDevices lists the peripherals the host is already connected to.
	ConnectedDevices(ctx context.Context) ([]Device, error)
	// Connect establishes a GATT connection to d.
	Connect(ctx context.Context, d Device) error
}

// Device is a BLE peripheral known to an Adapter.
type Device interface {
	Name() (string, error)
	Services(ctx context.Context) ([]Service, error)
}

// Service is a GATT service of a Device.
type Service interface {
	UUID() uuid.UUID
	Characteristics(ctx context.Context) ([]Characteristic, error)
}

// Characteristic is a readable GATT characteristic.
type Characteristic interface {
	UUID() uuid.UUID
	Value(ctx context.Context) ([]byte, error)
}
