package ble

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

type fakeCharacteristic struct {
	id    uuid.UUID
	value []byte
	err   error
}

func (c *fakeCharacteristic) UUID() uuid.UUID { return c.id }

func (c *fakeCharacteristic) Value(context.Context) ([]byte, error) {
	return c.value, c.err
}

type fakeService struct {
	id    uuid.UUID
	chars []Characteristic
	err   error
}

func (s *fakeService) UUID() uuid.UUID { return s.id }

func (s *fakeService) Characteristics(context.Context) ([]Characteristic, error) {
	return s.chars, s.err
}

type fakeDevice struct {
	name       string
	nameErr    error
	services   []Service
	connectErr error
}

func (d *fakeDevice) Name() (string, error) {
	if d.nameErr != nil {
		return "", d.nameErr
	}
	return d.name, nil
}

func (d *fakeDevice) Services(context.Context) ([]Service, error) {
	return d.services, nil
}

type fakeAdapter struct {
	devices   []Device
	listErr   error
	waitErr   error
	mu        sync.Mutex
	connected []string
}

func (a *fakeAdapter) WaitAvailable(context.Context) error { return a.waitErr }

func (a *fakeAdapter) ConnectedDevices(context.Context) ([]Device, error) {
	return a.devices, a.listErr
}

func (a *fakeAdapter) Connect(_ context.Context, d Device) error {
	fd := d.(*fakeDevice)
	if fd.connectErr != nil {
		return fd.connectErr
	}
	a.mu.Lock()
	a.connected = append(a.connected, fd.name)
	a.mu.Unlock()
	return nil
}

type fakeTransport struct {
	adapter Adapter
	err     error
}

func (t *fakeTransport) DefaultAdapter(context.Context) (Adapter, error) {
	return t.adapter, t.err
}

var (
	batteryServiceUUID = uuid.MustParse("0000180f-0000-1000-8000-00805f9b34fb")
	deviceInfoUUID     = uuid.MustParse("0000180a-0000-1000-8000-00805f9b34fb")
	levelUUID          = uuid.MustParse("00002a19-0000-1000-8000-00805f9b34fb")
	powerStateUUID     = uuid.MustParse("00002a1a-0000-1000-8000-00805f9b34fb")
	modelNumberUUID    = uuid.MustParse("00002a24-0000-1000-8000-00805f9b34fb")
)

func batteryDevice(name string, level byte) *fakeDevice {
	return &fakeDevice{
		name: name,
		services: []Service{
			&fakeService{
				id: deviceInfoUUID,
				chars: []Characteristic{
					&fakeCharacteristic{id: modelNumberUUID, value: []byte("MX")},
				},
			},
			&fakeService{
				id: batteryServiceUUID,
				chars: []Characteristic{
					&fakeCharacteristic{id: levelUUID, value: []byte{level}},
					&fakeCharacteristic{id: powerStateUUID, value: []byte{0xbb}},
				},
			},
		},
	}
}

var errGATT = errors.New("gatt read failed")
