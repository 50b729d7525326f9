//go:build darwin

package corebluetooth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tinygo-org/cbgo"

	"github.com/charlie0129/peribatt/pkg/ble"
	"github.com/charlie0129/peribatt/pkg/config"
)

var batteryService = cbgo.MustParseUUID(config.BatteryServiceUUID.String())

// Transport is the CoreBluetooth ble.Transport.
type Transport struct {
	// Timeout bounds every CoreBluetooth round trip.
	Timeout time.Duration
}

var _ ble.Transport = &Transport{}

// NewTransport returns a Transport giving CoreBluetooth 10s per request.
func NewTransport() *Transport {
	return &Transport{
		Timeout: 10 * time.Second,
	}
}

func (t *Transport) DefaultAdapter(_ context.Context) (ble.Adapter, error) {
	a := &adapter{
		cm:      cbgo.NewCentralManager(nil),
		timeout: t.Timeout,
		stateCh: make(chan error, 1),
	}
	a.cm.SetDelegate(a)
	return a, nil
}

type adapter struct {
	cbgo.CentralManagerDelegateBase

	cm      cbgo.CentralManager
	timeout time.Duration
	stateCh chan error
	// pending maps peripheral identifiers to their connection attempt.
	pending sync.Map
}

func (a *adapter) CentralManagerDidUpdateState(_ cbgo.CentralManager) {
	notify(a.stateCh, nil)
}

func (a *adapter) DidConnectPeripheral(_ cbgo.CentralManager, prph cbgo.Peripheral) {
	a.connected(prph, nil)
}

func (a *adapter) DidFailToConnectPeripheral(_ cbgo.CentralManager, prph cbgo.Peripheral, err error) {
	if err == nil {
		err = errors.New("connection refused")
	}
	a.connected(prph, err)
}

func (a *adapter) connected(prph cbgo.Peripheral, err error) {
	if ch, ok := a.pending.LoadAndDelete(prph.Identifier().String()); ok {
		notify(ch.(chan error), err)
	}
}

func (a *adapter) WaitAvailable(ctx context.Context) error {
	for {
		switch state := a.cm.State(); state {
		case cbgo.ManagerStatePoweredOn:
			return nil
		case cbgo.ManagerStateUnsupported:
			return pkgerrors.Wrap(ble.ErrAdapterUnavailable, "this mac does not support bluetooth low energy")
		case cbgo.ManagerStateUnauthorized:
			return pkgerrors.Wrap(ble.ErrAdapterUnavailable, "bluetooth access is not authorized")
		default:
			logrus.Tracef("central manager is in state %d", state)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-a.stateCh:
		}
	}
}

// ConnectedDevices lists the peripherals connected to the system that expose
// the Battery service. CoreBluetooth cannot list connected peripherals
// without a service filter.
func (a *adapter) ConnectedDevices(_ context.Context) ([]ble.Device, error) {
	prphs := a.cm.RetrieveConnectedPeripheralsWithServices([]cbgo.UUID{batteryService})

	devices := make([]ble.Device, 0, len(prphs))
	for _, p := range prphs {
		logrus.WithFields(logrus.Fields{
			"identifier": p.Identifier().String(),
			"name":       p.Name(),
		}).Debug("found connected device")
		devices = append(devices, newDevice(p, a.timeout))
	}

	return devices, nil
}

func (a *adapter) Connect(ctx context.Context, d ble.Device) error {
	dev, ok := d.(*device)
	if !ok {
		return pkgerrors.Errorf("unsupported device type %T", d)
	}

	id := dev.prph.Identifier().String()
	ch := make(chan error, 1)
	a.pending.Store(id, ch)

	dev.prph.SetDelegate(dev)
	a.cm.Connect(dev.prph, nil)

	if err := wait(ctx, ch, a.timeout, "connect to "+id); err != nil {
		a.pending.Delete(id)
		a.cm.CancelConnect(dev.prph)
		return err
	}
	dev.connected = true

	return nil
}

type device struct {
	cbgo.PeripheralDelegateBase

	prph      cbgo.Peripheral
	timeout   time.Duration
	connected bool

	servicesCh chan error
	charsCh    chan error
	readCh     chan error
}

func newDevice(p cbgo.Peripheral, timeout time.Duration) *device {
	return &device{
		prph:       p,
		timeout:    timeout,
		servicesCh: make(chan error, 1),
		charsCh:    make(chan error, 1),
		readCh:     make(chan error, 1),
	}
}

func (d *device) DidDiscoverServices(_ cbgo.Peripheral, err error) {
	notify(d.servicesCh, err)
}

func (d *device) DidDiscoverCharacteristics(_ cbgo.Peripheral, _ cbgo.Service, err error) {
	notify(d.charsCh, err)
}

func (d *device) DidUpdateValueForCharacteristic(_ cbgo.Peripheral, _ cbgo.Characteristic, err error) {
	notify(d.readCh, err)
}

func (d *device) Name() (string, error) {
	name := d.prph.Name()
	if name == "" {
		return "", pkgerrors.Wrapf(ble.ErrNameUnavailable, "%s has no name", d.prph.Identifier())
	}
	return name, nil
}

func (d *device) Services(ctx context.Context) ([]ble.Service, error) {
	if !d.connected {
		return nil, ble.ErrNotConnected
	}

	drain(d.servicesCh)
	d.prph.DiscoverServices(nil)
	if err := wait(ctx, d.servicesCh, d.timeout, "discover services"); err != nil {
		return nil, err
	}

	svcs := d.prph.Services()
	ret := make([]ble.Service, 0, len(svcs))
	for _, s := range svcs {
		ret = append(ret, &service{dev: d, svc: s})
	}
	return ret, nil
}

type service struct {
	dev *device
	svc cbgo.Service
}

func (s *service) UUID() uuid.UUID {
	return parseUUID(s.svc.UUID().String())
}

func (s *service) Characteristics(ctx context.Context) ([]ble.Characteristic, error) {
	drain(s.dev.charsCh)
	s.dev.prph.DiscoverCharacteristics(nil, s.svc)
	if err := wait(ctx, s.dev.charsCh, s.dev.timeout, "discover characteristics"); err != nil {
		return nil, err
	}

	chars := s.svc.Characteristics()
	ret := make([]ble.Characteristic, 0, len(chars))
	for _, c := range chars {
		ret = append(ret, &characteristic{dev: s.dev, chr: c})
	}
	return ret, nil
}

type characteristic struct {
	dev *device
	chr cbgo.Characteristic
}

func (c *characteristic) UUID() uuid.UUID {
	return parseUUID(c.chr.UUID().String())
}

func (c *characteristic) Value(ctx context.Context) ([]byte, error) {
	drain(c.dev.readCh)
	c.dev.prph.ReadCharacteristic(c.chr)
	if err := wait(ctx, c.dev.readCh, c.dev.timeout, "read "+c.chr.UUID().String()); err != nil {
		return nil, err
	}

	v := c.chr.Value()
	logrus.Tracef("read %d bytes from %s: %x", len(v), c.chr.UUID(), v)
	return v, nil
}
