//go:build linux

package bluez

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"tinygo.org/x/bluetooth"

	"github.com/charlie0129/peribatt/pkg/ble"
)

const (
	bluezService      = "org.bluez"
	adapterInterface  = "org.bluez.Adapter1"
	deviceInterface   = "org.bluez.Device1"
	getManagedObjects = "org.freedesktop.DBus.ObjectManager.GetManagedObjects"

	// defaultAdapterPath is the adapter tinygo's DefaultAdapter binds to.
	defaultAdapterPath = dbus.ObjectPath("/org/bluez/hci0")

	// maxAttributeLength is the largest value an ATT attribute can hold.
	maxAttributeLength = 512
)

type managedObjects map[dbus.ObjectPath]map[string]map[string]dbus.Variant

// Transport is the BlueZ ble.Transport.
type Transport struct {
	PollInterval time.Duration
}

var _ ble.Transport = &Transport{}

// NewTransport returns a Transport polling adapter state every 500ms.
func NewTransport() *Transport {
	return &Transport{
		PollInterval: 500 * time.Millisecond,
	}
}

func (t *Transport) DefaultAdapter(_ context.Context) (ble.Adapter, error) {
	bt := bluetooth.DefaultAdapter
	if err := bt.Enable(); err != nil {
		return nil, pkgerrors.Wrapf(ble.ErrAdapterUnavailable, "failed to enable adapter: %v", err)
	}

	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, pkgerrors.Wrapf(ble.ErrAdapterUnavailable, "failed to connect to system bus: %v", err)
	}

	objects, err := listObjects(conn)
	if err != nil {
		return nil, err
	}
	if _, ok := objects[defaultAdapterPath][adapterInterface]; !ok {
		return nil, pkgerrors.Wrapf(ble.ErrAdapterUnavailable, "%s not present", defaultAdapterPath)
	}

	return &adapter{
		bt:   bt,
		conn: conn,
		path: defaultAdapterPath,
		poll: t.PollInterval,
	}, nil
}

type adapter struct {
	bt   *bluetooth.Adapter
	conn *dbus.Conn
	path dbus.ObjectPath
	poll time.Duration
}

func (a *adapter) WaitAvailable(ctx context.Context) error {
	obj := a.conn.Object(bluezService, a.path)
	for {
		v, err := obj.GetProperty(adapterInterface + ".Powered")
		if err != nil {
			return pkgerrors.Wrapf(err, "failed to read power state of %s", a.path)
		}
		if powered, ok := v.Value().(bool); ok && powered {
			return nil
		}
		logrus.Tracef("%s is not powered yet", a.path)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(a.poll):
		}
	}
}

func (a *adapter) ConnectedDevices(_ context.Context) ([]ble.Device, error) {
	objects, err := listObjects(a.conn)
	if err != nil {
		return nil, err
	}

	paths := make([]dbus.ObjectPath, 0, len(objects))
	for path := range objects {
		paths = append(paths, path)
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })

	var devices []ble.Device
	for _, path := range paths {
		props, ok := objects[path][deviceInterface]
		if !ok || !strings.HasPrefix(string(path), string(a.path)+"/") {
			continue
		}
		if connected, _ := props["Connected"].Value().(bool); !connected {
			continue
		}

		d := &device{path: path}
		d.address, _ = props["Address"].Value().(string)
		d.name, _ = props["Alias"].Value().(string)
		if d.name == "" {
			d.name, _ = props["Name"].Value().(string)
		}

		logrus.WithFields(logrus.Fields{
			"path":    path,
			"address": d.address,
			"name":    d.name,
		}).Debug("found connected device")
		devices = append(devices, d)
	}

	return devices, nil
}

func (a *adapter) Connect(_ context.Context, d ble.Device) error {
	dev, ok := d.(*device)
	if !ok {
		return pkgerrors.Errorf("unsupported device type %T", d)
	}

	mac, err := bluetooth.ParseMAC(dev.address)
	if err != nil {
		return pkgerrors.Wrapf(err, "invalid address %q of %s", dev.address, dev.path)
	}

	conn, err := a.bt.Connect(bluetooth.Address{MACAddress: bluetooth.MACAddress{MAC: mac}}, bluetooth.ConnectionParams{})
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to connect to %s", dev.address)
	}
	dev.gatt = conn

	return nil
}

func listObjects(conn *dbus.Conn) (managedObjects, error) {
	var objects managedObjects
	err := conn.Object(bluezService, "/").Call(getManagedObjects, 0).Store(&objects)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to list bluez objects")
	}
	return objects, nil
}

// gattDevice is the part of bluetooth.Device peribatt needs.
type gattDevice interface {
	DiscoverServices(uuids []bluetooth.UUID) ([]bluetooth.DeviceService, error)
}

type device struct {
	path    dbus.ObjectPath
	address string
	name    string
	gatt    gattDevice
}

func (d *device) Name() (string, error) {
	if d.name == "" {
		return "", pkgerrors.Wrapf(ble.ErrNameUnavailable, "%s has no name", d.path)
	}
	return d.name, nil
}

func (d *device) Services(_ context.Context) ([]ble.Service, error) {
	if d.gatt == nil {
		return nil, ble.ErrNotConnected
	}

	svcs, err := d.gatt.DiscoverServices(nil)
	if err != nil {
		return nil, err
	}

	ret := make([]ble.Service, 0, len(svcs))
	for _, s := range svcs {
		ret = append(ret, &service{svc: s})
	}
	return ret, nil
}

type service struct {
	svc bluetooth.DeviceService
}

func (s *service) UUID() uuid.UUID {
	return toUUID(s.svc.UUID())
}

func (s *service) Characteristics(_ context.Context) ([]ble.Characteristic, error) {
	chars, err := s.svc.DiscoverCharacteristics(nil)
	if err != nil {
		return nil, err
	}

	ret := make([]ble.Characteristic, 0, len(chars))
	for _, c := range chars {
		ret = append(ret, &characteristic{ch: c})
	}
	return ret, nil
}

type characteristic struct {
	ch bluetooth.DeviceCharacteristic
}

func (c *characteristic) UUID() uuid.UUID {
	return toUUID(c.ch.UUID())
}

func (c *characteristic) Value(_ context.Context) ([]byte, error) {
	buf := make([]byte, maxAttributeLength)
	n, err := c.ch.Read(buf)
	if err != nil {
		return nil, err
	}
	logrus.Tracef("read %d bytes from %s: %x", n, c.ch.UUID(), buf[:n])
	return buf[:n], nil
}

func toUUID(u bluetooth.UUID) uuid.UUID {
	id, err := uuid.Parse(u.String())
	if err != nil {
		return uuid.Nil
	}
	return id
}
