// Package ble reads battery information from connected Bluetooth Low
// Energy peripherals through the standard GATT battery characteristics.
package ble

import (
	"context"
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/charlie0129/peribatt/pkg/config"
	"github.com/charlie0129/peribatt/pkg/powerinfo"
)

// GetAdapter returns the default adapter of t once it is available.
func GetAdapter(ctx context.Context, t Transport) (Adapter, error) {
	adapter, err := t.DefaultAdapter(ctx)
	if err != nil {
		return nil, err
	}
	if adapter == nil {
		return nil, ErrAdapterUnavailable
	}

	logrus.Debug("waiting for bluetooth adapter to become available")
	if err := adapter.WaitAvailable(ctx); err != nil {
		return nil, pkgerrors.Wrap(err, "bluetooth adapter did not become available")
	}

	return adapter, nil
}

// Scanner reads Readings from the peripherals of an Adapter.
type Scanner struct {
	decoder     powerinfo.StatusDecoder
	concurrency int
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithStatusDecoder replaces the decoder of the Battery Power State characteristic.
func WithStatusDecoder(d powerinfo.StatusDecoder) Option {
	return func(s *Scanner) {
		s.decoder = d
	}
}

// WithConcurrency sets how many peripherals are read at the same time.
func WithConcurrency(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{
		decoder:     powerinfo.PlaceholderDecoder{},
		concurrency: config.BLEConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProcessAdapter reads every connected peripheral of adapter.
//
// A peripheral that fails to connect or to be read is reported as
// DefaultReading, it never fails the scan. Only a failure to list the
// peripherals is returned. Readings keep the order of the device list.
func (s *Scanner) ProcessAdapter(ctx context.Context, adapter Adapter) ([]Reading, error) {
	logrus.Debug("scanning for devices")

	devices, err := adapter.ConnectedDevices(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to list connected devices")
	}
	logrus.Debugf("found %d connected devices", len(devices))

	readings := make([]Reading, len(devices))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, dev := range devices {
		i, dev := i, dev
		g.Go(func() error {
			r, err := s.connectAndProcess(ctx, adapter, dev)
			if err != nil {
				logrus.WithError(err).Warn("failed to read device, reporting it as unknown")
				r = DefaultReading()
			}
			readings[i] = r
			return nil
		})
	}
	_ = g.Wait()

	return readings, nil
}

func (s *Scanner) connectAndProcess(ctx context.Context, adapter Adapter, dev Device) (Reading, error) {
	if err := ctx.Err(); err != nil {
		return Reading{}, err
	}
	if err := adapter.Connect(ctx, dev); err != nil {
		return Reading{}, pkgerrors.Wrap(err, "failed to connect")
	}
	return s.ProcessDevice(ctx, dev)
}

// ProcessDevice reads the battery characteristics of a connected peripheral.
// A peripheral without them is reported with level 0.
func (s *Scanner) ProcessDevice(ctx context.Context, dev Device) (Reading, error) {
	name, err := dev.Name()
	if err != nil {
		if errors.Is(err, ErrNameUnavailable) {
			return Reading{}, err
		}
		return Reading{}, fmt.Errorf("%w: %w", ErrNameUnavailable, err)
	}
	logrus.Debugf("device %q", name)

	reading := Reading{
		Name:   name,
		Level:  0,
		Status: powerinfo.Discharging,
	}

	services, err := dev.Services(ctx)
	if err != nil {
		return Reading{}, pkgerrors.Wrapf(err, "failed to discover services of %s", name)
	}

	for _, svc := range services {
		logrus.Debugf("BT service %s", svc.UUID())

		chars, err := svc.Characteristics(ctx)
		if err != nil {
			return Reading{}, pkgerrors.Wrapf(err, "failed to discover characteristics of %s", name)
		}

		for _, ch := range chars {
			switch ch.UUID() {
			case config.BatteryLevelUUID:
				v, err := ch.Value(ctx)
				if err != nil {
					return Reading{}, pkgerrors.Wrapf(err, "failed to read battery level of %s", name)
				}
				reading.Level = LevelFromBytes(v)
				logrus.Debugf("battery level is %d", reading.Level)
			case config.BatteryPowerStateUUID:
				v, err := ch.Value(ctx)
				if err != nil {
					return Reading{}, pkgerrors.Wrapf(err, "failed to read battery power state of %s", name)
				}
				reading.Status = s.decoder.Decode(v)
				logrus.Debugf("battery status is %s", reading.Status)
			}
		}
	}

	return reading, nil
}
