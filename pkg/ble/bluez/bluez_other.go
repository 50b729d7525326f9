//go:build !linux && !darwin

package bluez

import (
	"context"
	"runtime"

	pkgerrors "github.com/pkg/errors"

	"github.com/charlie0129/peribatt/pkg/ble"
)

// Transport reports no adapter on platforms without a Bluetooth backend.
// macOS is served by package corebluetooth.
type Transport struct{}

var _ ble.Transport = &Transport{}

func NewTransport() *Transport {
	return &Transport{}
}

func (t *Transport) DefaultAdapter(_ context.Context) (ble.Adapter, error) {
	return nil, pkgerrors.Wrapf(ble.ErrAdapterUnavailable, "listing connected peripherals is not supported on %s", runtime.GOOS)
}
