package runner

import (
	"github.com/charlie0129/peribatt/pkg/ble"
	"github.com/charlie0129/peribatt/pkg/ble/corebluetooth"
)

func systemTransport() ble.Transport {
	return corebluetooth.NewTransport()
}
