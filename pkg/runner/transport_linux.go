package runner

import (
	"github.com/charlie0129/peribatt/pkg/ble"
	"github.com/charlie0129/peribatt/pkg/ble/bluez"
)

func systemTransport() ble.Transport {
	return bluez.NewTransport()
}
