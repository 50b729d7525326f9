// Package config holds the fixed, process-wide constants peribatt uses to
// recognise devices. Nothing here is read from disk and nothing is mutated
// after package initialisation.
package config

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Bluetooth SIG service and characteristics read from BLE peripherals.
var (
	// BatteryServiceUUID is the Battery service (0x180F).
	BatteryServiceUUID = uuid.MustParse("0000180f-0000-1000-8000-00805f9b34fb")
	// BatteryLevelUUID is the Battery Level characteristic (0x2A19).
	BatteryLevelUUID = uuid.MustParse("00002a19-0000-1000-8000-00805f9b34fb")
	// BatteryPowerStateUUID is the Battery Power State characteristic (0x2A1A).
	BatteryPowerStateUUID = uuid.MustParse("00002a1a-0000-1000-8000-00805f9b34fb")
)

const (
	// DygmaVendorID is the USB vendor ID of Dygma keyboards.
	DygmaVendorID uint16 = 13807
	// DygmaDeviceName is reported for every supported Dygma keyboard.
	DygmaDeviceName = "Dygma Defy"

	SerialBaudRate       = 115200
	SerialReadTimeout    = 100 * time.Millisecond
	SerialReadBufferSize = 50
	// SerialPathPrefix is the device file naming convention of serial ports.
	SerialPathPrefix = "/dev/tty"

	// BLEConcurrency bounds the number of peripherals read at the same time.
	BLEConcurrency = 4
)

var dygmaProductIDs = []uint16{
	18, // Defy
}

// IsSupportedDygmaProduct reports whether pid is a known Dygma product.
func IsSupportedDygmaProduct(pid uint16) bool {
	return slices.Contains(dygmaProductIDs, pid)
}
