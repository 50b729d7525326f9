// Package report turns device readings into one printable record per device.
package report

import (
	"fmt"
	"strconv"

	"github.com/charlie0129/peribatt/pkg/ble"
	"github.com/charlie0129/peribatt/pkg/dygma"
	"github.com/charlie0129/peribatt/pkg/hostbattery"
)

// Report is the transport-agnostic output record of one device.
type Report struct {
	BatteryLevel  string `json:"battery_level"`
	BatteryStatus string `json:"battery_status"`
	Name          string `json:"name"`
}

// FromBLE maps a BLE reading.
func FromBLE(r ble.Reading) Report {
	return Report{
		Name:          r.Name,
		BatteryLevel:  strconv.Itoa(int(r.Level)),
		BatteryStatus: r.Status.String(),
	}
}

// FromSerial maps a split keyboard. The level reads "left/right" and the
// status is the one of the left half.
func FromSerial(info *dygma.BatteryInfo) Report {
	return Report{
		Name:          info.Name,
		BatteryLevel:  fmt.Sprintf("%d/%d", info.LeftLevel, info.RightLevel),
		BatteryStatus: info.LeftStatus.String(),
	}
}

// FromHost maps an internal battery of the host.
func FromHost(r hostbattery.Reading) Report {
	return Report{
		Name:          r.Name,
		BatteryLevel:  strconv.Itoa(int(r.Level)),
		BatteryStatus: r.Status.String(),
	}
}

// String is the plain text form. It deliberately leaves out the status.
func (r Report) String() string {
	return fmt.Sprintf("%s: %s\n", r.Name, r.BatteryLevel)
}
