package ble

import "github.com/charlie0129/peribatt/pkg/powerinfo"

// Reading is the battery state of one peripheral at scan time.
type Reading struct {
	Name   string
	Level  uint8
	Status powerinfo.BatteryStatus
}

// DefaultReading stands in for a peripheral that could not be read.
func DefaultReading() Reading {
	return Reading{
		Name:   "unknown device",
		Level:  0,
		Status: powerinfo.Discharging,
	}
}

// LevelFromBytes returns the first byte of a Battery Level value, or 0 if
// the value is empty.
func LevelFromBytes(data []byte) uint8 {
	if len(data) == 0 {
		return 0
	}
	return data[0]
}
