package powerinfo

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
)

// ErrParse is returned when a device reports a status code peribatt does not know.
var ErrParse = errors.New("cannot parse battery status")

// ParseSerialStatus converts a status code of the Dygma serial protocol.
func ParseSerialStatus(code string) (BatteryStatus, error) {
	switch code {
	case "0":
		return Discharging, nil
	case "1":
		return Charging, nil
	case "2":
		return Charged, nil
	case "3", "4":
		return Unknown, nil
	default:
		return Unknown, pkgerrors.Wrapf(ErrParse, "unknown value %q", code)
	}
}

// StatusDecoder turns the raw value of the Battery Power State
// characteristic into a BatteryStatus.
type StatusDecoder interface {
	Decode(data []byte) BatteryStatus
}

// DecoderFunc adapts a function to StatusDecoder.
type DecoderFunc func(data []byte) BatteryStatus

func (f DecoderFunc) Decode(data []byte) BatteryStatus {
	return f(data)
}

// PlaceholderDecoder ignores the payload and always reports Discharging.
//
// TODO: decode the power state bit fields once a device exposing 0x2A1A is
// available for testing.
type PlaceholderDecoder struct{}

func (PlaceholderDecoder) Decode(_ []byte) BatteryStatus {
	return Discharging
}
