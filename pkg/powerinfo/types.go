package powerinfo

// BatteryStatus represents the charging state of a device battery.
type BatteryStatus int

const (
	// Discharging indicates the battery is discharging. It is also the
	// fallback for devices that do not expose a state.
	Discharging BatteryStatus = iota
	// Charging indicates the battery is charging.
	Charging
	// Charged indicates the battery is full.
	Charged
	// Unknown indicates the device reported a state without a clear meaning.
	Unknown
)

func (s BatteryStatus) String() string {
	switch s {
	case Charging:
		return "Charging"
	case Charged:
		return "Charged"
	case Discharging:
		return "Discharging"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the status as its display name.
func (s BatteryStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
