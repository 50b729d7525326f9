package permissions

// managerState mirrors CoreBluetooth's CBManagerState.
type managerState int

const (
	stateUnknown managerState = iota
	stateResetting
	stateUnsupported
	stateUnauthorized
	statePoweredOff
	statePoweredOn
)

// authorized reports whether a central manager in state s may use Bluetooth.
// A powered off or missing radio is not a permission problem, it surfaces
// later as an unavailable adapter.
func authorized(s managerState) bool {
	return s != stateUnauthorized
}
