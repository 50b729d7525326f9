package permissions

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tinygo-org/cbgo"
)

// stateTimeout bounds the wait for a new central manager to report its
// first state.
const stateTimeout = 2 * time.Second

type systemChecker struct{}

// System returns the Checker of the running OS. On macOS the central manager
// reports Unauthorized when the process has no Bluetooth access.
func System() Checker {
	return systemChecker{}
}

func (systemChecker) Authorized() (bool, error) {
	updated := make(chan struct{}, 1)
	cm := cbgo.NewCentralManager(nil)
	cm.SetDelegate(&stateDelegate{updated: updated})

	state := cm.State()
	if state == cbgo.ManagerStateUnknown {
		select {
		case <-updated:
			state = cm.State()
		case <-time.After(stateTimeout):
			logrus.Debug("central manager did not report its state")
		}
	}
	logrus.Debugf("central manager state is %d", state)

	return authorized(fromManagerState(state)), nil
}

type stateDelegate struct {
	cbgo.CentralManagerDelegateBase

	updated chan struct{}
}

func (d *stateDelegate) CentralManagerDidUpdateState(_ cbgo.CentralManager) {
	select {
	case d.updated <- struct{}{}:
	default:
	}
}

func fromManagerState(s cbgo.ManagerState) managerState {
	switch s {
	case cbgo.ManagerStateResetting:
		return stateResetting
	case cbgo.ManagerStateUnsupported:
		return stateUnsupported
	case cbgo.ManagerStateUnauthorized:
		return stateUnauthorized
	case cbgo.ManagerStatePoweredOff:
		return statePoweredOff
	case cbgo.ManagerStatePoweredOn:
		return statePoweredOn
	default:
		return stateUnknown
	}
}
