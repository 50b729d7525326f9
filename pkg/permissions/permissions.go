// Package permissions checks whether peribatt may use Bluetooth.
package permissions

import (
	"errors"
	"runtime"

	pkgerrors "github.com/pkg/errors"
)

// ErrPermissionDenied is returned when the OS refuses Bluetooth access.
var ErrPermissionDenied = errors.New("permission denied")

// Checker reports whether the process is allowed to use Bluetooth.
type Checker interface {
	Authorized() (bool, error)
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func() (bool, error)

func (f CheckerFunc) Authorized() (bool, error) {
	return f()
}

// Check fails with ErrPermissionDenied when c denies access.
func Check(c Checker) error {
	return check(c, runtime.GOOS)
}

func check(c Checker, goos string) error {
	ok, err := c.Authorized()
	if err != nil {
		return pkgerrors.Wrap(err, "failed to check bluetooth permissions")
	}
	if ok {
		return nil
	}

	if goos == "darwin" {
		return pkgerrors.Wrap(ErrPermissionDenied, "unable to get adapters, probably bluetooth access is not allowed. Please enable it in System Settings → Privacy & Security → Bluetooth")
	}
	return pkgerrors.Wrap(ErrPermissionDenied, "unable to get bluetooth permissions")
}
