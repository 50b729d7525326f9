// Package corebluetooth provides the ble.Transport of macOS hosts. Connected
// peripherals, connections and GATT reads all go through CoreBluetooth via
// github.com/tinygo-org/cbgo.
//
// CoreBluetooth answers every request on its own dispatch queue through
// delegate callbacks. Each pending request owns a one-slot channel that the
// callback fills without blocking, see notify and wait.
package corebluetooth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
)

// ErrTimeout is returned when CoreBluetooth does not answer a request in time.
var ErrTimeout = errors.New("corebluetooth request timed out")

// baseUUIDSuffix completes the 16 and 32-bit short forms of SIG UUIDs.
const baseUUIDSuffix = "-0000-1000-8000-00805f9b34fb"

// parseUUID converts the string form CoreBluetooth prints, which is
// abbreviated for SIG assigned numbers, to a full UUID. Unparsable input
// yields uuid.Nil.
func parseUUID(s string) uuid.UUID {
	switch len(s) {
	case 4:
		s = "0000" + s + baseUUIDSuffix
	case 8:
		s += baseUUIDSuffix
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// notify hands err to whoever waits on ch. Callbacks nobody waits for any
// more are dropped so the CoreBluetooth queue never blocks.
func notify(ch chan<- error, err error) {
	select {
	case ch <- err:
	default:
	}
}

// drain discards a stale answer left behind by a request that timed out.
func drain(ch <-chan error) {
	select {
	case <-ch:
	default:
	}
}

// wait blocks until ch delivers the result of op, ctx is done or timeout
// elapses.
func wait(ctx context.Context, ch <-chan error, timeout time.Duration, op string) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-ch:
		if err != nil {
			return pkgerrors.Wrapf(err, "failed to %s", op)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return pkgerrors.Wrapf(ErrTimeout, "%s after %s", op, timeout)
	}
}
