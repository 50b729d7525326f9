//go:build linux

package bluez

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"tinygo.org/x/bluetooth"

	"github.com/charlie0129/peribatt/pkg/ble"
	"github.com/charlie0129/peribatt/pkg/config"
)

func TestToUUID(t *testing.T) {
	assert.Equal(t, config.BatteryLevelUUID, toUUID(bluetooth.New16BitUUID(0x2a19)))
	assert.Equal(t, config.BatteryPowerStateUUID, toUUID(bluetooth.New16BitUUID(0x2a1a)))
	assert.NotEqual(t, uuid.Nil, toUUID(bluetooth.ServiceUUIDBattery))
}

func TestDeviceName(t *testing.T) {
	d := &device{path: "/org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF", name: "Keyboard K1"}
	name, err := d.Name()
	assert.NoError(t, err)
	assert.Equal(t, "Keyboard K1", name)

	d.name = ""
	_, err = d.Name()
	assert.ErrorIs(t, err, ble.ErrNameUnavailable)
}

func TestServicesRequireConnection(t *testing.T) {
	_, err := (&device{}).Services(context.Background())
	assert.ErrorIs(t, err, ble.ErrNotConnected)
}
