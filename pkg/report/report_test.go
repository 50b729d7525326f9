package report

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlie0129/peribatt/pkg/ble"
	"github.com/charlie0129/peribatt/pkg/dygma"
	"github.com/charlie0129/peribatt/pkg/hostbattery"
	"github.com/charlie0129/peribatt/pkg/powerinfo"
)

func TestFromSerial(t *testing.T) {
	r := FromSerial(&dygma.BatteryInfo{
		Name:        "Dygma Defy",
		LeftLevel:   50,
		LeftStatus:  powerinfo.Charging,
		RightLevel:  75,
		RightStatus: powerinfo.Discharging,
	})
	assert.Equal(t, Report{Name: "Dygma Defy", BatteryLevel: "50/75", BatteryStatus: "Charging"}, r)
}

func TestFromBLE(t *testing.T) {
	r := FromBLE(ble.Reading{Name: "Keyboard K1", Level: 42, Status: powerinfo.Discharging})
	assert.Equal(t, Report{Name: "Keyboard K1", BatteryLevel: "42", BatteryStatus: "Discharging"}, r)

	r = FromBLE(ble.DefaultReading())
	assert.Equal(t, Report{Name: "unknown device", BatteryLevel: "0", BatteryStatus: "Discharging"}, r)
}

func TestFromHost(t *testing.T) {
	r := FromHost(hostbattery.Reading{Name: "Internal battery", Level: 100, Status: powerinfo.Charged})
	assert.Equal(t, Report{Name: "Internal battery", BatteryLevel: "100", BatteryStatus: "Charged"}, r)
}

func TestRenderEmpty(t *testing.T) {
	b, err := Render(nil, true)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))

	b, err = Render([]Report{}, true)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))

	b, err = Render(nil, false)
	require.NoError(t, err)
	assert.Equal(t, "", string(b))
}

func TestRenderPlain(t *testing.T) {
	reports := []Report{
		{Name: "Keyboard K1", BatteryLevel: "42", BatteryStatus: "Discharging"},
		{Name: "Dygma Defy", BatteryLevel: "50/75", BatteryStatus: "Charging"},
	}

	b, err := Render(reports, false)
	require.NoError(t, err)
	assert.Equal(t, "Keyboard K1: 42\nDygma Defy: 50/75\n", string(b))
}

func TestRenderJSON(t *testing.T) {
	reports := []Report{
		{Name: "Keyboard K1", BatteryLevel: "42", BatteryStatus: "Discharging"},
		{Name: "Dygma Defy", BatteryLevel: "50/75", BatteryStatus: "Charging"},
	}

	b, err := Render(reports, true)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"battery_level": "42", "battery_status": "Discharging", "name": "Keyboard K1"},
		{"battery_level": "50/75", "battery_status": "Charging", "name": "Dygma Defy"}
	]`, string(b))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

type countingWriter struct {
	bytes.Buffer
	calls int
}

func (w *countingWriter) Write(b []byte) (int, error) {
	w.calls++
	return w.Buffer.Write(b)
}

func TestWrite(t *testing.T) {
	w := &countingWriter{}
	reports := []Report{
		{Name: "a", BatteryLevel: "1"},
		{Name: "b", BatteryLevel: "2"},
		{Name: "c", BatteryLevel: "3"},
	}
	require.NoError(t, Write(w, reports, false))
	assert.Equal(t, 1, w.calls)
	assert.Equal(t, "a: 1\nb: 2\nc: 3\n", w.String())

	err := Write(failingWriter{}, reports, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken pipe")
}
