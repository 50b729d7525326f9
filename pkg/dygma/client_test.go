package dygma

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlie0129/peribatt/pkg/powerinfo"
)

func TestFilterPorts(t *testing.T) {
	ports := []PortInfo{
		{Path: "/dev/ttyUSB0", IsUSB: true, VID: 13807, PID: 18},
		{Path: "/dev/ttyUSB1", IsUSB: true, VID: 13807, PID: 99},
		{Path: "/dev/ttyS0", IsUSB: true, VID: 1, PID: 1},
	}

	got := FilterPorts(ports)
	assert.Equal(t, []PortInfo{ports[0]}, got)
}

func TestFilterPortsSkipsNonMatching(t *testing.T) {
	ports := []PortInfo{
		{Path: "/dev/ttyS1"},
		{Path: "/dev/ttyACM0", IsUSB: false, VID: 13807, PID: 18},
		{Path: "/dev/cu.usbmodem1", IsUSB: true, VID: 13807, PID: 18},
		{Path: "COM3", IsUSB: true, VID: 13807, PID: 18},
	}

	assert.Empty(t, FilterPorts(ports))
	assert.Empty(t, FilterPorts(nil))
}

func TestClientListDevices(t *testing.T) {
	tr := &fakeTransport{ports: []PortInfo{
		{Path: "/dev/ttyACM0", IsUSB: true, VID: 13807, PID: 18},
		{Path: "/dev/ttyACM1", IsUSB: true, VID: 0x2341, PID: 0x43},
	}}

	devices, err := NewClient(tr).ListDevices()
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "/dev/ttyACM0", devices[0].Path)

	tr.listErr = errors.New("enumeration failed")
	_, err = NewClient(tr).ListDevices()
	require.ErrorIs(t, err, tr.listErr)
}

func TestClientGetBatteryInfo(t *testing.T) {
	port := &fakePort{responses: healthyResponses()}
	tr := &fakeTransport{opened: map[string]*fakePort{"/dev/ttyACM0": port}}

	info, err := NewClient(tr).GetBatteryInfo("/dev/ttyACM0")
	require.NoError(t, err)
	assert.Equal(t, &BatteryInfo{
		Name:        "Dygma Defy",
		LeftLevel:   50,
		LeftStatus:  powerinfo.Charging,
		RightLevel:  75,
		RightStatus: powerinfo.Discharging,
	}, info)

	assert.Equal(t, []string{
		cmdLeftLevel + "\n",
		cmdLeftStatus + "\n",
		cmdRightLevel + "\n",
		cmdRightStatus + "\n",
	}, port.written)
	assert.True(t, port.closed)
}

func TestClientGetBatteryInfoFailures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(map[string]string)
		wantErr error
	}{
		{
			name:    "no line terminator",
			mutate:  func(r map[string]string) { r[cmdRightLevel] = "75" },
			wantErr: ErrEmptyResponse,
		},
		{
			name:    "unknown status",
			mutate:  func(r map[string]string) { r[cmdLeftStatus] = "7\r\n" },
			wantErr: powerinfo.ErrParse,
		},
		{
			name:    "level out of range",
			mutate:  func(r map[string]string) { r[cmdLeftLevel] = "256\r\n" },
			wantErr: strconv.ErrRange,
		},
		{
			name:    "level not a number",
			mutate:  func(r map[string]string) { r[cmdRightLevel] = "full\r\n" },
			wantErr: strconv.ErrSyntax,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			responses := healthyResponses()
			tt.mutate(responses)
			port := &fakePort{responses: responses}
			tr := &fakeTransport{opened: map[string]*fakePort{"/dev/ttyACM0": port}}

			info, err := NewClient(tr).GetBatteryInfo("/dev/ttyACM0")
			assert.Nil(t, info)
			require.ErrorIs(t, err, ErrDeviceQuery)
			require.ErrorIs(t, err, tt.wantErr)
			assert.True(t, port.closed)
		})
	}
}

func TestClientGetBatteryInfoOpenError(t *testing.T) {
	tr := &fakeTransport{opened: map[string]*fakePort{}}

	_, err := NewClient(tr).GetBatteryInfo("/dev/ttyACM9")
	require.ErrorIs(t, err, ErrDeviceQuery)
	assert.Contains(t, err.Error(), "/dev/ttyACM9")
}

func TestParseUSBID(t *testing.T) {
	vid, err := parseUSBID("35EF")
	require.NoError(t, err)
	assert.Equal(t, uint16(13807), vid)

	pid, err := parseUSBID("0012")
	require.NoError(t, err)
	assert.Equal(t, uint16(18), pid)

	_, err = parseUSBID("")
	assert.Error(t, err)
	_, err = parseUSBID("12345")
	assert.Error(t, err)
}
