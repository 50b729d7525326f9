// Package dygma reads the battery levels of Dygma split keyboards over the
// serial interface exposed by their Neuron.
package dygma

import (
	"fmt"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/peribatt/pkg/config"
	"github.com/charlie0129/peribatt/pkg/powerinfo"
)

const (
	cmdLeftLevel   = "wireless.battery.left.level"
	cmdLeftStatus  = "wireless.battery.left.status"
	cmdRightLevel  = "wireless.battery.right.level"
	cmdRightStatus = "wireless.battery.right.status"
)

// BatteryInfo holds both halves of a split keyboard.
type BatteryInfo struct {
	Name        string
	LeftLevel   uint8
	LeftStatus  powerinfo.BatteryStatus
	RightLevel  uint8
	RightStatus powerinfo.BatteryStatus
}

// Client discovers and queries Dygma keyboards.
type Client struct {
	transport Transport
}

// NewClient creates a Client on top of transport.
func NewClient(transport Transport) *Client {
	return &Client{
		transport: transport,
	}
}

// ListDevices returns the serial ports that belong to supported keyboards.
// This call blocks on the OS.
func (c *Client) ListDevices() ([]PortInfo, error) {
	logrus.Debug("trying to detect dygma neuron")

	ports, err := c.transport.ListPorts()
	if err != nil {
		return nil, err
	}

	return FilterPorts(ports), nil
}

// FilterPorts keeps the USB serial ports of supported Dygma products.
// Anything else is skipped silently.
func FilterPorts(ports []PortInfo) []PortInfo {
	var discovered []PortInfo
	for _, p := range ports {
		if !strings.HasPrefix(p.Path, config.SerialPathPrefix) {
			continue
		}
		if !p.IsUSB || p.VID != config.DygmaVendorID || !config.IsSupportedDygmaProduct(p.PID) {
			logrus.WithFields(logrus.Fields{
				"port": p.Path,
				"usb":  p.IsUSB,
				"vid":  p.VID,
				"pid":  p.PID,
			}).Trace("skipping serial port")
			continue
		}
		discovered = append(discovered, p)
	}
	return discovered
}

// GetBatteryInfo opens the port at path and reads both halves. Any failure
// aborts the whole device, there are no partial results.
func (c *Client) GetBatteryInfo(path string) (*BatteryInfo, error) {
	logrus.Debugf("opening %s", path)

	port, err := c.transport.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrDeviceQuery, path, err)
	}

	conn := NewConn(path, port)
	defer func() {
		if err := conn.Close(); err != nil {
			logrus.WithError(err).Warnf("failed to close %s", path)
		}
	}()

	info, err := readBatteryInfo(conn)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrDeviceQuery, path, err)
	}

	return info, nil
}

func readBatteryInfo(conn *Conn) (*BatteryInfo, error) {
	leftLevel, err := queryLevel(conn, cmdLeftLevel)
	if err != nil {
		return nil, err
	}
	leftStatus, err := queryStatus(conn, cmdLeftStatus)
	if err != nil {
		return nil, err
	}
	rightLevel, err := queryLevel(conn, cmdRightLevel)
	if err != nil {
		return nil, err
	}
	rightStatus, err := queryStatus(conn, cmdRightStatus)
	if err != nil {
		return nil, err
	}

	return &BatteryInfo{
		Name:        config.DygmaDeviceName,
		LeftLevel:   leftLevel,
		LeftStatus:  leftStatus,
		RightLevel:  rightLevel,
		RightStatus: rightStatus,
	}, nil
}

func queryLevel(conn *Conn, command string) (uint8, error) {
	ret, err := conn.SendCommand(command)
	if err != nil {
		return 0, err
	}

	level, err := strconv.ParseUint(ret, 10, 8)
	if err != nil {
		return 0, pkgerrors.Wrapf(err, "invalid response to %s", command)
	}

	return uint8(level), nil
}

func queryStatus(conn *Conn, command string) (powerinfo.BatteryStatus, error) {
	ret, err := conn.SendCommand(command)
	if err != nil {
		return powerinfo.Unknown, err
	}

	status, err := powerinfo.ParseSerialStatus(ret)
	if err != nil {
		return powerinfo.Unknown, pkgerrors.Wrapf(err, "invalid response to %s", command)
	}

	return status, nil
}
