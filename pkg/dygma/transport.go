package dygma

import (
	"io"
	"strconv"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"

	"github.com/charlie0129/peribatt/pkg/config"
)

// PortInfo describes a serial port found on the system.
type PortInfo struct {
	Path  string
	IsUSB bool
	VID   uint16
	PID   uint16
}

// Port is an open serial connection.
type Port interface {
	io.ReadWriteCloser
}

// Transport gives access to the serial ports of the system.
type Transport interface {
	ListPorts() ([]PortInfo, error)
	Open(path string) (Port, error)
}

type serialTransport struct {
	mode *serial.Mode
}

// NewSerialTransport returns a Transport backed by the OS serial driver.
func NewSerialTransport() Transport {
	return &serialTransport{
		mode: &serial.Mode{
			BaudRate: config.SerialBaudRate,
		},
	}
}

func (t *serialTransport) ListPorts() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to enumerate serial ports")
	}

	ports := make([]PortInfo, 0, len(details))
	for _, d := range details {
		info := PortInfo{Path: d.Name}
		if d.IsUSB {
			vid, vidErr := parseUSBID(d.VID)
			pid, pidErr := parseUSBID(d.PID)
			if vidErr != nil || pidErr != nil {
				logrus.WithFields(logrus.Fields{
					"port": d.Name,
					"vid":  d.VID,
					"pid":  d.PID,
				}).Debug("ignoring malformed USB ids")
			} else {
				info.IsUSB = true
				info.VID = vid
				info.PID = pid
			}
		}
		ports = append(ports, info)
	}

	return ports, nil
}

func (t *serialTransport) Open(path string) (Port, error) {
	p, err := serial.Open(path, t.mode)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to open serial port %s", path)
	}

	if err := p.SetReadTimeout(config.SerialReadTimeout); err != nil {
		_ = p.Close()
		return nil, pkgerrors.Wrapf(err, "failed to set read timeout on %s", path)
	}

	return p, nil
}

// parseUSBID parses the hexadecimal vendor/product ids reported by the enumerator.
func parseUSBID(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}
