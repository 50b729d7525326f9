package dygma

import (
	"strings"
	"unicode/utf8"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/peribatt/pkg/config"
)

// Conn speaks the line-oriented command protocol of the Dygma Neuron.
type Conn struct {
	path string
	port Port
}

// NewConn wraps an open port.
func NewConn(path string, port Port) *Conn {
	return &Conn{
		path: path,
		port: port,
	}
}

// SendCommand writes command followed by a newline and returns the first
// line of the response.
//
// The response has to fit in a single read of config.SerialReadBufferSize
// bytes. Longer or split responses are not reassembled.
func (c *Conn) SendCommand(command string) (string, error) {
	logrus.WithFields(logrus.Fields{
		"command": command,
		"port":    c.path,
	}).Debug("sending command")

	written, err := c.port.Write([]byte(command + "\n"))
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to write %q to %s", command, c.path)
	}
	logrus.Tracef("written %d bytes to %s", written, c.path)

	buf := make([]byte, config.SerialReadBufferSize)
	n, err := c.port.Read(buf)
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to read response from %s", c.path)
	}
	buf = buf[:n]

	if !utf8.Valid(buf) {
		return "", pkgerrors.Wrapf(ErrProtocol, "response from %s is not valid UTF-8", c.path)
	}
	response := string(buf)
	logrus.Tracef("response from %s: %q", c.path, response)

	line, _, found := strings.Cut(response, "\r\n")
	if !found {
		return "", pkgerrors.Wrapf(ErrEmptyResponse, "got empty response from %s", c.path)
	}

	result := strings.TrimSpace(line)
	logrus.Debugf("execution result is %q", result)

	return result, nil
}

// Close closes the underlying port.
func (c *Conn) Close() error {
	return c.port.Close()
}
