package dygma

import (
	"errors"
	"strings"
)

// fakePort answers each command with a canned response.
type fakePort struct {
	responses map[string]string
	written   []string
	last      string
	writeErr  error
	closed    bool
}

func (p *fakePort) Write(b []byte) (int, error) {
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	p.last = strings.TrimSuffix(string(b), "\n")
	p.written = append(p.written, string(b))
	return len(b), nil
}

func (p *fakePort) Read(b []byte) (int, error) {
	return copy(b, p.responses[p.last]), nil
}

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

type fakeTransport struct {
	ports   []PortInfo
	listErr error
	opened  map[string]*fakePort
}

func (t *fakeTransport) ListPorts() ([]PortInfo, error) {
	return t.ports, t.listErr
}

func (t *fakeTransport) Open(path string) (Port, error) {
	p, ok := t.opened[path]
	if !ok {
		return nil, errors.New("no such file or directory")
	}
	return p, nil
}

func healthyResponses() map[string]string {
	return map[string]string{
		cmdLeftLevel:   "50\r\n.\r\n",
		cmdLeftStatus:  "1\r\n.\r\n",
		cmdRightLevel:  "75\r\n.\r\n",
		cmdRightStatus: "0\r\n.\r\n",
	}
}
