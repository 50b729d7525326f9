package dygma

import "errors"

var (
	// ErrProtocol is returned when a device response is not valid text.
	ErrProtocol = errors.New("serial protocol error")

	// ErrEmptyResponse is returned when a response holds no complete line.
	ErrEmptyResponse = errors.New("not enough lines in response")

	// ErrDeviceQuery is returned when the battery info of a device cannot be read.
	ErrDeviceQuery = errors.New("failed to query device")
)
