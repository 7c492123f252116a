package protocol

import (
	"errors"
	"fmt"
)

// Sentinel semantic errors. Wire-level errors from the wire package (such as
// wire.ErrIncorrectChecksum) propagate through this package wrapped with
// %w, so errors.Is still matches them.
var (
	ErrInvalidArgument      = errors.New("protocol: invalid argument")
	ErrUnexpectedMemoryValue = errors.New("protocol: unexpected memory value")
)

// UnknownSoftwareIDError describes a software ID with no registered driver.
// Nothing in this module returns it: device.Connect reports that case with
// device.UnknownSoftwareIDError.
type UnknownSoftwareIDError struct {
	ID uint16
}

func (e *UnknownSoftwareIDError) Error() string {
	return fmt.Sprintf("protocol: unknown software id 0x%04x", e.ID)
}

// InvalidStateError describes a state-gated action (such as start_program)
// whose observed state byte is not the "ready" value. Nothing in this
// module returns it: the drivers report that case with device.ErrInvalidState.
type InvalidStateError struct {
	Operation string
	Got       uint8
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("protocol: %s: invalid device state 0x%02x", e.Operation, e.Got)
}
