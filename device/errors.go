package device

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownProperty is returned when a Property not present in a
	// driver's static table is passed to QueryProperty.
	ErrUnknownProperty = errors.New("device: unknown property")
	// ErrUnknownAction is returned when an Action not present in a
	// driver's static table is passed to TriggerAction.
	ErrUnknownAction = errors.New("device: unknown action")
	// ErrInvalidArgument is returned when an action's parameter is
	// missing, present when not expected, or fails to parse against the
	// action's declared enumeration or flag set.
	ErrInvalidArgument = errors.New("device: invalid argument")
	// ErrInvalidState is returned by state-gated actions (start_program)
	// when the observed device state is not the expected "ready" value.
	ErrInvalidState = errors.New("device: invalid state")
	// ErrUnexpectedMemoryValue is returned when a decoded property does
	// not match any known encoding (an out-of-range enum discriminant,
	// an unmasked bit in a bitflag set, and so on).
	ErrUnexpectedMemoryValue = errors.New("device: unexpected memory value")
)

// UnknownSoftwareIDError is returned by Connect when no driver is
// registered for the probed software ID.
type UnknownSoftwareIDError struct {
	ID uint16
}

func (e *UnknownSoftwareIDError) Error() string {
	return fmt.Sprintf("device: unknown software id 0x%04x", e.ID)
}
