package device

import (
	"fmt"
	"io"

	"github.com/freemdu/go-freemdu/protocol"
)

// Connect performs the three-step handshake: build a protocol Interface
// over rw, query the software ID, and dispatch to whichever driver package
// registered for it. On an unrecognized ID it returns *UnknownSoftwareIDError
// itself, unwrapped, so callers can errors.As against it.
func Connect(rw io.ReadWriter) (Driver, error) {
	iface := protocol.New(rw)

	id, err := iface.QuerySoftwareID()
	if err != nil {
		return nil, fmt.Errorf("device: connect: %w", err)
	}

	ctor, ok := registry[id]
	if !ok {
		return nil, &UnknownSoftwareIDError{ID: id}
	}

	drv, err := ctor(iface, id)
	if err != nil {
		return nil, fmt.Errorf("device: initialize driver for software id 0x%04x: %w", id, err)
	}
	return drv, nil
}
