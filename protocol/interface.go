/*
 * go-freemdu - Diagnostic protocol command/response interface.
 *
 * Copyright 2026, freemdu contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Package protocol implements the command/response layer of the diagnostic
// link: the 4-byte command header, the unlock state machine, extended
// addressing, the legacy dummy-byte compatibility shim, and typed payload
// conversions. It is built directly on top of package wire and knows
// nothing about any specific appliance model.
package protocol

import (
	"fmt"
	"io"

	"github.com/freemdu/go-freemdu/util/debug"
	"github.com/freemdu/go-freemdu/wire"
)

// Interface is one command/response session over a byte channel. It is not
// safe for concurrent use: every operation is totally ordered with respect
// to every other operation on the same Interface, matching the device's own
// lack of command pipelining.
type Interface struct {
	framer *wire.Framer

	accessLevel AccessLevel
	dummyBytes  bool
}

// New builds an Interface over rw with the default chunk size.
func New(rw io.ReadWriter) *Interface {
	return &Interface{framer: wire.NewFramer(rw)}
}

// LastKnownAccessLevel returns the locally mirrored access level. It is
// advisory only -- updated optimistically after unlock/lock/jump/baud calls
// succeed -- and must never be consulted to decide whether to send a
// command; the device's own 3-second liveness window can silently relock it.
func (p *Interface) LastKnownAccessLevel() AccessLevel {
	return p.accessLevel
}

// EnableDummyBytes switches on the legacy compatibility preamble: from this
// call onward every outgoing command frame is preceded by four inert zero
// bytes. Some older firmwares only reliably resynchronize on the host's
// first command after power-up if this preamble is present.
func (p *Interface) EnableDummyBytes() {
	p.dummyBytes = true
}

// ChunkSize reports the framer's current chunk size.
func (p *Interface) ChunkSize() int {
	return p.framer.ChunkSize()
}

func (p *Interface) sendHeader(op Opcode, param uint16, length uint8) error {
	if p.dummyBytes {
		if err := p.framer.Send([]byte{0, 0, 0, 0}); err != nil {
			return fmt.Errorf("protocol: dummy preamble: %w", err)
		}
	}
	header := []byte{uint8(op), uint8(param), uint8(param >> 8), length}
	if err := p.framer.Send(header); err != nil {
		return fmt.Errorf("protocol: send header %02x: %w", op, err)
	}
	debug.Cmdf("sent opcode 0x%02x param=0x%04x length=%d", op, param, length)
	return nil
}

// extendIfNeeded emits the one-shot 0x37 prefix iff addr overflows 16 bits
// or length overflows 8 bits, consumed by the very next read/write/jump.
func (p *Interface) extendIfNeeded(addr uint32, length uint32) error {
	if addr <= 0xFFFF && length <= 0xFF {
		return nil
	}
	upper := uint16(addr >> 16)
	lenHi := uint8(length >> 8)
	return p.sendHeader(OpExtendAddress, upper, lenHi)
}

// Lock resets the access level to Locked.
func (p *Interface) Lock() error {
	if err := p.sendHeader(OpLock, 0, 0); err != nil {
		return err
	}
	p.accessLevel = Locked
	debug.Accessf("access level reset to Locked")
	return nil
}

// QuerySoftwareID issues the very first command of a session and returns
// the device's 16-bit software identifier.
func (p *Interface) QuerySoftwareID() (uint16, error) {
	if err := p.sendHeader(OpQuerySoftwareID, 0, 2); err != nil {
		return 0, err
	}
	data, err := p.framer.Receive(2)
	if err != nil {
		return 0, fmt.Errorf("protocol: query software id: %w", err)
	}
	return Uint16LE(data), nil
}

// UnlockReadAccess advances the access level to ReadAccess iff key matches
// the model's read key. Failure is observed only as a later command being
// refused by the device; this call itself never errors on a wrong key.
func (p *Interface) UnlockReadAccess(key uint16) error {
	if err := p.sendHeader(OpUnlockReadAccess, key, 0); err != nil {
		return err
	}
	if p.accessLevel < ReadAccess {
		p.accessLevel = ReadAccess
		debug.Accessf("access level advanced to ReadAccess")
	}
	return nil
}

// UnlockFullAccess advances the access level to FullAccess iff key matches
// and the current level is already at least ReadAccess.
func (p *Interface) UnlockFullAccess(key uint16) error {
	if err := p.sendHeader(OpUnlockFullAccess, key, 0); err != nil {
		return err
	}
	p.accessLevel = FullAccess
	debug.Accessf("access level advanced to FullAccess")
	return nil
}

// UnlockSmartHomeAccess enables baud/chunk negotiation and smart-home
// commands on devices that support them.
func (p *Interface) UnlockSmartHomeAccess() error {
	return p.sendHeader(OpUnlockSmartHome, 0, 0)
}

// ReadMemory reads length bytes of RAM starting at addr, transparently
// emitting the extended-address prefix when addr or length overflow the
// header's native width.
func (p *Interface) ReadMemory(addr uint32, length uint32) ([]byte, error) {
	if err := p.extendIfNeeded(addr, length); err != nil {
		return nil, err
	}
	if err := p.sendHeader(OpReadMemory, uint16(addr), uint8(length)); err != nil {
		return nil, err
	}
	data, err := p.framer.Receive(int(length))
	if err != nil {
		return nil, fmt.Errorf("protocol: read memory 0x%x: %w", addr, err)
	}
	return data, nil
}

// ReadEEPROM reads length bytes of EEPROM starting at addr. On legacy
// models addr must already be a word address (byte address / 2); this
// interface does not perform that conversion itself -- see the driver
// layer, which knows whether its model is a legacy word-addressed board.
func (p *Interface) ReadEEPROM(addr uint32, length uint32) ([]byte, error) {
	if err := p.extendIfNeeded(addr, length); err != nil {
		return nil, err
	}
	if err := p.sendHeader(OpReadEEPROM, uint16(addr), uint8(length)); err != nil {
		return nil, err
	}
	data, err := p.framer.Receive(int(length))
	if err != nil {
		return nil, fmt.Errorf("protocol: read eeprom 0x%x: %w", addr, err)
	}
	return data, nil
}

// WriteMemory writes data to RAM starting at addr.
func (p *Interface) WriteMemory(addr uint32, data []byte) error {
	if err := p.extendIfNeeded(addr, uint32(len(data))); err != nil {
		return err
	}
	if err := p.sendHeader(OpWriteMemory, uint16(addr), uint8(len(data))); err != nil {
		return err
	}
	if err := p.framer.Send(data); err != nil {
		return fmt.Errorf("protocol: write memory 0x%x: %w", addr, err)
	}
	return nil
}

// WriteEEPROM writes data to EEPROM starting at addr (word-addressed on
// legacy models, see ReadEEPROM).
func (p *Interface) WriteEEPROM(addr uint32, data []byte) error {
	if err := p.extendIfNeeded(addr, uint32(len(data))); err != nil {
		return err
	}
	if err := p.sendHeader(OpWriteEEPROM, uint16(addr), uint8(len(data))); err != nil {
		return err
	}
	if err := p.framer.Send(data); err != nil {
		return fmt.Errorf("protocol: write eeprom 0x%x: %w", addr, err)
	}
	return nil
}

// JumpToSubroutine invokes firmware at addr and blocks until it returns one
// response byte. This resets the access level, exactly like Lock.
func (p *Interface) JumpToSubroutine(addr uint32) (uint8, error) {
	if err := p.extendIfNeeded(addr, 0); err != nil {
		return 0, err
	}
	if err := p.sendHeader(OpJumpToSubroutine, uint16(addr), 0); err != nil {
		return 0, err
	}
	data, err := p.framer.Receive(1)
	if err != nil {
		return 0, fmt.Errorf("protocol: jump to subroutine 0x%x: %w", addr, err)
	}
	p.accessLevel = Locked
	debug.Accessf("access level reset to Locked")
	return data[0], nil
}

// Halt freezes the device in an infinite loop. Only a power cycle recovers.
func (p *Interface) Halt() error {
	return p.sendHeader(OpHalt, 0, 0)
}

// SetBaud2400 is the legacy fast-path to the default baud rate. Resets the
// access level.
func (p *Interface) SetBaud2400() error {
	if err := p.sendHeader(OpSetBaud2400, 0, 0); err != nil {
		return err
	}
	p.accessLevel = Locked
	debug.Accessf("access level reset to Locked")
	return nil
}

// SetBaud9600 is the legacy fast-path to 9600 baud. Resets the access level.
func (p *Interface) SetBaud9600() error {
	if err := p.sendHeader(OpSetBaud9600, 0, 0); err != nil {
		return err
	}
	p.accessLevel = Locked
	debug.Accessf("access level reset to Locked")
	return nil
}

// SetChunkSize requests a new chunk size and adopts whatever the device
// echoes back as the framer's new chunk size -- the device may clamp the
// requested value.
func (p *Interface) SetChunkSize(size uint8) (uint8, error) {
	if err := p.sendHeader(OpSetChunkSize, uint16(size), 1); err != nil {
		return 0, err
	}
	data, err := p.framer.Receive(1)
	if err != nil {
		return 0, fmt.Errorf("protocol: set chunk size: %w", err)
	}
	p.framer.SetChunkSize(int(data[0]))
	return data[0], nil
}

// SetBaudRate requests a baud rate change by index and returns the echoed
// accepted index. Resets the access level.
func (p *Interface) SetBaudRate(rate BaudRate) (uint8, error) {
	if err := p.sendHeader(OpSetBaudRate, uint16(rate), 1); err != nil {
		return 0, err
	}
	data, err := p.framer.Receive(1)
	if err != nil {
		return 0, fmt.Errorf("protocol: set baud rate: %w", err)
	}
	p.accessLevel = Locked
	debug.Accessf("access level reset to Locked")
	return data[0], nil
}

// Reset cold-resets the device MCU.
func (p *Interface) Reset() error {
	if err := p.sendHeader(OpReset, 0, 0); err != nil {
		return err
	}
	p.accessLevel = Locked
	debug.Accessf("access level reset to Locked")
	return nil
}

// QueryMaxBaudRate returns the highest baud rate index the device supports.
// The wire response is two bytes; only the second is meaningful (see the
// Open Questions in SPEC_FULL.md) -- the first is read but discarded.
func (p *Interface) QueryMaxBaudRate() (BaudRate, error) {
	if err := p.sendHeader(OpQueryMaxBaudRate, 0, 2); err != nil {
		return 0, err
	}
	data, err := p.framer.Receive(2)
	if err != nil {
		return 0, fmt.Errorf("protocol: query max baud rate: %w", err)
	}
	return BaudRate(data[1]), nil
}

// SendSmartHomeRequest issues a smart-home sub-command envelope and returns
// the device's response payload.
func (p *Interface) SendSmartHomeRequest(subCmd uint16, payload []byte) ([]byte, error) {
	if err := p.sendHeader(OpSmartHomeRequest, subCmd, uint8(len(payload))); err != nil {
		return nil, err
	}
	if err := p.framer.Send(payload); err != nil {
		return nil, fmt.Errorf("protocol: smart home request: %w", err)
	}
	ack, err := p.framer.Receive(1)
	if err != nil {
		return nil, fmt.Errorf("protocol: smart home request ack: %w", err)
	}
	return ack, nil
}
