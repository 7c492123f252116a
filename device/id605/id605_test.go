package id605_test

import (
	"bytes"
	"testing"

	"github.com/freemdu/go-freemdu/device"
	"github.com/freemdu/go-freemdu/device/id605"
	"github.com/freemdu/go-freemdu/protocol"
)

type fakeLink struct {
	in  *bytes.Buffer
	out bytes.Buffer
}

func (f *fakeLink) Read(b []byte) (int, error)  { return f.in.Read(b) }
func (f *fakeLink) Write(b []byte) (int, error) { return f.out.Write(b) }

func newDriver(t *testing.T) (*fakeLink, device.Driver) {
	t.Helper()
	// ack for UnlockReadAccess, UnlockFullAccess, the WriteMemory header,
	// and its 1-byte data chunk.
	link := &fakeLink{in: bytes.NewBuffer([]byte{0x00, 0x00, 0x00, 0x00})}
	drv, err := id605.New(protocol.New(link), id605.SoftwareID)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return link, drv
}

func TestNewRunsUnlockSequenceAndRomProtectionWrite(t *testing.T) {
	link, drv := newDriver(t)

	if drv.Kind() != device.Dishwasher {
		t.Fatalf("got kind %v want Dishwasher", drv.Kind())
	}
	out := link.out.Bytes()
	if out[10] != 0x40 {
		t.Fatalf("expected WriteMemory opcode 0x40 third, got %x", out[10:])
	}
	if !bytes.Equal(out[15:17], []byte{0x02, 0x02}) {
		t.Fatalf("expected ROM-protection payload byte 0x02 + checksum, got %x", out[15:])
	}
}

func TestPropertiesAndSingleAction(t *testing.T) {
	_, drv := newDriver(t)
	if len(drv.Properties()) != 12 {
		t.Fatalf("expected 12 properties, got %d", len(drv.Properties()))
	}
	if len(drv.Actions()) != 1 {
		t.Fatalf("expected exactly 1 action, got %d", len(drv.Actions()))
	}
}

func TestStartProgramWritesToFixedAddressWhenReady(t *testing.T) {
	link, drv := newDriver(t)
	// readMem(1): header ack, data byte 0x02 (ready) + checksum; then
	// WriteMemory header ack + data-chunk ack.
	link.in.Write([]byte{0x00, 0x02, 0x02, 0x00, 0x00})

	if err := drv.TriggerAction(drv.Actions()[0], nil); err != nil {
		t.Fatalf("TriggerAction(start_program): %v", err)
	}
	out := link.out.Bytes()
	if !bytes.Equal(out[len(out)-2:], []byte{0x05, 0x05}) {
		t.Fatalf("expected literal write value 0x05, got %x", out[len(out)-2:])
	}
}

func TestStartProgramRejectsNotReady(t *testing.T) {
	link, drv := newDriver(t)
	link.in.Write([]byte{0x00, 0x00, 0x00})

	if err := drv.TriggerAction(drv.Actions()[0], nil); err != device.ErrInvalidState {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}
