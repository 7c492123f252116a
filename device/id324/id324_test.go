package id324_test

import (
	"bytes"
	"testing"

	"github.com/freemdu/go-freemdu/device"
	"github.com/freemdu/go-freemdu/device/id324"
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
	// id324's New only issues UnlockReadAccess and UnlockFullAccess, no
	// ROM-protection write, so it needs exactly two acks.
	link := &fakeLink{in: bytes.NewBuffer([]byte{0x00, 0x00})}
	drv, err := id324.New(protocol.New(link), id324.SoftwareID)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return link, drv
}

func TestNewRunsUnlockSequenceOnly(t *testing.T) {
	link, drv := newDriver(t)

	if drv.SoftwareID() != id324.SoftwareID {
		t.Fatalf("got software id %d want %d", drv.SoftwareID(), id324.SoftwareID)
	}
	out := link.out.Bytes()
	if len(out) != 10 {
		t.Fatalf("expected exactly two 5-byte headers (no ROM-protection write), got %d bytes: %x", len(out), out)
	}
	if out[0] != 0x20 {
		t.Fatalf("expected UnlockReadAccess opcode 0x20 first, got %x", out)
	}
	if out[5] != 0x32 {
		t.Fatalf("expected UnlockFullAccess opcode 0x32 second, got %x", out[5:])
	}
}

func TestPropertiesAndActionsAreNonEmptyAndStable(t *testing.T) {
	_, drv := newDriver(t)

	props := drv.Properties()
	seen := map[string]bool{}
	for _, p := range props {
		if seen[p.ID] {
			t.Fatalf("duplicate property id %q", p.ID)
		}
		seen[p.ID] = true
	}
	if len(props) != 21 {
		t.Fatalf("expected 21 properties, got %d", len(props))
	}
	if len(drv.Actions()) != 3 {
		t.Fatalf("expected 3 actions, got %d", len(drv.Actions()))
	}
}

func TestStartProgramRequiresReadyState(t *testing.T) {
	link, drv := newDriver(t)
	// header ack, data byte (not ready), its checksum
	link.in.Write([]byte{0x00, 0x00, 0x00})

	action := findAction(drv.Actions(), "start_program")
	if err := drv.TriggerAction(action, nil); err != device.ErrInvalidState {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestStartProgramWritesRunValueWhenReady(t *testing.T) {
	link, drv := newDriver(t)
	// header ack, data byte 0x01 + checksum, then write header ack + data-chunk ack
	link.in.Write([]byte{0x00, 0x01, 0x01, 0x00, 0x00})

	action := findAction(drv.Actions(), "start_program")
	if err := drv.TriggerAction(action, nil); err != nil {
		t.Fatalf("TriggerAction(start_program): %v", err)
	}
}

func TestSetProgramSpinSettingWritesIndex(t *testing.T) {
	link, drv := newDriver(t)
	link.in.Write([]byte{0x00, 0x00}) // header ack + data-chunk ack

	action := findAction(drv.Actions(), "set_program_spin_setting")
	param := device.StringValue("Fast")
	if err := drv.TriggerAction(action, &param); err != nil {
		t.Fatalf("TriggerAction(set_program_spin_setting): %v", err)
	}
	out := link.out.Bytes()
	if !bytes.Equal(out[len(out)-2:], []byte{0x03, 0x03}) {
		t.Fatalf("expected payload 0x03 (Fast), got %x", out[len(out)-2:])
	}
}

func TestSetProgramOptionsRejectsUnknownFlag(t *testing.T) {
	_, drv := newDriver(t)
	action := findAction(drv.Actions(), "set_program_options")
	param := device.StringValue("Bogus")
	if err := drv.TriggerAction(action, &param); err != device.ErrInvalidArgument {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func findAction(actions []device.Action, id string) device.Action {
	for _, a := range actions {
		if a.ID == id {
			return a
		}
	}
	panic("action not found: " + id)
}
