package id629_test

import (
	"bytes"
	"testing"

	"github.com/freemdu/go-freemdu/device"
	"github.com/freemdu/go-freemdu/device/id629"
	"github.com/freemdu/go-freemdu/protocol"
)

// fakeLink is an exact byte-trace fake, the same shape used by the
// protocol package's own tests: in holds pre-scripted device bytes handed
// back on Read; out records everything written.
type fakeLink struct {
	in  *bytes.Buffer
	out bytes.Buffer
}

func (f *fakeLink) Read(b []byte) (int, error)  { return f.in.Read(b) }
func (f *fakeLink) Write(b []byte) (int, error) { return f.out.Write(b) }

func newUnlockScript() *fakeLink {
	// One ack for UnlockReadAccess, one for UnlockFullAccess, one for the
	// WriteMemory header, one for its single-byte data chunk.
	return &fakeLink{in: bytes.NewBuffer([]byte{0x00, 0x00, 0x00, 0x00})}
}

func newDriver(t *testing.T) (*fakeLink, device.Driver) {
	t.Helper()
	link := newUnlockScript()
	drv, err := id629.New(protocol.New(link), id629.SoftwareID)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return link, drv
}

func TestNewRunsUnlockSequenceAndRomProtectionWrite(t *testing.T) {
	link, drv := newDriver(t)

	if drv.SoftwareID() != id629.SoftwareID {
		t.Fatalf("got software id %d want %d", drv.SoftwareID(), id629.SoftwareID)
	}
	if drv.Kind() != device.WashingMachine {
		t.Fatalf("got kind %v want WashingMachine", drv.Kind())
	}

	out := link.out.Bytes()
	if out[0] != 0x20 {
		t.Fatalf("expected UnlockReadAccess opcode 0x20 first, got %x", out)
	}
	if out[5] != 0x32 {
		t.Fatalf("expected UnlockFullAccess opcode 0x32 second, got %x", out[5:])
	}
	if out[10] != 0x40 {
		t.Fatalf("expected WriteMemory opcode 0x40 third, got %x", out[10:])
	}
	if !bytes.Equal(out[15:17], []byte{0x01, 0x01}) {
		t.Fatalf("expected ROM-protection payload byte 0x01 + its checksum, got %x", out[15:])
	}
}

func TestPropertiesAndActionsAreNonEmptyAndStable(t *testing.T) {
	_, drv := newDriver(t)

	props := drv.Properties()
	if len(props) == 0 {
		t.Fatalf("expected a non-empty property list")
	}
	seen := map[string]bool{}
	for _, p := range props {
		if seen[p.ID] {
			t.Fatalf("duplicate property id %q", p.ID)
		}
		seen[p.ID] = true
	}
	acts := drv.Actions()
	if len(acts) != 3 {
		t.Fatalf("expected 3 actions, got %d", len(acts))
	}
}

func TestStartProgramRequiresReadyState(t *testing.T) {
	link, drv := newDriver(t)

	// start_program reads the state byte at 0x00e7; script a non-ready
	// value (0x00): header ack, then a 1-byte chunk + its checksum.
	link.in.Write([]byte{0x00, 0x00, 0x00})

	startAction := findAction(drv.Actions(), "start_program")
	err := drv.TriggerAction(startAction, nil)
	if err != device.ErrInvalidState {
		t.Fatalf("expected ErrInvalidState for a zero state byte, got %v", err)
	}
}

func TestStartProgramWritesRunValueWhenReady(t *testing.T) {
	link, drv := newDriver(t)

	// header ack, then data byte 0x01 + checksum 0x01, then the
	// WriteMemory(0x02) header ack and its data-chunk ack.
	link.in.Write([]byte{0x00, 0x01, 0x01, 0x00, 0x00})

	startAction := findAction(drv.Actions(), "start_program")
	if err := drv.TriggerAction(startAction, nil); err != nil {
		t.Fatalf("TriggerAction(start_program): %v", err)
	}
}

func TestSetProgramOptionsParsesFlagString(t *testing.T) {
	link, drv := newDriver(t)
	link.in.Write([]byte{0x00, 0x00}) // header ack + data-chunk ack

	action := findAction(drv.Actions(), "set_program_options")
	param := device.StringValue("Soak | WaterPlus")
	if err := drv.TriggerAction(action, &param); err != nil {
		t.Fatalf("TriggerAction(set_program_options): %v", err)
	}
	out := link.out.Bytes()
	// Last two bytes written are the data chunk (0x05 = Soak|WaterPlus) and its checksum.
	if !bytes.Equal(out[len(out)-2:], []byte{0x05, 0x05}) {
		t.Fatalf("expected payload 0x05 (Soak|WaterPlus), got %x", out[len(out)-2:])
	}
}

func TestSetProgramOptionsRejectsMissingParam(t *testing.T) {
	_, drv := newDriver(t)
	action := findAction(drv.Actions(), "set_program_options")
	if err := drv.TriggerAction(action, nil); err != device.ErrInvalidArgument {
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
