package id419_test

import (
	"bytes"
	"testing"

	"github.com/freemdu/go-freemdu/device"
	"github.com/freemdu/go-freemdu/device/id419"
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
	// Each sendHeader call under the dummy-byte preamble issues two
	// separate Framer.Send calls (the 4 dummy bytes, then the header),
	// each needing its own ack; New issues two sendHeader calls.
	link := &fakeLink{in: bytes.NewBuffer([]byte{0x00, 0x00, 0x00, 0x00})}
	drv, err := id419.New(protocol.New(link), id419.SoftwareID)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return link, drv
}

func TestNewPrependsDummyBytesToUnlockSequence(t *testing.T) {
	link, drv := newDriver(t)

	if drv.SoftwareID() != id419.SoftwareID {
		t.Fatalf("got software id %d want %d", drv.SoftwareID(), id419.SoftwareID)
	}
	out := link.out.Bytes()
	// Each of the two headers is a 5-byte dummy chunk (4 zero bytes + its
	// checksum) followed by a 5-byte header chunk, for 20 bytes total.
	if len(out) != 20 {
		t.Fatalf("expected 20 bytes (two dummy-prefixed headers), got %d: %x", len(out), out)
	}
	if !bytes.Equal(out[0:5], []byte{0, 0, 0, 0, 0}) {
		t.Fatalf("expected leading dummy chunk + checksum, got %x", out[0:5])
	}
	if out[5] != 0x20 {
		t.Fatalf("expected UnlockReadAccess opcode 0x20 after dummy bytes, got %x", out[5:])
	}
	if !bytes.Equal(out[10:15], []byte{0, 0, 0, 0, 0}) {
		t.Fatalf("expected dummy chunk before second header, got %x", out[10:15])
	}
	if out[15] != 0x32 {
		t.Fatalf("expected UnlockFullAccess opcode 0x32 after dummy bytes, got %x", out[15:])
	}
}

func TestPropertiesAndActionsAreNonEmptyAndStable(t *testing.T) {
	_, drv := newDriver(t)

	if len(drv.Properties()) != 16 {
		t.Fatalf("expected 16 properties, got %d", len(drv.Properties()))
	}
	if len(drv.Actions()) != 3 {
		t.Fatalf("expected 3 actions, got %d", len(drv.Actions()))
	}
}

func TestStartProgramRequiresReadyState(t *testing.T) {
	link, drv := newDriver(t)
	// readMem's sendHeader issues a dummy-preamble Send and a header Send,
	// each needing its own ack, before Receive reads the data byte + its
	// checksum: dummy-ack, header-ack, data (not ready), checksum.
	link.in.Write([]byte{0x00, 0x00, 0x00, 0x00})

	action := findAction(drv.Actions(), "start_program")
	if err := drv.TriggerAction(action, nil); err != device.ErrInvalidState {
		t.Fatalf("expected ErrInvalidState, got %v", err)
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
