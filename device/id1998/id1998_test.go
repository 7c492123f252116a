package id1998_test

import (
	"bytes"
	"testing"

	"github.com/freemdu/go-freemdu/device"
	"github.com/freemdu/go-freemdu/device/id1998"
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
	link := &fakeLink{in: bytes.NewBuffer([]byte{0x00, 0x00})}
	drv, err := id1998.New(protocol.New(link), id1998.SoftwareID)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return link, drv
}

func TestNoActions(t *testing.T) {
	_, drv := newDriver(t)
	if len(drv.Actions()) != 0 {
		t.Fatalf("expected no actions for an experimental board, got %d", len(drv.Actions()))
	}
	if err := drv.TriggerAction(device.Action{ID: "start_program"}, nil); err != device.ErrUnknownAction {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
}

func TestPropertiesAreStable(t *testing.T) {
	_, drv := newDriver(t)
	props := drv.Properties()
	if len(props) != 18 {
		t.Fatalf("expected 18 properties, got %d", len(props))
	}
	seen := map[string]bool{}
	for _, p := range props {
		if seen[p.ID] {
			t.Fatalf("duplicate property id %q", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestProgramOptionsAreInvertedBeforeDecode(t *testing.T) {
	link, drv := newDriver(t)
	// Raw word 0x0040 (IntensiveShort bit set), little-endian, XORed with
	// 0x0040 yields 0x0000 -- no options reported.
	link.in.Write([]byte{0x00, 0x40, 0x00, 0x40})

	var opts device.Property
	for _, p := range drv.Properties() {
		if p.ID == "program_options" {
			opts = p
		}
	}
	v, err := drv.QueryProperty(opts)
	if err != nil {
		t.Fatalf("QueryProperty(program_options): %v", err)
	}
	s, _ := v.AsString()
	if s != "" {
		t.Fatalf("expected inverted bit to cancel out to no options, got %q", s)
	}
}
