package id132_test

import (
	"bytes"
	"testing"

	"github.com/freemdu/go-freemdu/device"
	"github.com/freemdu/go-freemdu/device/id132"
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
	drv, err := id132.New(protocol.New(link), id132.SoftwareID)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return link, drv
}

func TestNoActions(t *testing.T) {
	_, drv := newDriver(t)
	if len(drv.Actions()) != 0 {
		t.Fatalf("expected no actions, got %d", len(drv.Actions()))
	}
	if err := drv.TriggerAction(device.Action{ID: "anything"}, nil); err != device.ErrUnknownAction {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
}

func TestPropertiesIncludeNineFaultCodes(t *testing.T) {
	_, drv := newDriver(t)
	props := drv.Properties()
	if len(props) != 20 {
		t.Fatalf("expected 20 properties, got %d", len(props))
	}
	count := 0
	for _, p := range props {
		if p.Kind == device.Failure {
			count++
		}
	}
	if count != 9 {
		t.Fatalf("expected 9 fault properties, got %d", count)
	}
}

func findProperty(props []device.Property, id string) device.Property {
	for _, p := range props {
		if p.ID == id {
			return p
		}
	}
	return device.Property{}
}

func TestFaultQueryReportsActive(t *testing.T) {
	link, drv := newDriver(t)
	// fault_f1 (LevelSwitch): active byte at 0x0061, bit 0x02. A single
	// 1-byte ReadMemory needs header ack + 1 data byte + checksum; active
	// is set, so no stored read follows.
	link.in.Write([]byte{0x00, 0x02, 0x02})

	fault1 := findProperty(drv.Properties(), "fault_f1")
	v, err := drv.QueryProperty(fault1)
	if err != nil {
		t.Fatalf("QueryProperty(fault_f1): %v", err)
	}
	s, ok := v.AsString()
	if !ok || s != "Active" {
		t.Fatalf("expected Active, got %q", s)
	}
}

func TestFaultQueryReportsStoredWhenNotActive(t *testing.T) {
	link, drv := newDriver(t)
	// active byte clear, then stored byte at 0x000e with bit 0x01 set.
	link.in.Write([]byte{0x00, 0x00, 0x00})
	link.in.Write([]byte{0x00, 0x01, 0x01})

	fault1 := findProperty(drv.Properties(), "fault_f1")
	v, err := drv.QueryProperty(fault1)
	if err != nil {
		t.Fatalf("QueryProperty(fault_f1): %v", err)
	}
	s, ok := v.AsString()
	if !ok || s != "Stored" {
		t.Fatalf("expected Stored, got %q", s)
	}
}

func TestFaultWithNoStoredBitReportsOkWhenInactive(t *testing.T) {
	link, drv := newDriver(t)
	// fault_f5 (DetergentOverdose) has no stored location: a clear active
	// byte means Ok without any further read.
	link.in.Write([]byte{0x00, 0x00, 0x00})

	fault5 := findProperty(drv.Properties(), "fault_f5")
	v, err := drv.QueryProperty(fault5)
	if err != nil {
		t.Fatalf("QueryProperty(fault_f5): %v", err)
	}
	s, ok := v.AsString()
	if !ok || s != "Ok" {
		t.Fatalf("expected Ok, got %q", s)
	}
}
