package protocol_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/freemdu/go-freemdu/protocol"
	"github.com/freemdu/go-freemdu/wire"
)

// fakeLink is a synchronous byte-trace fake: it plays back pre-scripted
// device bytes on Read and records everything written by Write. It models
// one ping-pong exchange at a time, exactly the shape the real device
// speaks, mirroring the VecDeque fake used by the original Rust test suite.
type fakeLink struct {
	in  *bytes.Buffer // bytes to hand back on Read (scripted device responses)
	out bytes.Buffer  // everything the interface wrote
}

func (f *fakeLink) Read(b []byte) (int, error)  { return f.in.Read(b) }
func (f *fakeLink) Write(b []byte) (int, error) { return f.out.Write(b) }

func newFakeLink(script ...byte) *fakeLink {
	return &fakeLink{in: bytes.NewBuffer(script)}
}

// chunkedReceiveScript builds the exact byte sequence a Framer.Receive call
// expects to consume for data, given chunkSize: each chunkSize-bounded
// sub-chunk is followed by its own checksum byte (no ack bytes -- those are
// written by the receiver, not read from it).
func chunkedReceiveScript(data []byte, chunkSize int) []byte {
	var out []byte
	for offset := 0; offset < len(data); {
		end := offset + chunkSize
		if end > len(data) {
			end = len(data)
		}
		chunk := data[offset:end]
		var sum uint8
		for _, b := range chunk {
			sum += b
		}
		out = append(out, chunk...)
		out = append(out, sum)
		offset = end
	}
	return out
}

func TestQuerySoftwareIDTrace(t *testing.T) {
	// Device: ack(0x00) for the header, then data 0x75 0x02 (0x0275 little
	// endian) + checksum 0x77. Host: the header, then ack(0x00) for the data.
	link := newFakeLink(0x00, 0x75, 0x02, 0x77)
	p := protocol.New(link)

	id, err := p.QuerySoftwareID()
	if err != nil {
		t.Fatalf("QuerySoftwareID: %v", err)
	}
	if id != 629 {
		t.Fatalf("got software id %d, want 629", id)
	}
	want := []byte{0x11, 0x00, 0x00, 0x02, 0x13, 0x00}
	if !bytes.Equal(link.out.Bytes(), want) {
		t.Fatalf("wire trace mismatch: got %x want %x", link.out.Bytes(), want)
	}
}

func TestUnknownSoftwareIDIsCallerObservable(t *testing.T) {
	link := newFakeLink(0x00, 0xff, 0xff, 0xfe)
	p := protocol.New(link)
	id, err := p.QuerySoftwareID()
	if err != nil {
		t.Fatalf("QuerySoftwareID: %v", err)
	}
	if id != 0xFFFF {
		t.Fatalf("got %04x want ffff", id)
	}
}

func TestLockTrace(t *testing.T) {
	link := newFakeLink(0x00)
	p := protocol.New(link)
	if err := p.Lock(); err != nil {
		t.Fatalf("Lock: %v", err)
	}
	want := []byte{0x10, 0x00, 0x00, 0x00, 0x10}
	if !bytes.Equal(link.out.Bytes(), want) {
		t.Fatalf("got %x want %x", link.out.Bytes(), want)
	}
	if p.LastKnownAccessLevel() != protocol.Locked {
		t.Fatalf("expected Locked access level")
	}
}

func TestUnlockReadAccessTrace(t *testing.T) {
	link := newFakeLink(0x00)
	p := protocol.New(link)
	if err := p.UnlockReadAccess(0xabcd); err != nil {
		t.Fatalf("UnlockReadAccess: %v", err)
	}
	want := []byte{0x20, 0xcd, 0xab, 0x00, 0x98}
	if !bytes.Equal(link.out.Bytes(), want) {
		t.Fatalf("got %x want %x", link.out.Bytes(), want)
	}
	if p.LastKnownAccessLevel() != protocol.ReadAccess {
		t.Fatalf("expected ReadAccess level")
	}
}

func TestUnlockFullAccessTrace(t *testing.T) {
	link := newFakeLink(0x00, 0x00)
	p := protocol.New(link)
	_ = p.UnlockReadAccess(0xabcd)
	link.out.Reset()

	if err := p.UnlockFullAccess(0xabcd); err != nil {
		t.Fatalf("UnlockFullAccess: %v", err)
	}
	want := []byte{0x32, 0xcd, 0xab, 0x00, 0xaa}
	if !bytes.Equal(link.out.Bytes(), want) {
		t.Fatalf("got %x want %x", link.out.Bytes(), want)
	}
	if p.LastKnownAccessLevel() != protocol.FullAccess {
		t.Fatalf("expected FullAccess level")
	}
}

func TestReadEEPROMTrace(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	link := newFakeLink(append([]byte{0x00}, chunkedReceiveScript(data, wire.DefaultChunkSize)...)...)

	p := protocol.New(link)
	got, err := p.ReadEEPROM(0xabcd, 10)
	if err != nil {
		t.Fatalf("ReadEEPROM: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("got %x want %x", got, data)
	}
	wantHeader := []byte{0x31, 0xcd, 0xab, 0x0a, 0xb3}
	if !bytes.HasPrefix(link.out.Bytes(), wantHeader) {
		t.Fatalf("got header %x want prefix %x", link.out.Bytes(), wantHeader)
	}
}

func TestExtendedMemoryReadEmitsPrefix(t *testing.T) {
	data := make([]byte, 10)
	link := newFakeLink(append([]byte{0x00, 0x00}, chunkedReceiveScript(data, wire.DefaultChunkSize)...)...)

	p := protocol.New(link)
	_, err := p.ReadMemory(0x1234ABCD, 10)
	if err != nil {
		t.Fatalf("ReadMemory: %v", err)
	}
	wantPrefix := []byte{0x37, 0x34, 0x12, 0x00, 0x7d}
	wantHeader := []byte{0x30, 0xcd, 0xab, 0x0a, 0xb2}
	got := link.out.Bytes()
	if !bytes.HasPrefix(got, wantPrefix) {
		t.Fatalf("missing extend-address prefix: got %x", got)
	}
	rest := got[len(wantPrefix):]
	if !bytes.HasPrefix(rest, wantHeader) {
		t.Fatalf("missing read-memory header: got %x", rest)
	}
}

func TestNoExtensionForInRangeAddress(t *testing.T) {
	link := newFakeLink(append([]byte{0x00}, append(make([]byte, 4), 0x00)...)...)
	p := protocol.New(link)
	_, err := p.ReadMemory(0x1234, 4)
	if err != nil {
		t.Fatalf("ReadMemory: %v", err)
	}
	if got := link.out.Bytes()[0]; got == uint8(protocol.OpExtendAddress) {
		t.Fatalf("did not expect an extend-address prefix for an in-range address")
	}
}

func TestJumpToSubroutineResetsAccessLevel(t *testing.T) {
	link := newFakeLink(0x00, 0x00, 0x01, 0x01)
	p := protocol.New(link)
	_ = p.UnlockReadAccess(0x1)
	resp, err := p.JumpToSubroutine(0xabcd)
	if err != nil {
		t.Fatalf("JumpToSubroutine: %v", err)
	}
	if resp != 0x01 {
		t.Fatalf("got response %x want 01", resp)
	}
	if p.LastKnownAccessLevel() != protocol.Locked {
		t.Fatalf("expected access level to reset to Locked")
	}
}

func TestQueryMaxBaudRateOnlyUsesSecondByte(t *testing.T) {
	link := newFakeLink(0x00, 0x80, 0x03, 0x83)
	p := protocol.New(link)
	rate, err := p.QueryMaxBaudRate()
	if err != nil {
		t.Fatalf("QueryMaxBaudRate: %v", err)
	}
	if rate != protocol.Baud38400 {
		t.Fatalf("got rate index %d want %d", rate, protocol.Baud38400)
	}
}

func TestSetChunkSizeAdoptsEchoedValue(t *testing.T) {
	link := newFakeLink(0x00, 128, 128)
	p := protocol.New(link)
	got, err := p.SetChunkSize(128)
	if err != nil {
		t.Fatalf("SetChunkSize: %v", err)
	}
	if got != 128 {
		t.Fatalf("got %d want 128", got)
	}
	if p.ChunkSize() != 128 {
		t.Fatalf("framer chunk size did not adopt echoed value, got %d", p.ChunkSize())
	}
}

func TestWriteMemoryPropagatesInvalidCommandAck(t *testing.T) {
	link := newFakeLink(uint8(wire.AckInvalidCommand))
	p := protocol.New(link)
	err := p.WriteMemory(0x10, []byte{0x01})
	if !errors.Is(err, wire.ErrInvalidCommand) {
		t.Fatalf("expected ErrInvalidCommand, got %v", err)
	}
}

func TestDummyBytePreambleIsPrependedWhenEnabled(t *testing.T) {
	link := newFakeLink(0x00, 0x00)
	p := protocol.New(link)
	p.EnableDummyBytes()
	if err := p.Lock(); err != nil {
		t.Fatalf("Lock: %v", err)
	}
	want := []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00, 0x10}
	if !bytes.Equal(link.out.Bytes(), want) {
		t.Fatalf("got %x want %x", link.out.Bytes(), want)
	}
}
