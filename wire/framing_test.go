package wire_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/freemdu/go-freemdu/transport/loopback"
	"github.com/freemdu/go-freemdu/wire"
)

// newPair lets a Send and a Receive on two independent Framers talk to
// each other through an in-memory loopback channel, the way the original
// Rust test suite drove its framing tests against an in-memory VecDeque.
// Reads block until the peer has written, so the two sides stay in step.
func newPair() (io.ReadWriter, io.ReadWriter) {
	return loopback.New()
}

func TestSendReceiveRoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{0x01},
		{0x01, 0x02, 0x03},
		{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a},
		bytes.Repeat([]byte{0xab}, 257),
	}

	for _, payload := range cases {
		senderSide, receiverSide := newPair()
		sender := wire.NewFramer(senderSide)
		receiver := wire.NewFramer(receiverSide)

		errCh := make(chan error, 1)
		go func() { errCh <- sender.Send(payload) }()

		got, err := receiver.Receive(len(payload))
		if err != nil {
			t.Fatalf("Receive: %v", err)
		}
		if err := <-errCh; err != nil {
			t.Fatalf("Send: %v", err)
		}
		if !bytes.Equal(got, payload) {
			t.Fatalf("round trip mismatch: got %x want %x", got, payload)
		}
	}
}

func TestReceiveDetectsChecksumMismatch(t *testing.T) {
	buf := &bytes.Buffer{}
	buf.Write([]byte{0x01, 0x02, 0x03, 0x04}) // 4-byte chunk
	buf.Write([]byte{0x00})                   // wrong checksum, should be 0x0a
	ack := &bytes.Buffer{}

	r := wire.NewFramer(rwPair{r: buf, w: ack})

	_, err := r.Receive(4)
	if !errors.Is(err, wire.ErrIncorrectChecksum) {
		t.Fatalf("expected ErrIncorrectChecksum, got %v", err)
	}
	if ack.Len() != 0 {
		t.Fatalf("expected nothing written to the wire on checksum mismatch, got %x", ack.Bytes())
	}
}

func TestSendAbortsOnDeviceAck(t *testing.T) {
	out := &bytes.Buffer{}
	in := &bytes.Buffer{}
	in.WriteByte(uint8(wire.AckInvalidCommand))

	f := wire.NewFramer(rwPair{r: in, w: out})
	err := f.Send([]byte{0x11, 0x00, 0x00, 0x02})
	if !errors.Is(err, wire.ErrInvalidCommand) {
		t.Fatalf("expected ErrInvalidCommand, got %v", err)
	}
}

func TestChunkSizeNegotiationAffectsFraming(t *testing.T) {
	senderSide, receiverSide := newPair()
	sender := wire.NewFramer(senderSide)
	receiver := wire.NewFramer(receiverSide)
	sender.SetChunkSize(128)
	receiver.SetChunkSize(128)

	payload := bytes.Repeat([]byte{0x5a}, 200)
	errCh := make(chan error, 1)
	go func() { errCh <- sender.Send(payload) }()

	got, err := receiver.Receive(len(payload))
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("round trip mismatch with chunk size 128")
	}
}

type rwPair struct {
	r *bytes.Buffer
	w *bytes.Buffer
}

func (p rwPair) Read(b []byte) (int, error)  { return p.r.Read(b) }
func (p rwPair) Write(b []byte) (int, error) { return p.w.Write(b) }
