/*
 * go-freemdu - Chunked framing codec for the diagnostic serial link.
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

// Package wire implements the chunked, checksummed framing layer that sits
// directly on top of the byte channel. It knows nothing about commands,
// addresses, or devices -- only about splitting a payload into chunks, each
// guarded by an 8-bit wrapping checksum and a single acknowledgement byte.
package wire

import (
	"errors"
	"fmt"
	"io"

	"github.com/freemdu/go-freemdu/util/debug"
)

// Ack is the single-byte acknowledgement code exchanged after every chunk.
type Ack uint8

const (
	AckSuccess           Ack = 0
	AckIncorrectChecksum Ack = 1
	AckInvalidCommand    Ack = 2
)

// DefaultChunkSize is the chunk size assumed immediately after connect,
// before any SetChunkSize negotiation.
const DefaultChunkSize = 4

// Sentinel errors surfaced by the framing layer. Wrap with fmt.Errorf("%w")
// to add context; callers should use errors.Is/As against these.
var (
	ErrIncorrectChecksum = errors.New("wire: incorrect checksum")
	ErrInvalidCommand    = errors.New("wire: invalid command")
	ErrInvalidAck        = errors.New("wire: invalid acknowledgement byte")
)

// Framer sends and receives payloads in chunk_size-bounded chunks over a
// byte channel, verifying (or producing) the checksum and ack byte for
// every chunk. It is not safe for concurrent use -- exactly like the device
// it talks to, it assumes one owner issuing one command at a time.
type Framer struct {
	rw        io.ReadWriter
	chunkSize int
}

// NewFramer wraps rw with the default chunk size. Use SetChunkSize once the
// device has echoed back an accepted size via the SetChunkSize command.
func NewFramer(rw io.ReadWriter) *Framer {
	return &Framer{rw: rw, chunkSize: DefaultChunkSize}
}

// ChunkSize reports the currently configured chunk size.
func (f *Framer) ChunkSize() int {
	return f.chunkSize
}

// SetChunkSize updates the chunk size used for subsequent Send/Receive
// calls. Callers are expected to set this to whatever the device echoed
// back from a SetChunkSize command, not to an arbitrary local preference.
func (f *Framer) SetChunkSize(size int) {
	if size > 0 {
		f.chunkSize = size
	}
}

// checksum8 computes the 8-bit wrapping sum of b.
func checksum8(b []byte) uint8 {
	var sum uint8
	for _, v := range b {
		sum += v
	}
	return sum
}

// Send transmits payload in chunk_size-bounded chunks, each followed by its
// checksum byte, waiting for a one-byte acknowledgement after every chunk.
// A non-success ack aborts the transfer and returns the corresponding error.
func (f *Framer) Send(payload []byte) error {
	for offset := 0; offset < len(payload) || len(payload) == 0; {
		end := offset + f.chunkSize
		if end > len(payload) {
			end = len(payload)
		}
		chunk := payload[offset:end]

		if _, err := f.rw.Write(chunk); err != nil {
			return fmt.Errorf("wire: write chunk: %w", err)
		}
		if _, err := f.rw.Write([]byte{checksum8(chunk)}); err != nil {
			return fmt.Errorf("wire: write checksum: %w", err)
		}

		ackBuf := make([]byte, 1)
		if _, err := io.ReadFull(f.rw, ackBuf); err != nil {
			return fmt.Errorf("wire: read ack: %w", err)
		}
		switch Ack(ackBuf[0]) {
		case AckSuccess:
			debug.Wiref("sent chunk % x, ack success", chunk)
		case AckIncorrectChecksum:
			debug.Wiref("sent chunk % x, device reported checksum error", chunk)
			return ErrIncorrectChecksum
		case AckInvalidCommand:
			debug.Wiref("sent chunk % x, device reported invalid command", chunk)
			return ErrInvalidCommand
		default:
			return fmt.Errorf("%w: 0x%02x", ErrInvalidAck, ackBuf[0])
		}

		offset = end
		if len(payload) == 0 {
			break
		}
	}
	return nil
}

// Receive reads exactly n bytes in chunk_size-bounded chunks, verifying the
// checksum of each chunk against the transmitted value before acknowledging
// it. On a checksum mismatch, Receive returns ErrIncorrectChecksum and
// writes nothing to the wire -- sending any ack code other than Success
// mid-transfer would abort the sender, which this side never does. The
// caller owns deciding whether to retry the whole operation.
func (f *Framer) Receive(n int) ([]byte, error) {
	out := make([]byte, 0, n)
	for len(out) < n || n == 0 {
		want := f.chunkSize
		if remaining := n - len(out); remaining < want {
			want = remaining
		}

		chunk := make([]byte, want)
		if want > 0 {
			if _, err := io.ReadFull(f.rw, chunk); err != nil {
				return nil, fmt.Errorf("wire: read chunk: %w", err)
			}
		}

		sumBuf := make([]byte, 1)
		if _, err := io.ReadFull(f.rw, sumBuf); err != nil {
			return nil, fmt.Errorf("wire: read checksum: %w", err)
		}

		if checksum8(chunk) != sumBuf[0] {
			debug.Wiref("received chunk % x, checksum mismatch (got %#02x)", chunk, sumBuf[0])
			return nil, ErrIncorrectChecksum
		}

		if _, err := f.rw.Write([]byte{uint8(AckSuccess)}); err != nil {
			return nil, fmt.Errorf("wire: write ack: %w", err)
		}
		debug.Wiref("received chunk % x", chunk)

		out = append(out, chunk...)
		if n == 0 {
			break
		}
	}
	return out, nil
}
