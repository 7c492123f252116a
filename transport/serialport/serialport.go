/*
 * go-freemdu - Serial port transport adapter.
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
 *
 */

// Package serialport opens the real RS-232 link to an appliance board,
// wrapping github.com/tarm/serial the way other 2400/9600-baud
// diagnostic tools in the ecosystem do.
package serialport

import (
	"time"

	goserial "github.com/tarm/serial"
)

// Port wraps an open serial connection as an io.ReadWriteCloser usable
// directly by protocol.New.
type Port struct {
	conn *goserial.Port
}

// Open opens name (e.g. "/dev/ttyUSB0" or "COM3") at baud, 8 data bits,
// even parity, one stop bit -- the framing every driver in the catalog
// expects -- with a generous read timeout so Receive's blocking reads
// eventually surface a timeout error instead of hanging forever on a
// dead link.
func Open(name string, baud int) (*Port, error) {
	conn, err := goserial.OpenPort(&goserial.Config{
		Name:        name,
		Baud:        baud,
		Parity:      goserial.ParityEven,
		Size:        8,
		StopBits:    goserial.Stop1,
		ReadTimeout: 3 * time.Second,
	})
	if err != nil {
		return nil, err
	}
	return &Port{conn: conn}, nil
}

func (p *Port) Read(b []byte) (int, error)  { return p.conn.Read(b) }
func (p *Port) Write(b []byte) (int, error) { return p.conn.Write(b) }
func (p *Port) Close() error                { return p.conn.Close() }

// Flush discards any buffered input and output, used when resynchronizing
// after a protocol error leaves stray bytes on the wire.
func (p *Port) Flush() error { return p.conn.Flush() }
