/*
 * go-freemdu - In-memory loopback byte channel for tests and demos.
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

// Package loopback provides an in-memory io.ReadWriter pair that stands in
// for a real serial link in tests and demos.
package loopback

import (
	"bytes"
	"errors"
	"sync"
)

// ErrClosed is returned by Read/Write after Close.
var ErrClosed = errors.New("loopback: channel closed")

// Pair is one side of a loopback byte channel. Writes to one side become
// readable from the other; there is no buffering limit beyond memory.
type Pair struct {
	mu     sync.Mutex
	cond   *sync.Cond
	inbox  bytes.Buffer
	peer   *Pair
	closed bool
}

// New returns two connected Pairs: writes to a are readable from b and
// vice versa.
func New() (a, b *Pair) {
	a = &Pair{}
	b = &Pair{}
	a.cond = sync.NewCond(&a.mu)
	b.cond = sync.NewCond(&b.mu)
	a.peer = b
	b.peer = a
	return a, b
}

// Write appends b to the peer's inbox, waking any blocked Read.
func (p *Pair) Write(b []byte) (int, error) {
	peer := p.peer
	peer.mu.Lock()
	defer peer.mu.Unlock()
	if peer.closed {
		return 0, ErrClosed
	}
	n, _ := peer.inbox.Write(b)
	peer.cond.Broadcast()
	return n, nil
}

// Read blocks until at least one byte is available in this side's inbox,
// or the pair is closed.
func (p *Pair) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.inbox.Len() == 0 && !p.closed {
		p.cond.Wait()
	}
	if p.inbox.Len() == 0 && p.closed {
		return 0, ErrClosed
	}
	return p.inbox.Read(b)
}

// Close marks both sides of the pair closed and wakes any blocked Read.
func (p *Pair) Close() error {
	p.mu.Lock()
	p.closed = true
	p.cond.Broadcast()
	p.mu.Unlock()

	peer := p.peer
	peer.mu.Lock()
	peer.closed = true
	peer.cond.Broadcast()
	peer.mu.Unlock()
	return nil
}
