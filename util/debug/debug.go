/*
 * go-freemdu - Mask-gated debug tracing
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

// Package debug implements bitmask-gated trace helpers, re-keyed from
// the mainframe channel/device/CPU masks this idiom originally gated to
// the protocol core's own concerns.
package debug

import "github.com/freemdu/go-freemdu/util/logger"

// Mask selects which trace categories are active. Masks combine with
// bitwise OR; a zero Mask disables all tracing.
type Mask int

const (
	// MaskWire traces raw chunk/checksum/ack traffic on the wire.
	MaskWire Mask = 1 << iota
	// MaskCmd traces command headers sent and their outcomes.
	MaskCmd
	// MaskDriver traces driver-level property/action decode logic.
	MaskDriver
	// MaskAccess traces access-level transitions and liveness resets.
	MaskAccess
)

var active Mask

// SetMask replaces the active trace mask.
func SetMask(m Mask) { active = m }

// Enabled reports whether m has any bit in common with the active mask.
func Enabled(m Mask) bool { return active&m != 0 }

// Tracef emits a trace line tagged with component if mask matches the
// active mask.
func Tracef(component string, mask Mask, format string, a ...interface{}) {
	if !Enabled(mask) {
		return
	}
	logger.Infof(component, format, a...)
}

// Wiref traces raw wire-level chunk/ack activity.
func Wiref(format string, a ...interface{}) {
	Tracef("wire", MaskWire, format, a...)
}

// Cmdf traces command header dispatch.
func Cmdf(format string, a ...interface{}) {
	Tracef("protocol", MaskCmd, format, a...)
}

// Driverf traces per-driver property/action decoding, tagged with the
// driver's own component name (e.g. "id629").
func Driverf(component string, format string, a ...interface{}) {
	Tracef(component, MaskDriver, format, a...)
}

// Accessf traces access-level transitions.
func Accessf(format string, a ...interface{}) {
	Tracef("access", MaskAccess, format, a...)
}
