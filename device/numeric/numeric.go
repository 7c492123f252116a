/*
 * go-freemdu - Shared decoding helpers used by several model drivers.
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

// Package numeric collects the small set of numeric decoding rules that
// recur across several model drivers: packed-BCD run decoding, NTC
// thermistor resistance, tachometer-to-RPM conversion, and MC14489
// seven-segment digit decoding. None of it is protocol-specific; it is pure
// math/lookup shared because more than one driver needs exactly this.
package numeric

// DecodeBCDRun interprets a little-endian run of packed-BCD bytes as a
// base-10 integer. Each byte holds two decimal digits, low nibble first in
// significance within the byte, bytes ordered least-significant first
// across the run. A nibble greater than 9 contributes 0 rather than
// faulting -- the original firmware does the same, silently.
func DecodeBCDRun(bytes []byte) uint32 {
	var value uint32
	var place uint32 = 1
	for _, b := range bytes {
		lo := b & 0x0f
		hi := (b >> 4) & 0x0f
		if lo > 9 {
			lo = 0
		}
		if hi > 9 {
			hi = 0
		}
		value += uint32(lo) * place
		place *= 10
		value += uint32(hi) * place
		place *= 10
	}
	return value
}

// NTCResistanceFromADC converts an 8-bit ADC reading against a 2.15 kOhm
// divider into the NTC thermistor's resistance in ohms. v must be in
// [0,254]; v==255 is undefined (open circuit) and must not be passed in --
// callers should treat 0xFF as a sentinel "no reading" before calling this.
func NTCResistanceFromADC(v uint8) uint32 {
	return uint32(2150) * uint32(v) / (256 - uint32(v))
}

// RPMFromMotorSpeed converts the device's raw tachometer period-like value
// into motor RPM via the empirically fitted constant 442500. Both 0x0000
// and 0xFFFF are device sentinels meaning "no speed" and map to 0.
func RPMFromMotorSpeed(raw uint32) uint16 {
	if raw == 0x0000 || raw == 0xFFFF {
		return 0
	}
	rpm := 442500 / raw
	if rpm > 0xFFFF {
		rpm = 0xFFFF
	}
	return uint16(rpm)
}

// mc14489Normal and mc14489Special are the two parallel seven-segment
// lookup tables keyed by a 4-bit digit code; "special" selects the
// alternate table some drivers use for non-numeric glyphs (dashes, blanks,
// degree marks). A code with no mapping in the selected table decodes to
// false in ok.
var mc14489Normal = map[uint8]byte{
	0x0: '0', 0x1: '1', 0x2: '2', 0x3: '3', 0x4: '4',
	0x5: '5', 0x6: '6', 0x7: '7', 0x8: '8', 0x9: '9',
	0xf: ' ',
}

var mc14489Special = map[uint8]byte{
	0x0: ' ', 0x1: '-', 0x2: 'E', 0x3: 'H',
	0x4: 'L', 0x5: 'P', 0x6: 'U', 0x7: 'n',
	0xf: ' ',
}

// DecodeMC14489Digit maps a 4-bit digit code to a displayable rune, using
// the special-glyph table iff special is true.
func DecodeMC14489Digit(code uint8, special bool) (byte, bool) {
	code &= 0x0f
	if special {
		ch, ok := mc14489Special[code]
		return ch, ok
	}
	ch, ok := mc14489Normal[code]
	return ch, ok
}
