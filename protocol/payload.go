package protocol

// Little-endian scalar helpers shared by the interface and by drivers that
// need to turn a raw memory/EEPROM read into a typed value. Widths are kept
// narrow and explicit (no reflection) to match the closed set the device
// actually speaks: 1, 2, and 4-byte signed and unsigned integers.

func putUint16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

func getUint16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

func putUint32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func getUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// Uint8 reads a 1-byte unsigned scalar from b.
func Uint8(b []byte) uint8 { return b[0] }

// Uint16LE reads a little-endian 2-byte unsigned scalar from b.
func Uint16LE(b []byte) uint16 { return getUint16(b) }

// Uint32LE reads a little-endian 4-byte unsigned scalar from b.
func Uint32LE(b []byte) uint32 { return getUint32(b) }

// Int16LE reads a little-endian 2-byte signed scalar from b.
func Int16LE(b []byte) int16 { return int16(getUint16(b)) }

// Int32LE reads a little-endian 4-byte signed scalar from b.
func Int32LE(b []byte) int32 { return int32(getUint32(b)) }

// PutUint16LE encodes v as 2 little-endian bytes.
func PutUint16LE(v uint16) []byte {
	b := make([]byte, 2)
	putUint16(b, v)
	return b
}

// PutUint32LE encodes v as 4 little-endian bytes.
func PutUint32LE(v uint32) []byte {
	b := make([]byte, 4)
	putUint32(b, v)
	return b
}
