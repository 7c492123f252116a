package device

import "strings"

// FlagBit names one bit of a driver's bitflag set, used by FormatFlags and
// ParseFlags to implement the "|"-separated flag-set value parsing rule
// described in SPEC_FULL.md's design notes. Drivers declare their own named
// bit constants and FlagBit tables -- this is just the shared formatting
// and parsing logic every such table needs.
type FlagBit struct {
	Bit  uint64
	Name string
}

// FormatFlags renders the names of every bit set in active, in table
// order, joined by " | ". An active value with no matching bits yields "".
func FormatFlags(active uint64, bits []FlagBit) string {
	var names []string
	for _, b := range bits {
		if active&b.Bit != 0 {
			names = append(names, b.Name)
		}
	}
	return strings.Join(names, " | ")
}

// ParseFlags parses a "|"-separated (whitespace-trimmed) list of flag
// names against bits, returning the OR of their bit values. An unknown or
// empty name returns ErrInvalidArgument.
func ParseFlags(s string, bits []FlagBit) (uint64, error) {
	var value uint64
	for _, name := range strings.Split(s, "|") {
		name = strings.TrimSpace(name)
		if name == "" {
			return 0, ErrInvalidArgument
		}
		found := false
		for _, b := range bits {
			if b.Name == name {
				value |= b.Bit
				found = true
				break
			}
		}
		if !found {
			return 0, ErrInvalidArgument
		}
	}
	return value, nil
}
