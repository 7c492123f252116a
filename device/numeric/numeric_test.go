package numeric_test

import (
	"testing"

	"github.com/freemdu/go-freemdu/device/numeric"
)

func TestDecodeBCDRun(t *testing.T) {
	cases := []struct {
		in   []byte
		want uint32
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x12}, 12},
		{[]byte{0x99}, 99},
		{[]byte{0x12, 0x03}, 312},
		{[]byte{0xaf}, 0}, // nibble > 9 contributes 0 on both sides
	}
	for _, c := range cases {
		if got := numeric.DecodeBCDRun(c.in); got != c.want {
			t.Errorf("DecodeBCDRun(%x) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestNTCResistanceFromADC(t *testing.T) {
	if got := numeric.NTCResistanceFromADC(0); got != 0 {
		t.Errorf("NTCResistanceFromADC(0) = %d, want 0", got)
	}
	prev := uint32(0)
	for v := uint8(1); v < 255; v++ {
		got := numeric.NTCResistanceFromADC(v)
		if got < prev {
			t.Fatalf("NTCResistanceFromADC not monotone at v=%d: %d < %d", v, got, prev)
		}
		prev = got
	}
}

func TestRPMFromMotorSpeed(t *testing.T) {
	if got := numeric.RPMFromMotorSpeed(0x0000); got != 0 {
		t.Errorf("raw 0x0000 => %d, want 0", got)
	}
	if got := numeric.RPMFromMotorSpeed(0xFFFF); got != 0 {
		t.Errorf("raw 0xFFFF => %d, want 0", got)
	}
	if got := numeric.RPMFromMotorSpeed(295); got != 1500 {
		t.Errorf("raw 295 => %d, want 1500", got)
	}
}

func TestDecodeMC14489Digit(t *testing.T) {
	ch, ok := numeric.DecodeMC14489Digit(0x5, false)
	if !ok || ch != '5' {
		t.Errorf("normal digit 5 => %c,%v want 5,true", ch, ok)
	}
	ch, ok = numeric.DecodeMC14489Digit(0x1, true)
	if !ok || ch != '-' {
		t.Errorf("special digit 1 => %c,%v want -,true", ch, ok)
	}
}
