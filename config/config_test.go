package config_test

import (
	"strings"
	"testing"

	"github.com/freemdu/go-freemdu/config"
)

func TestParseLinkWithOptions(t *testing.T) {
	src := `
# washer on the bench
link /dev/ttyUSB0 baud=9600 chunk=8 driver=629

link /dev/ttyUSB1 dummybytes
`
	links, err := config.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(links))
	}

	first := links[0]
	if first.Port != "/dev/ttyUSB0" || first.Baud != 9600 || first.ChunkSize != 8 || first.DriverHint != "629" {
		t.Fatalf("unexpected first link: %+v", first)
	}

	second := links[1]
	if second.Port != "/dev/ttyUSB1" || !second.DummyBytes || second.Baud != 2400 {
		t.Fatalf("unexpected second link: %+v", second)
	}
}

func TestParseRejectsUnknownDirective(t *testing.T) {
	_, err := config.Parse(strings.NewReader("listen /dev/ttyUSB0\n"))
	if err == nil {
		t.Fatalf("expected an error for an unknown directive")
	}
}

func TestParseRejectsUnknownOption(t *testing.T) {
	_, err := config.Parse(strings.NewReader("link /dev/ttyUSB0 frobnicate\n"))
	if err == nil {
		t.Fatalf("expected an error for an unknown option")
	}
}
