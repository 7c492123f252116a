package loopback_test

import (
	"testing"

	"github.com/freemdu/go-freemdu/transport/loopback"
)

func TestWriteOnOneSideReadableOnOther(t *testing.T) {
	a, b := loopback.New()
	defer a.Close()
	defer b.Close()

	if _, err := a.Write([]byte("hello")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	buf := make([]byte, 5)
	n, err := b.Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(buf[:n]) != "hello" {
		t.Fatalf("got %q, want hello", buf[:n])
	}
}

func TestCloseUnblocksRead(t *testing.T) {
	a, b := loopback.New()
	done := make(chan error, 1)
	go func() {
		_, err := b.Read(make([]byte, 1))
		done <- err
	}()
	a.Close()
	if err := <-done; err != loopback.ErrClosed {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}
