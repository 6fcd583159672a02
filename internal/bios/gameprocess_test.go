package bios

import (
	"testing"
	"time"
)

func TestStartGameCapturesStdoutAndExits(t *testing.T) {
	gp, err := StartGame("cart-1", []string{"/bin/sh", "-c", "echo hello; echo world 1>&2"})
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		gp.Wait("/tmp/kazeta-overlay-test-nonexistent.sock")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for game process to exit")
	}

	lines := gp.Logs()
	if len(lines) != 2 {
		t.Fatalf("expected 2 buffered lines, got %v", lines)
	}
}

func TestLogRingEvictsOldestPastCapacity(t *testing.T) {
	r := &logRing{}
	for i := 0; i < logRingCapacity+10; i++ {
		r.push("line")
	}
	if len(r.Lines()) != logRingCapacity {
		t.Fatalf("expected ring capped at %d, got %d", logRingCapacity, len(r.Lines()))
	}
}
