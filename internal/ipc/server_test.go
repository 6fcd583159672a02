package ipc

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestListenRemovesStaleSocketFile(t *testing.T) {
	// S2: a regular file (not a socket) at the path must be removed, not
	// treated as a live daemon.
	path := filepath.Join(t.TempDir(), "overlay.sock")
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}
	srv, err := Listen(path)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer srv.Close()
}

func TestListenRefusesSecondInstance(t *testing.T) {
	// Invariant 1: socket singleton.
	path := filepath.Join(t.TempDir(), "overlay.sock")
	first, err := Listen(path)
	if err != nil {
		t.Fatalf("first Listen: %v", err)
	}
	defer first.Close()

	go first.Poll(func(Message) {}, nil)

	if _, err := Listen(path); err == nil {
		t.Fatal("expected second Listen on a live socket to fail")
	}
}

func TestPollDeliversOneMessagePerConnection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.sock")
	srv, err := Listen(path)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer srv.Close()

	client := NewClient(path)
	if err := client.ShowToast("hi", StyleInfo, 1000); err != nil {
		t.Fatalf("send: %v", err)
	}

	received := make(chan Message, 1)
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		srv.Poll(func(m Message) { received <- m }, nil)
		select {
		case m := <-received:
			if m.Type != TypeShowToast || m.Message != "hi" {
				t.Fatalf("unexpected message: %+v", m)
			}
			return
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatal("timed out waiting for message")
}

func TestPollDropsUnknownVariant(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.sock")
	srv, err := Listen(path)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer srv.Close()

	client := NewClient(path)
	if err := client.Send(Message{Type: "future_variant"}); err != nil {
		t.Fatalf("send: %v", err)
	}

	var parseErrs int
	var delivered int
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && parseErrs+delivered == 0 {
		srv.Poll(func(Message) { delivered++ }, func(error) { parseErrs++ })
		time.Sleep(10 * time.Millisecond)
	}
	if delivered != 0 {
		t.Errorf("expected unknown variant not to be delivered, got %d deliveries", delivered)
	}
	if parseErrs == 0 {
		t.Error("expected unknown variant to be logged")
	}
}
