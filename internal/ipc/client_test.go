package ipc

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsAvailableFalseWhenSocketMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.sock")
	c := NewClient(path)
	if c.IsAvailable() {
		t.Error("expected unavailable when socket file does not exist")
	}
}

func TestIsAvailableRemovesStaleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stale.sock")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := NewClient(path)
	if c.IsAvailable() {
		t.Error("expected unavailable for a non-socket file")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected stale file to be removed")
	}
}

func TestIsAvailableTrueForLiveServer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "live.sock")
	srv, err := Listen(path)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer srv.Close()

	c := NewClient(path)
	if !c.IsAvailable() {
		t.Error("expected available for a live server")
	}
}
