package config

import (
	"os"
	"path/filepath"
	"testing"
)

type testDoc struct {
	Version int    `json:"version"`
	Name    string `json:"name"`
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	want := testDoc{Version: 1, Name: "kazeta"}
	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	var got testDoc
	if err := Load(path, &got); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestLoadMissingFileIsNotError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	var got testDoc
	if err := Load(path, &got); err != nil {
		t.Fatalf("Load on missing file should not error, got %v", err)
	}
}

func TestLoadOrDefaultRecoversFromCorruption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	def := testDoc{Version: 1, Name: "default"}
	got := LoadOrDefault(path, def)
	if got != def {
		t.Fatalf("got %+v, want default %+v", got, def)
	}
	// The corrupted file should have been overwritten with defaults.
	var reread testDoc
	if err := Load(path, &reread); err != nil {
		t.Fatalf("reread after recovery save: %v", err)
	}
	if reread != def {
		t.Fatalf("reread %+v, want %+v", reread, def)
	}
}

func TestLoadOrDefaultUsesExistingValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	want := testDoc{Version: 2, Name: "custom"}
	if err := Save(path, want); err != nil {
		t.Fatal(err)
	}
	got := LoadOrDefault(path, testDoc{Version: 1, Name: "default"})
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
