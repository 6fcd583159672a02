package overlay

import (
	"path/filepath"
	"testing"
	"time"
)

func TestPlaytimeConservation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playtime.json")
	tr := NewPlaytimeTracker(path)

	start := time.Now()
	tr.StartSession(start, "g")
	stop := start.Add(2 * time.Second)
	if err := tr.EndSession(stop); err != nil {
		t.Fatal(err)
	}

	entry, ok := tr.Entry("g")
	if !ok {
		t.Fatalf("expected entry for g")
	}
	if entry.TotalSeconds < 1 {
		t.Fatalf("total_seconds = %d, want >= stop-start-1", entry.TotalSeconds)
	}
	if entry.PlayCount != 1 {
		t.Fatalf("play_count = %d, want 1", entry.PlayCount)
	}

	// Reload from disk to confirm persistence.
	reloaded := NewPlaytimeTracker(path)
	entry2, ok := reloaded.Entry("g")
	if !ok || entry2.TotalSeconds != entry.TotalSeconds {
		t.Fatalf("reloaded entry mismatch: %+v", entry2)
	}
}

func TestPlaytimeMultipleSessionsAccumulate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playtime.json")
	tr := NewPlaytimeTracker(path)

	start := time.Now()
	for i := 0; i < 3; i++ {
		s := start.Add(time.Duration(i) * 10 * time.Second)
		tr.StartSession(s, "g")
		tr.EndSession(s.Add(2 * time.Second))
	}

	entry, _ := tr.Entry("g")
	if entry.PlayCount != 3 {
		t.Fatalf("play_count = %d, want 3", entry.PlayCount)
	}
	if entry.TotalSeconds < 6 {
		t.Fatalf("total_seconds = %d, want >= 6", entry.TotalSeconds)
	}
}

func TestPlaytimeStartSavesPendingSessionFirst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playtime.json")
	tr := NewPlaytimeTracker(path)

	start := time.Now()
	tr.StartSession(start, "a")
	// Starting a new session before ending "a" must save "a" first.
	tr.StartSession(start.Add(2*time.Second), "b")

	aEntry, ok := tr.Entry("a")
	if !ok || aEntry.PlayCount != 1 {
		t.Fatalf("expected a's session saved by implicit end, got %+v ok=%v", aEntry, ok)
	}
	if !tr.HasActiveSession() {
		t.Fatalf("expected session b still active")
	}
}
