package bios

import "testing"

func TestDiscoverStorageAlwaysIncludesInternalFirst(t *testing.T) {
	media := DiscoverStorage()
	if len(media) == 0 {
		t.Fatalf("expected at least the internal medium")
	}
	if !media[0].Internal || media[0].Label != internalStorageLabel {
		t.Fatalf("expected internal medium first, got %+v", media[0])
	}
}
