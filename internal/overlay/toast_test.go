package overlay

import (
	"testing"
	"time"

	"kazeta/internal/ipc"
)

func TestToastEvictedAtDuration(t *testing.T) {
	m := NewToastManager()
	start := time.Now()
	m.AddAt(start, "hi", "", ipc.StyleInfo, 1000)

	m.Update(start.Add(950 * time.Millisecond))
	if m.IsEmpty() {
		t.Fatalf("toast evicted too early")
	}

	m.Update(start.Add(1100 * time.Millisecond))
	if !m.IsEmpty() {
		t.Fatalf("toast not evicted by duration + 100ms")
	}
}

func TestVisibleToastsCapsAtThree(t *testing.T) {
	m := NewToastManager()
	now := time.Now()
	for i := 0; i < 5; i++ {
		m.AddAt(now, "toast", "", ipc.StyleInfo, 10000)
	}
	if got := len(m.VisibleToasts()); got != maxVisibleToasts {
		t.Fatalf("got %d visible, want %d", got, maxVisibleToasts)
	}
}

func TestToastFIFOOrder(t *testing.T) {
	m := NewToastManager()
	now := time.Now()
	m.AddAt(now, "first", "", ipc.StyleInfo, 10000)
	m.AddAt(now, "second", "", ipc.StyleInfo, 10000)
	visible := m.VisibleToasts()
	if visible[0].Message != "first" || visible[1].Message != "second" {
		t.Fatalf("FIFO order violated: %+v", visible)
	}
}

func TestToastAlphaFadesInLast500ms(t *testing.T) {
	m := NewToastManager()
	start := time.Now()
	m.AddAt(start, "hi", "", ipc.StyleInfo, 1000)
	t0 := m.queue[0]

	if a := t0.Alpha(start.Add(400 * time.Millisecond)); a != 1 {
		t.Fatalf("alpha before fade window = %v, want 1", a)
	}
	if a := t0.Alpha(start.Add(750 * time.Millisecond)); a <= 0 || a >= 1 {
		t.Fatalf("alpha mid-fade = %v, want in (0,1)", a)
	}
	if a := t0.Alpha(start.Add(1000 * time.Millisecond)); a != 0 {
		t.Fatalf("alpha at expiry = %v, want 0", a)
	}
}
