//go:build linux

package hotkeys

import (
	"context"
	"sync"
	"testing"
	"time"

	"kazeta/internal/activitylog"
	"kazeta/internal/ipc"
)

func TestSpawnMonitorIsIdempotentUnderRace(t *testing.T) {
	state := NewGlobalState()
	client := ipc.NewClient("/tmp/kazeta-overlay-daemon-test-nonexistent.sock")
	log := activitylog.Nop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			spawnMonitor(ctx, "/dev/input/event-test-race", state, client, log)
		}()
	}
	wg.Wait()

	if !state.IsMonitored("/dev/input/event-test-race") {
		t.Fatalf("expected device marked monitored")
	}
	// Give the one spawned MonitorDevice goroutine time to fail its open
	// (the path does not exist) and deregister.
	time.Sleep(50 * time.Millisecond)
	if state.IsMonitored("/dev/input/event-test-race") {
		t.Fatalf("expected monitor to deregister after failed open")
	}
}
