//go:build linux

package hotkeys

import (
	"context"
	"path/filepath"

	"kazeta/internal/activitylog"
	"kazeta/internal/ipc"
)

const inputDeviceDir = "/dev/input"

// Run starts the full input daemon: an initial scan of every existing
// /dev/input/event* node, followed by a blocking hotplug watch that spawns
// a monitor goroutine for each newly appeared node. It returns when ctx is
// cancelled, once every spawned monitor goroutine has had a chance to see
// the cancellation (monitor goroutines deregister themselves from state on
// exit; Run does not wait for them explicitly since they hold no resources
// Run must close itself).
func Run(ctx context.Context, state *GlobalState, client *ipc.Client, log *activitylog.Logger) error {
	for _, path := range scanExistingDevices() {
		spawnMonitor(ctx, path, state, client, log)
	}

	return WatchHotplug(ctx, inputDeviceDir, log, func(path string) {
		spawnMonitor(ctx, path, state, client, log)
	})
}

// spawnMonitor starts MonitorDevice for path unless it is already being
// watched, matching Invariant 9 (hotplug idempotence): the initial scan
// and a hotplug CREATE event can both observe the same path in a race, and
// only one monitor goroutine may ever own it.
func spawnMonitor(ctx context.Context, path string, state *GlobalState, client *ipc.Client, log *activitylog.Logger) {
	if !state.MarkMonitored(path) {
		return
	}
	go MonitorDevice(ctx, path, state, client, log)
}

// scanExistingDevices lists /dev/input/event* at startup, matching the
// original's device_scanner initial pass before it starts watching for
// hotplug events.
func scanExistingDevices() []string {
	matches, err := filepath.Glob(filepath.Join(inputDeviceDir, "event*"))
	if err != nil {
		return nil
	}
	return matches
}
