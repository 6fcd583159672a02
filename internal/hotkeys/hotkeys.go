// Package hotkeys implements the input daemon's global hotkey sniffer:
// shared debounce state, the per-device monitor loop, and hotplug
// detection. The platform-independent pieces live here; raw evdev/inotify
// syscalls live in evdev_linux.go, grounded on input-daemon/src/main.rs and
// ebiten's internal Linux gamepad backend (the only raw-syscall evdev
// reference in the example corpus — no third-party evdev library appears
// anywhere in it).
package hotkeys

import (
	"sync"
	"time"

	"kazeta/internal/activitylog"
	"kazeta/internal/ipc"
)

// debounceWindow matches §4.2's "suppress further toggles for 300 ms
// regardless of source device."
const debounceWindow = 300 * time.Millisecond

// GlobalState is the single mutex-guarded struct shared by every device
// monitor goroutine, mirroring input-daemon/src/main.rs's GlobalState.
type GlobalState struct {
	mu               sync.Mutex
	lastHotkeyTime   time.Time
	monitoredDevices map[string]bool
}

// NewGlobalState returns an empty, ready-to-use GlobalState.
func NewGlobalState() *GlobalState {
	return &GlobalState{monitoredDevices: make(map[string]bool)}
}

// TryTrigger applies the global debounce: if more than debounceWindow has
// elapsed since the last successful trigger, it updates the clock and
// returns true (emit); otherwise it returns false (drop). This is
// Invariant 2 (global debounce) and the core of try_trigger in the
// original.
func (g *GlobalState) TryTrigger(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.lastHotkeyTime.IsZero() || now.Sub(g.lastHotkeyTime) > debounceWindow {
		g.lastHotkeyTime = now
		return true
	}
	return false
}

// MarkMonitored registers path as monitored, reporting whether it was
// newly inserted. A false return means the caller must not spawn a second
// monitor goroutine for the same path (Invariant 9: hotplug idempotence).
func (g *GlobalState) MarkMonitored(path string) (inserted bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.monitoredDevices[path] {
		return false
	}
	g.monitoredDevices[path] = true
	return true
}

// Unmonitor removes path from the monitored set, called when a device
// monitor goroutine exits on unplug.
func (g *GlobalState) Unmonitor(path string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.monitoredDevices, path)
}

// IsMonitored reports whether path is currently being watched.
func (g *GlobalState) IsMonitored(path string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.monitoredDevices[path]
}

// ModifierState tracks one device's left/right ctrl key state, for the
// Ctrl+O combo. Each device thread owns its own instance — state is never
// shared across devices (§9 "duplicate state... do not try to share").
type ModifierState struct {
	CtrlLeft  bool
	CtrlRight bool
}

// CtrlDown reports whether either ctrl key is currently held.
func (m ModifierState) CtrlDown() bool {
	return m.CtrlLeft || m.CtrlRight
}

// ToggleOverlay performs the trigger→debounce→notify sequence shared by
// every recognized gesture (BTN_MODE, F12, Ctrl+O), mirroring
// toggle_overlay in the original.
func ToggleOverlay(state *GlobalState, client *ipc.Client, log *activitylog.Logger, now time.Time) {
	if !state.TryTrigger(now) {
		return
	}
	if err := client.Send(ipc.ToggleOverlay()); err != nil {
		log.Debug("toggle_send_failed", map[string]any{"error": err.Error()})
		return
	}
	log.Info("toggle_sent", nil)
}

// Device describes one /dev/input/event* node's relevant capabilities, as
// produced by probing its evdev capability bitmasks.
type Device struct {
	Path        string
	IsGamepad   bool // exposes BTN_MODE or BTN_SOUTH
	IsKeyboard  bool // exposes KEY_F12 or KEY_A
}

// IsRelevant reports whether a device is worth monitoring at all, matching
// is_relevant_device in the original: only devices exposing the gamepad or
// keyboard capability set are opened for the long-lived monitor loop.
func (d Device) IsRelevant() bool {
	return d.IsGamepad || d.IsKeyboard
}

// EdgeKind enumerates the press-edge events a platform reader can emit;
// everything else (releases, non-monitored keys) is filtered out before
// reaching this layer.
type EdgeKind int

const (
	EdgeGuideOrSouthPress EdgeKind = iota
	EdgeF12Press
	EdgeCtrlPress
	EdgeCtrlRelease
	EdgeOPress
)

// Edge is one recognized input edge read from a device.
type Edge struct {
	Kind  EdgeKind
	Left  bool // for Ctrl edges: which side changed
}
