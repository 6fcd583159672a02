package overlay

import (
	"time"

	"kazeta/internal/activitylog"
	"kazeta/internal/ipc"
)

// frameInterval and idleInterval implement §4.3 step 7's adaptive sleep:
// 60fps while something is visible, 20fps (CPU saver) when nothing needs
// drawing.
const (
	frameInterval = time.Second / 60
	idleInterval  = time.Second / 20
)

// InputSource polls the overlay's own menu-navigation controller/keyboard
// subsystem (§4.5), independent of the input daemon's global hotkey
// sniffer. It returns the edge-triggered inputs observed this tick, in
// arbitrary order, plus whether the Guide button was pressed (recognised
// in-overlay as a close gesture per §4.5).
type InputSource interface {
	Poll() (inputs []ControllerInput, guidePressed bool)
}

// Renderer draws the current frame. Run calls Present only on ticks where
// State.ShouldRender or the performance HUD's Visible flag reports
// something to draw (§4.3: "if neither overlay nor HUD nor toast needs
// drawing, sleep... instead of present").
type Renderer interface {
	Present(s *State)
}

// Loop is the single-threaded cooperative render loop (§4.3, §5): one
// goroutine owns all State mutation. IPC messages and polled inputs are
// the only things that change State; the loop itself is otherwise pure
// scheduling.
type Loop struct {
	State    *State
	Server   *ipc.Server
	Input    InputSource
	Renderer Renderer
	Log      *activitylog.Logger

	// Stop, when closed, ends Run after the current tick.
	Stop chan struct{}
}

// NewLoop wires a ready-to-run loop around an already-bound IPC server.
func NewLoop(state *State, server *ipc.Server, input InputSource, renderer Renderer, log *activitylog.Logger) *Loop {
	return &Loop{State: state, Server: server, Input: input, Renderer: renderer, Log: log, Stop: make(chan struct{})}
}

// Run executes the loop until Stop is closed. Each iteration follows
// §4.3's eight steps in order; it never blocks on anything longer than the
// adaptive sleep, matching §5's "suspension points are exactly the frame
// boundary and the adaptive sleep; no long-running operations run on the
// loop."
func (l *Loop) Run() {
	for {
		select {
		case <-l.Stop:
			return
		default:
		}

		now := time.Now()

		// (1) poll hotkey-toggle / (3) poll directional-selection inputs,
		// via the overlay's own gamepad subsystem (§4.5).
		if l.Input != nil {
			inputs, guide := l.Input.Poll()
			if guide && l.State.Visible {
				l.State.Visible = false
			}
			for _, in := range inputs {
				// (2) poll performance-HUD hotkey: handled here, ahead of
				// HandleInput's visibility gate, since the HUD renders
				// regardless of overlay state (§4.3 "HUD is independent").
				if in == InputPerformanceToggle {
					l.State.Performance.ToggleVisibility()
					continue
				}
				l.State.HandleInput(in)
			}
		}

		// (4) drain all pending IPC messages.
		if l.Server != nil {
			l.Server.Poll(func(m ipc.Message) {
				l.State.HandleMessage(now, m)
			}, func(err error) {
				if l.Log != nil {
					l.Log.Debug("ipc_parse_error", map[string]any{"error": err.Error()})
				}
			})
		}

		// (5) advance animations and expire toasts.
		l.State.Update(now)

		// (6) record frame duration.
		l.State.Performance.RecordFrame(now)

		// (7)/(8): draw only if something is visible, else adaptive sleep.
		if l.State.ShouldRender() || l.State.Performance.Visible {
			if l.Renderer != nil {
				l.Renderer.Present(l.State)
			}
			sleepUntilNext(now, frameInterval)
		} else {
			sleepUntilNext(now, idleInterval)
		}
	}
}

func sleepUntilNext(tickStart time.Time, interval time.Duration) {
	elapsed := time.Since(tickStart)
	if remaining := interval - elapsed; remaining > 0 {
		time.Sleep(remaining)
	}
}
