package overlay

// ControllerInput is the overlay's own menu-navigation input, independent
// from the input daemon's global hotkey sniffer (§4.5): it feeds menu
// selection only, and never participates in the toggle-overlay gesture
// except that Guide also closes the overlay from inside (the one
// deliberate overlap spec.md §4.5 calls out).
type ControllerInput int

const (
	InputNone ControllerInput = iota
	InputUp
	InputDown
	InputLeft
	InputRight
	InputSelect
	InputBack
	InputSecondary
	InputGuide
	InputPerformanceToggle
)

// deadzone is the neutral-band radius below which an analog axis reading
// is ignored (§4.5 "0.5 deadzone").
const deadzone = 0.5

// AxisState holds one analog stick's last-seen activation state so the
// overlay's polling loop can edge-trigger on neutral→active transitions
// instead of re-firing every tick the stick is held over, matching §4.5
// "emit directional events only on the neutral→active transition".
type AxisState struct {
	activeX bool
	activeY bool
}

// Edge consumes one (x, y) stick sample and returns the directional input
// it edge-triggers, or InputNone if the stick is neutral or was already
// active last sample. Dominant-axis-wins: whichever of |x|, |y| is larger
// determines the direction when both clear the deadzone simultaneously.
func (a *AxisState) Edge(x, y float64) ControllerInput {
	activeX := abs(x) >= deadzone
	activeY := abs(y) >= deadzone

	var result ControllerInput
	if activeX || activeY {
		dominantX := abs(x) >= abs(y)
		switch {
		case dominantX && activeX && !a.activeX:
			if x > 0 {
				result = InputRight
			} else {
				result = InputLeft
			}
		case !dominantX && activeY && !a.activeY:
			if y > 0 {
				result = InputDown
			} else {
				result = InputUp
			}
		}
	}

	a.activeX, a.activeY = activeX, activeY
	return result
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// ButtonEdge tracks one button's press state for edge-triggering (press
// events only, matching the input daemon's "press edges only" recognition
// applied here to the overlay's own menu-navigation reading of the same
// hardware).
type ButtonEdge struct {
	down bool
}

// Press consumes one sample and reports whether this is a fresh
// neutral→pressed transition.
func (b *ButtonEdge) Press(down bool) bool {
	fired := down && !b.down
	b.down = down
	return fired
}
