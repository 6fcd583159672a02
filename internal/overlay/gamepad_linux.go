//go:build linux

package overlay

import (
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

// Raw evdev constants, grounded on ebiten's gamepad_linux.go (the only
// raw-syscall evdev reference in the example corpus) and shared in spirit
// with internal/hotkeys/evdev_linux.go, but intentionally not shared code:
// this is the overlay's own independent gamepad subsystem (§4.5), never
// the input daemon's.
const (
	evKey = 0x01
	evAbs = 0x03

	btnSouth = 0x130
	btnEast  = 0x131
	btnNorth = 0x133
	btnWest  = 0x134
	btnMode  = 0x13c

	absX = 0x00
	absY = 0x01

	absMax = 32767
	absMin = -32768
)

type rawEvent struct {
	Type  uint16
	Code  uint16
	Value int32
}

const rawEventSize = 24

// LinuxGamepadSource implements InputSource by polling every currently
// open /dev/input/event* gamepad node non-blockingly each tick, edge
// triggering directional stick movement and button presses (§4.5).
type LinuxGamepadSource struct {
	mu      sync.Mutex
	devices []*gamepadDevice
}

type gamepadDevice struct {
	f       *os.File
	axisX   float64
	axisY   float64
	stick   AxisState
	buttons map[uint16]*ButtonEdge
}

// NewLinuxGamepadSource opens every readable /dev/input/event* node at
// construction time. The overlay's own subsystem has no hotplug watcher
// (that is the input daemon's job, per §4.5 — this subsystem only feeds
// menu navigation), and the overlay calls Rescan only here, so a pad
// plugged in after startup is not polled.
func NewLinuxGamepadSource() *LinuxGamepadSource {
	s := &LinuxGamepadSource{}
	s.Rescan()
	return s
}

// Rescan re-opens /dev/input/event* nodes not already tracked.
func (s *LinuxGamepadSource) Rescan() {
	entries, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	known := map[string]bool{}
	for _, d := range s.devices {
		known[d.f.Name()] = true
	}
	for _, path := range entries {
		if known[path] {
			continue
		}
		fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
		if err != nil {
			continue
		}
		s.devices = append(s.devices, &gamepadDevice{f: os.NewFile(uintptr(fd), path), buttons: map[uint16]*ButtonEdge{}})
	}
}

// Poll reads all pending events from every tracked device without
// blocking, returning the edge-triggered ControllerInputs this tick.
func (s *LinuxGamepadSource) Poll() ([]ControllerInput, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []ControllerInput
	guide := false
	buf := make([]byte, rawEventSize)
	for _, dev := range s.devices {
		for {
			n, err := dev.f.Read(buf)
			if err != nil || n < rawEventSize {
				break
			}
			in, g := dev.apply(decodeRawEvent(buf))
			if g {
				guide = true
			}
			if in != InputNone {
				out = append(out, in)
			}
		}
	}
	return out, guide
}

func decodeRawEvent(buf []byte) rawEvent {
	return rawEvent{
		Type:  uint16(buf[16]) | uint16(buf[17])<<8,
		Code:  uint16(buf[18]) | uint16(buf[19])<<8,
		Value: int32(buf[20]) | int32(buf[21])<<8 | int32(buf[22])<<16 | int32(buf[23])<<24,
	}
}

func (d *gamepadDevice) apply(ev rawEvent) (ControllerInput, bool) {
	switch ev.Type {
	case evAbs:
		switch ev.Code {
		case absX:
			d.axisX = normalizeAxis(ev.Value)
		case absY:
			d.axisY = normalizeAxis(ev.Value)
		default:
			return InputNone, false
		}
		return d.stick.Edge(d.axisX, d.axisY), false
	case evKey:
		pressed := ev.Value != 0
		switch ev.Code {
		case btnSouth:
			if d.edge(btnSouth).Press(pressed) {
				return InputSelect, false
			}
		case btnEast:
			if d.edge(btnEast).Press(pressed) {
				return InputBack, false
			}
		case btnWest:
			if d.edge(btnWest).Press(pressed) {
				return InputSecondary, false
			}
		case btnNorth:
			if d.edge(btnNorth).Press(pressed) {
				return InputPerformanceToggle, false
			}
		case btnMode:
			return InputNone, d.edge(btnMode).Press(pressed) && pressed
		}
	}
	return InputNone, false
}

func (d *gamepadDevice) edge(code uint16) *ButtonEdge {
	e, ok := d.buttons[code]
	if !ok {
		e = &ButtonEdge{}
		d.buttons[code] = e
	}
	return e
}

func normalizeAxis(raw int32) float64 {
	if raw >= 0 {
		return float64(raw) / absMax
	}
	return float64(raw) / -absMin
}
