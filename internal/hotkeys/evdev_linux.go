//go:build linux

package hotkeys

import (
	"context"
	"fmt"
	"os"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"kazeta/internal/activitylog"
	"kazeta/internal/ipc"
)

// Linux evdev/input-event constants not exposed by golang.org/x/sys/unix,
// grounded on ebiten's internal gamepad_linux.go ioctl macros.
const (
	evKey = 0x01

	keyA    = 30
	keyO    = 24
	keyF12  = 88
	keyCtrl = 29 // KEY_LEFTCTRL; KEY_RIGHTCTRL = 97
	keyCtrlRight = 97

	btnSouth = 0x130
	btnMode  = 0x13c

	evIOCGBit0  = 0x80084520 // EVIOCGBIT(0, len) base; len patched per call
	evIOCGName  = 0x81004506
	bitsPerLong = 64
)

// inputEvent mirrors struct input_event from linux/input.h: two timeval
// fields (8 bytes each on 64-bit), then type/code/value.
type inputEvent struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

const inputEventSize = 24

// ioctl issues a raw SYS_IOCTL, matching ebiten's ioctl() helper.
func ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// openDevice opens an input device node read-only, non-blocking, matching
// "devices are opened read-only and NOT grabbed."
func openDevice(path string) (*os.File, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, err
	}
	return os.NewFile(uintptr(fd), path), nil
}

// probeDevice inspects a device's EV_KEY capability bitmask to decide
// whether it's a gamepad (BTN_MODE/BTN_SOUTH) or keyboard (F12/A),
// matching is_relevant_device's capability check in the original.
func probeDevice(f *os.File) (Device, error) {
	const keyBitsLen = (0x2ff + bitsPerLong) / bitsPerLong * (bitsPerLong / 8)
	bits := make([]byte, keyBitsLen)
	req := evIOCGBitReq(evKey, keyBitsLen)
	if err := ioctl(int(f.Fd()), req, unsafe.Pointer(&bits[0])); err != nil {
		return Device{}, fmt.Errorf("EVIOCGBIT: %w", err)
	}
	d := Device{Path: f.Name()}
	d.IsGamepad = testBit(bits, btnMode) || testBit(bits, btnSouth)
	d.IsKeyboard = testBit(bits, keyF12) || testBit(bits, keyA)
	return d, nil
}

// evIOCGBitReq computes EVIOCGBIT(ev, len) per linux/input.h's _IOC(_IOC_READ, 'E', 0x20+ev, len).
func evIOCGBitReq(ev, length int) uintptr {
	const (
		iocRead = 2
	)
	return uintptr(iocRead)<<30 | uintptr(length&0x3fff)<<16 | uintptr('E')<<8 | uintptr(0x20+ev)
}

func testBit(bits []byte, bit int) bool {
	idx := bit / 8
	if idx >= len(bits) {
		return false
	}
	return bits[idx]&(1<<(uint(bit)%8)) != 0
}

// MonitorDevice runs the per-device read loop until ctx is cancelled or the
// device yields a read error other than "would block" (unplug), mirroring
// monitor_device in input-daemon/src/main.rs. It deregisters itself from
// state on exit.
func MonitorDevice(ctx context.Context, path string, state *GlobalState, client *ipc.Client, log *activitylog.Logger) {
	defer state.Unmonitor(path)

	f, err := openDevice(path)
	if err != nil {
		log.Debug("device_open_failed", map[string]any{"path": path, "error": err.Error()})
		return
	}
	defer f.Close()

	dev, err := probeDevice(f)
	if err != nil || !dev.IsRelevant() {
		return
	}

	mod := ModifierState{}
	buf := make([]byte, inputEventSize)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		n, err := f.Read(buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
				time.Sleep(2 * time.Millisecond)
				continue
			}
			log.Debug("device_disconnected", map[string]any{"path": path})
			return
		}
		if n < inputEventSize {
			continue
		}
		ev := decodeEvent(buf)
		if ev.Type != evKey {
			continue
		}
		handleKeyEvent(ev, &mod, state, client, log)
	}
}

func decodeEvent(buf []byte) inputEvent {
	return inputEvent{
		Type:  uint16(buf[16]) | uint16(buf[17])<<8,
		Code:  uint16(buf[18]) | uint16(buf[19])<<8,
		Value: int32(buf[20]) | int32(buf[21])<<8 | int32(buf[22])<<16 | int32(buf[23])<<24,
	}
}

// handleKeyEvent applies the original's press-edge recognition: BTN_MODE
// press, F12 press, and Ctrl+O (ctrl held + O press-edge), each device
// tracking its own modifier state.
func handleKeyEvent(ev inputEvent, mod *ModifierState, state *GlobalState, client *ipc.Client, log *activitylog.Logger) {
	const (
		keyUp   = 0
		keyDown = 1
	)
	switch ev.Code {
	case keyCtrl:
		mod.CtrlLeft = ev.Value != keyUp
		return
	case keyCtrlRight:
		mod.CtrlRight = ev.Value != keyUp
		return
	}

	if ev.Value != keyDown {
		return
	}

	switch {
	case ev.Code == btnMode:
		ToggleOverlay(state, client, log, time.Now())
	case ev.Code == keyF12:
		ToggleOverlay(state, client, log, time.Now())
	case ev.Code == keyO && mod.CtrlDown():
		ToggleOverlay(state, client, log, time.Now())
	}
}

// WatchHotplug blocks on inotify reads of dir (CREATE|ATTRIB), invoking
// onNewDevice for each event*-named entry after the 100 ms udev settle
// delay the original applies, matching device_scanner.
func WatchHotplug(ctx context.Context, dir string, log *activitylog.Logger, onNewDevice func(path string)) error {
	fd, err := unix.InotifyInit1(unix.IN_CLOEXEC | unix.IN_NONBLOCK)
	if err != nil {
		return fmt.Errorf("inotify_init1: %w", err)
	}
	defer unix.Close(fd)

	if _, err := unix.InotifyAddWatch(fd, dir, unix.IN_CREATE|unix.IN_ATTRIB); err != nil {
		return fmt.Errorf("inotify_add_watch %s: %w", dir, err)
	}

	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		n, err := unix.Read(fd, buf)
		if err != nil {
			if err == unix.EAGAIN {
				time.Sleep(50 * time.Millisecond)
				continue
			}
			return fmt.Errorf("inotify read: %w", err)
		}
		for _, name := range parseInotifyNames(buf[:n]) {
			if !isEventNode(name) {
				continue
			}
			time.Sleep(100 * time.Millisecond)
			onNewDevice(dir + "/" + name)
		}
	}
}

func isEventNode(name string) bool {
	return len(name) > 5 && name[:5] == "event"
}

// parseInotifyNames decodes the raw inotify_event stream, following the
// manual byte-parsing approach ebiten's gamepad_linux.go uses for the same
// struct.
func parseInotifyNames(buf []byte) []string {
	var names []string
	const headerSize = 16 // wd(4) mask(4) cookie(4) len(4)
	off := 0
	for off+headerSize <= len(buf) {
		nameLen := int(uint32(buf[off+12]) | uint32(buf[off+13])<<8 | uint32(buf[off+14])<<16 | uint32(buf[off+15])<<24)
		start := off + headerSize
		end := start + nameLen
		if end > len(buf) {
			break
		}
		raw := buf[start:end]
		n := 0
		for n < len(raw) && raw[n] != 0 {
			n++
		}
		if n > 0 {
			names = append(names, string(raw[:n]))
		}
		off = end
	}
	return names
}
