package overlay

import (
	"fmt"
	"os"
	"runtime"

	"github.com/gofrs/flock"
)

// emulatorProcessNames is the hard-coded backup SIGTERM list (§6),
// recovered verbatim from state.rs's signal_game_quit.
var emulatorProcessNames = []string{"mgba-qt", "vbam", "visualboyadvance-m", "retroarch", "dolphin-emu"}

// FileQuitSignaler writes the one-shot quit-signal file and, on Linux,
// best-effort broadcasts SIGTERM to the hard-coded emulator process list,
// grounded on state.rs's signal_game_quit.
type FileQuitSignaler struct {
	Path string

	// Signal, when non-nil, is invoked once per name in
	// emulatorProcessNames (overridable in tests; defaults to pkill on
	// Linux at construction via NewFileQuitSignaler).
	Signal func(processName string) error
}

// NewFileQuitSignaler returns a signaler wired to pkill on Linux and a
// no-op process broadcast elsewhere (§6: SIGTERM backup is Linux-only per
// spec.md §4.3).
func NewFileQuitSignaler(path string) *FileQuitSignaler {
	s := &FileQuitSignaler{Path: path}
	if runtime.GOOS == "linux" {
		s.Signal = pkillTerm
	}
	return s
}

// SignalQuit creates the quit-signal file containing "quit\n", guarded by
// an flock so a concurrent writer never interleaves with a reader scanning
// it, then best-effort broadcasts SIGTERM to known emulator names. A
// broadcast failure is swallowed (§6: "backup" mechanism); only the file
// write's error is returned (§7: "Quit-signal write fails... surface
// error toast").
func (f *FileQuitSignaler) SignalQuit() error {
	lock := flock.New(f.Path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock quit signal file: %w", err)
	}
	defer lock.Unlock()

	if err := os.WriteFile(f.Path, []byte("quit\n"), 0o644); err != nil {
		return fmt.Errorf("write quit signal file: %w", err)
	}

	if f.Signal != nil {
		for _, name := range emulatorProcessNames {
			_ = f.Signal(name)
		}
	}
	return nil
}
