package bios

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/shlex"

	"kazeta/internal/activitylog"
	"kazeta/internal/ipc"
	"kazeta/internal/paths"
)

// lockSuffix names the flock sidecar file next to the path being
// locked, matching routes.go's acquireExclusiveLock convention of a
// separate lock file rather than locking the target itself.
const lockSuffix = ".lock"

// CartInfo is the launcher's view of a selected cartridge, grounded on
// save::CartInfo in the original source: the fields trigger_game_launch
// actually reads.
type CartInfo struct {
	ID      string
	Name    string
	Runtime string
}

// Launcher drives §4.4's launch sequencing: start the overlay, announce
// game_started, write the launch-command and restart-sentinel files, and
// hand off to the session-restart wrapper. It holds no state of its own
// beyond the configuration needed to find the overlay and its socket.
type Launcher struct {
	SocketPath    string
	OverlayBinary string
	OverlayLog    string
	Log           *activitylog.Logger
}

// NewLauncher wires a Launcher from the well-known paths.
func NewLauncher(overlayBinary string, log *activitylog.Logger) *Launcher {
	return &Launcher{
		SocketPath:    paths.SocketPath(""),
		OverlayBinary: overlayBinary,
		OverlayLog:    paths.OverlayLogPath,
		Log:           log,
	}
}

// LaunchGame runs the full §4.4 launch sequence for one cartridge: ensure
// the overlay is up (best-effort), notify it the game is starting, write
// the launch command for launchArgs, then trigger the session restart.
// Every sub-step after the overlay probe is logged but non-fatal to the
// overall sequence except the launch-command write, whose failure aborts
// the restart (§7 "Launch-command write fails... do not attempt restart"),
// and the final restart-sentinel write, whose failure is also returned.
func (l *Launcher) LaunchGame(cart CartInfo, launchArgs []string) error {
	if err := EnsureOverlayRunning(l.SocketPath, l.OverlayBinary, l.OverlayLog); err != nil {
		l.logErr("overlay_start_failed", err)
	}

	client := ipc.NewClient(l.SocketPath)
	if err := client.Send(ipc.GameStarted(cart.ID, displayName(cart), cart.Runtime)); err != nil {
		l.logErr("game_started_send_failed", err)
	}

	if err := WriteLaunchCommand(launchArgs); err != nil {
		l.logErr("launch_command_write_failed", err)
		return fmt.Errorf("write launch command: %w", err)
	}

	if err := TriggerSessionRestart(); err != nil {
		l.logErr("restart_sentinel_write_failed", err)
		return fmt.Errorf("trigger session restart: %w", err)
	}
	return nil
}

func displayName(c CartInfo) string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

func (l *Launcher) logErr(event string, err error) {
	if l.Log != nil {
		l.Log.Error(event, err)
	}
}

// WriteLaunchCommand builds the single-line, shlex-quoted command the
// session-restart wrapper execs, and writes it to the mode-appropriate
// launch-command file path (§6 Launch-command file).
func WriteLaunchCommand(argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("launch command requires at least one argument")
	}
	line := joinShellArgs(argv) + "\n"
	return writeLockedFile(paths.LaunchCommandPath(), []byte(line))
}

// joinShellArgs quotes each argument the way shlex.Split expects to be
// able to round-trip it back into argv, grounded on exec.go's use of
// shlex for the inverse direction (parsing a stored command line).
func joinShellArgs(argv []string) string {
	quoted := make([]string, len(argv))
	for i, a := range argv {
		quoted[i] = quoteShellArg(a)
	}
	return strings.Join(quoted, " ")
}

func quoteShellArg(a string) string {
	if a != "" && !strings.ContainsAny(a, " \t\n'\"\\$`") {
		return a
	}
	return "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
}

// ParseLaunchCommand is the read-side counterpart used by tests and by the
// wrapper itself to validate a written command round-trips.
func ParseLaunchCommand(line string) ([]string, error) {
	return shlex.Split(strings.TrimRight(line, "\n"))
}

// TriggerSessionRestart stops whatever ambient presentation the launcher
// owns is the caller's job; this only creates the restart-sentinel file
// the outer session supervisor watches for (§6 Restart-sentinel file).
func TriggerSessionRestart() error {
	path := paths.RestartSentinelPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return writeLockedFile(path, nil)
}

// writeLockedFile writes data to path under an exclusive flock on a
// sidecar lock file, so a concurrent reader/writer of the same path (the
// wrapper script, another launch attempt) never observes a torn write.
func writeLockedFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	fl := flock.New(path + lockSuffix)
	if err := fl.Lock(); err != nil {
		return err
	}
	defer fl.Unlock()

	return os.WriteFile(path, data, 0o644)
}
