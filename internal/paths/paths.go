// Package paths resolves the filesystem locations the coordination core
// agrees on with its external collaborators: the overlay socket, the
// quit-signal and launch-command files, and the per-user persisted state
// directory.
package paths

import (
	"os"
	"path/filepath"
)

const (
	// DefaultSocketPath is the overlay's well-known Unix-domain socket path.
	DefaultSocketPath = "/tmp/kazeta-overlay.sock"

	// QuitSignalPath is the one-shot rendezvous file a game-runtime wrapper
	// observes and deletes.
	QuitSignalPath = "/tmp/kazeta-quit-game"

	// OverlayLogPath is truncated by whichever process launches the overlay.
	OverlayLogPath = "/tmp/kazeta-overlay.log"

	// ProdLaunchCommandPath is the production launch-command file.
	ProdLaunchCommandPath = "/var/kazeta/state/.LAUNCH_CMD"

	// ProdRestartSentinelPath signals the outer session supervisor.
	ProdRestartSentinelPath = "/var/kazeta/state/.RESTART_SESSION_SENTINEL"

	// envProjectRoot extends search paths for development mode.
	envProjectRoot = "KAZETA_PROJECT_ROOT"
)

// SocketPath returns the overlay socket path, honoring an override.
func SocketPath(override string) string {
	if override != "" {
		return override
	}
	return DefaultSocketPath
}

// DevMode reports whether KAZETA_PROJECT_ROOT is set, selecting development
// mode for the launch-command and restart-sentinel file locations.
func DevMode() (root string, ok bool) {
	root = os.Getenv(envProjectRoot)
	return root, root != ""
}

// LaunchCommandPath returns the launch-command file path for the current mode.
func LaunchCommandPath() string {
	if root, ok := DevMode(); ok {
		return filepath.Join(root, "state", ".LAUNCH_CMD")
	}
	return ProdLaunchCommandPath
}

// RestartSentinelPath returns the restart-sentinel file path for the current mode.
func RestartSentinelPath() string {
	if root, ok := DevMode(); ok {
		return filepath.Join(root, "state", ".RESTART_SESSION_SENTINEL")
	}
	return ProdRestartSentinelPath
}

// UserDataDir returns the root of the per-user persisted state tree,
// "<local_data>/kazeta-plus". It honors XDG_DATA_HOME, falling back to
// ~/.local/share the way the rest of the ecosystem resolves it.
func UserDataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "kazeta-plus"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "kazeta-plus"), nil
}

// OverlayStateDir returns "<local_data>/kazeta-plus/overlay", creating it
// if necessary.
func OverlayStateDir() (string, error) {
	base, err := UserDataDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, "overlay")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// PlaytimeDBPath returns the playtime database file path.
func PlaytimeDBPath() (string, error) {
	dir, err := OverlayStateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "playtime.json"), nil
}

// ConfigPath returns the path of one of the three overlay config files:
// "hotkeys", "menu", or "theme".
func ConfigPath(name string) (string, error) {
	dir, err := OverlayStateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name+".json"), nil
}

// ActivityLogPath returns the JSONL activity log path for a named daemon
// component ("bios", "overlay", "input-daemon").
func ActivityLogPath(component string) (string, error) {
	dir, err := OverlayStateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, component+".jsonl"), nil
}
