package bios

import (
	"fmt"
	"os"
	"os/exec"
	"time"

	"kazeta/internal/ipc"
)

// overlaySocketPollInterval and overlaySocketWait implement §4.4's "wait up
// to 2s (retry at 500ms intervals) for the socket to appear".
const (
	overlaySocketPollInterval = 500 * time.Millisecond
	overlaySocketWait         = 2 * time.Second
)

// EnsureOverlayRunning probes the overlay socket, reaps a stale socket file
// left by a crashed daemon, and — if no live daemon answers — spawns
// overlayBinary detached with stdout/stderr redirected to logPath.
//
// The overlay is never a hard dependency: if it never comes up, the launch
// proceeds anyway (§4.4 "continue the launch... never blocks launch"), so
// a failed spawn or a socket that never appears returns nil. The one error
// returned is a failure to open logPath, which the caller logs before
// continuing the launch.
func EnsureOverlayRunning(socketPath, overlayBinary, logPath string) error {
	client := ipc.NewClient(socketPath)
	if client.IsAvailable() {
		return nil
	}
	// IsAvailable already removes a stale socket file as a side effect of a
	// failed probe connect, matching client.rs's is_available cleanup.

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open overlay log: %w", err)
	}
	defer logFile.Close()

	cmd := exec.Command(overlayBinary)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.Stdin = nil
	detach(cmd)

	if err := cmd.Start(); err != nil {
		return nil
	}
	// Detached: the BIOS process does not wait on the overlay child and
	// must not leave a zombie once it exits on its own.
	go cmd.Wait()

	deadline := time.Now().Add(overlaySocketWait)
	for time.Now().Before(deadline) {
		if client.IsAvailable() {
			return nil
		}
		time.Sleep(overlaySocketPollInterval)
	}
	return nil
}
