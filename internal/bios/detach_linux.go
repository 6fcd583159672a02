//go:build linux

package bios

import (
	"os/exec"
	"syscall"
)

// detach starts cmd in its own session so it outlives the BIOS process and
// is not killed by a terminal hangup, matching a spawned overlay daemon's
// detached-process requirement (§4.4).
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
