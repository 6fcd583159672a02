//go:build !linux

package bios

import "os/exec"

// detach is a no-op outside Linux; the coordination core's process-group
// detachment is a Linux-specific concern (§4.4 targets Linux consoles).
func detach(cmd *exec.Cmd) {}
