//go:build linux

package main

import "kazeta/internal/overlay"

func newPlatformGamepadSource() overlay.InputSource {
	return overlay.NewLinuxGamepadSource()
}
