//go:build !linux

package hotkeys

import (
	"context"
	"fmt"

	"kazeta/internal/activitylog"
	"kazeta/internal/ipc"
)

// Run is unimplemented outside Linux: the evdev-based device monitor and
// inotify-based hotplug watch are Linux-specific (§4.2 targets the
// console's Linux input stack).
func Run(ctx context.Context, state *GlobalState, client *ipc.Client, log *activitylog.Logger) error {
	return fmt.Errorf("input daemon requires Linux (evdev)")
}
