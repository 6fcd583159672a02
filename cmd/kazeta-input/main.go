// Command kazeta-input is the global hotkey daemon: it watches every
// /dev/input/event* node for the overlay-toggle gesture (BTN_MODE, F12,
// Ctrl+O) regardless of which process currently owns input focus.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"kazeta/internal/activitylog"
	"kazeta/internal/hotkeys"
	"kazeta/internal/ipc"
	"kazeta/internal/paths"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var socketPath string
	var logEnabled bool

	root := &cobra.Command{
		Use:           "kazeta-input",
		Short:         "Global hotkey daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInputDaemon(paths.SocketPath(socketPath), logEnabled)
		},
	}
	root.Flags().StringVar(&socketPath, "socket", "", "override the overlay socket path")
	root.Flags().BoolVar(&logEnabled, "log", true, "write the JSONL activity log")
	return root
}

func runInputDaemon(socketPath string, logEnabled bool) error {
	logPath, err := paths.ActivityLogPath("input-daemon")
	if err != nil {
		return fmt.Errorf("resolve input daemon log path: %w", err)
	}
	log := activitylog.New(logEnabled, logPath, "input-daemon")
	defer log.Close()

	client := ipc.NewClient(socketPath)
	state := hotkeys.NewGlobalState()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("input_daemon_started", map[string]any{"socket": socketPath})
	if err := hotkeys.Run(ctx, state, client, log); err != nil {
		log.Error("input_daemon_fatal", err)
		return err
	}
	return nil
}
