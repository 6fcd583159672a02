// Command kazeta-overlay runs the transparent in-game overlay daemon: the
// single-threaded render loop, the IPC server, and (on Linux) the
// overlay's own gamepad polling subsystem.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"kazeta/internal/activitylog"
	"kazeta/internal/ipc"
	"kazeta/internal/overlay"
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
		Use:           "kazeta-overlay",
		Short:         "Transparent in-game overlay daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOverlay(paths.SocketPath(socketPath), logEnabled)
		},
	}
	root.PersistentFlags().StringVar(&socketPath, "socket", "", "override the overlay socket path")
	root.PersistentFlags().BoolVar(&logEnabled, "log", true, "write the JSONL activity log")

	root.AddCommand(newRunCmd(&socketPath, &logEnabled))
	root.AddCommand(newStatusCmd(&socketPath))
	return root
}

func newRunCmd(socketPath *string, logEnabled *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the overlay daemon (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOverlay(paths.SocketPath(*socketPath), *logEnabled)
		},
	}
}

func newStatusCmd(socketPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether the overlay daemon is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := ipc.NewClient(paths.SocketPath(*socketPath))
			out := termenv.NewOutput(os.Stdout)
			if client.IsAvailable() {
				fmt.Println(out.String("overlay: reachable").Foreground(out.Color("2")))
			} else {
				fmt.Println(out.String("overlay: unreachable").Foreground(out.Color("1")))
			}
			return nil
		},
	}
}

func runOverlay(socketPath string, logEnabled bool) error {
	logPath, err := paths.ActivityLogPath("overlay")
	if err != nil {
		return fmt.Errorf("resolve overlay log path: %w", err)
	}
	log := activitylog.New(logEnabled, logPath, "overlay")
	defer log.Close()

	os.Truncate(paths.OverlayLogPath, 0)

	server, err := ipc.Listen(socketPath)
	if err != nil {
		return err
	}
	defer server.Close()

	dbPath, err := paths.PlaytimeDBPath()
	if err != nil {
		return fmt.Errorf("resolve playtime db path: %w", err)
	}
	quitSignaler := overlay.NewFileQuitSignaler(paths.QuitSignalPath)
	state := overlay.NewState(quitSignaler, overlay.NewPlaytimeTracker(dbPath), log)

	themePath, _ := paths.ConfigPath("theme")
	if themePath != "" {
		theme := overlay.LoadThemeConfig(themePath)
		state.FontColor = theme.FontColor
		state.CursorColor = theme.CursorColor
	}
	if menuPath, _ := paths.ConfigPath("menu"); menuPath != "" {
		state.Menu = overlay.LoadMenuConfig(menuPath)
	}
	if hotkeyPath, _ := paths.ConfigPath("hotkeys"); hotkeyPath != "" {
		state.Hotkeys = overlay.LoadHotkeyConfig(hotkeyPath)
	}

	input := newPlatformGamepadSource()

	headless := overlay.NewHeadlessRenderer(os.Stdout, int(os.Stdout.Fd()))
	defer headless.Close()
	var renderer overlay.Renderer = headless

	loop := overlay.NewLoop(state, server, input, renderer, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		close(loop.Stop)
	}()

	log.Info("overlay_started", map[string]any{"socket": socketPath})
	loop.Run()
	state.Playtime.EndSession(time.Now())
	return nil
}
