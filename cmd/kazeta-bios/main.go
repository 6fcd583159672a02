// Command kazeta-bios is the front-end launcher's coordination surface:
// storage discovery, overlay-daemon lifecycle, and launch sequencing. The
// launcher UI itself (cartridge browsing, rendering) is an external
// collaborator named only at its interface (spec.md §1).
package main

import (
	"fmt"
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"kazeta/internal/activitylog"
	"kazeta/internal/bios"
	"kazeta/internal/paths"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var overlayBinary string
	var logEnabled bool

	root := &cobra.Command{
		Use:           "kazeta-bios",
		Short:         "Retro-console BIOS coordination surface",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&overlayBinary, "overlay-binary", "kazeta-overlay", "path to the overlay daemon binary")
	root.PersistentFlags().BoolVar(&logEnabled, "log", true, "write the JSONL activity log")

	root.AddCommand(newStorageCmd())
	root.AddCommand(newLaunchCmd(&overlayBinary, &logEnabled))
	root.AddCommand(newRestartCmd())
	return root
}

func newStorageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "storage",
		Short: "List discovered cartridge storage media",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := termenv.NewOutput(os.Stdout)
			for _, m := range bios.DiscoverStorage() {
				label := out.String(m.Label)
				if m.Internal {
					label = label.Bold()
				}
				fmt.Printf("%s\t%s\n", label, m.Path)
			}
			return nil
		},
	}
}

func newLaunchCmd(overlayBinary *string, logEnabled *bool) *cobra.Command {
	var cartID, cartName, runtime string

	cmd := &cobra.Command{
		Use:   "launch -- <command> [args...]",
		Short: "Launch a cartridge: start the overlay, write the launch command, trigger a session restart",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logPath, err := paths.ActivityLogPath("bios")
			if err != nil {
				return err
			}
			log := activitylog.New(*logEnabled, logPath, "bios")
			defer log.Close()

			launcher := bios.NewLauncher(*overlayBinary, log)
			cart := bios.CartInfo{ID: cartID, Name: cartName, Runtime: runtime}
			if cart.ID == "" {
				cart.ID = args[0]
			}
			return launcher.LaunchGame(cart, args)
		},
	}
	cmd.Flags().StringVar(&cartID, "cart-id", "", "cartridge ID (defaults to the launch command's first argument)")
	cmd.Flags().StringVar(&cartName, "cart-name", "", "display name announced to the overlay")
	cmd.Flags().StringVar(&runtime, "runtime", "unknown", "emulator/runtime identifier announced to the overlay")
	return cmd
}

func newRestartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restart",
		Short: "Write the restart-sentinel file, signalling the outer session supervisor",
		RunE: func(cmd *cobra.Command, args []string) error {
			return bios.TriggerSessionRestart()
		},
	}
}
