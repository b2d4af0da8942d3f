// showcase - interactive 3D device mockups
//
// Renders a device model with a screenshot on its screen, tilting towards the
// pointer on a spring.
//
// Controls (view):
//
//	Mouse move  - Tilt the device
//	Scroll      - Yaw overlay (off with --scroll-tilt=false)
//	T           - Toggle pointer tilt
//	S           - Toggle scroll tilt
//	+/-         - Field of view, keeping the device's on-screen size
//	Esc         - Quit
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var logLevel string

func main() {
	if err := fang.Execute(context.Background(), newRootCmd()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "showcase",
		Short: "Interactive 3D device mockups",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(logLevel)); err != nil {
				return fmt.Errorf("--log-level: %w", err)
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return nil
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	root.AddCommand(newViewCmd(), newPosterCmd(), newDeviceCmd())
	return root
}
