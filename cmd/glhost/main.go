// Command glhost is a small GL application for trying the overlay. It draws
// a depth-tested, culled triangle and checks after every frame that the
// overlay left its GL state alone.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type options struct {
	Width, Height int
	Frames        int
	VSync         bool
	Overlay       bool
	LogLevel      string
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "glhost",
		Short: "Open a GL window and draw the overlay on top of it",
		Long: `glhost opens a GLFW window with a desktop GL 3.3 core context and
draws a triangle with depth testing and face culling enabled. With --overlay
the overlay runs in-process on every swap; the host's GL state is compared
before and after each frame and any difference is an error.

Example:
  glhost --frames 600
  OVERLAY_HUD=false glhost --overlay=false`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Width < 1 || opts.Height < 1 {
				return fmt.Errorf("invalid window size %dx%d", opts.Width, opts.Height)
			}
			if opts.Frames < 0 {
				return fmt.Errorf("invalid frame count %d", opts.Frames)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}

	cmd.Flags().IntVar(&opts.Width, "width", 1280, "window width")
	cmd.Flags().IntVar(&opts.Height, "height", 720, "window height")
	cmd.Flags().IntVar(&opts.Frames, "frames", 0, "exit after this many frames (0 runs until closed)")
	cmd.Flags().BoolVar(&opts.VSync, "vsync", true, "wait for vertical sync")
	cmd.Flags().BoolVar(&opts.Overlay, "overlay", true, "draw the overlay in-process")
	cmd.Flags().StringVar(&opts.LogLevel, "log-level", "", "log level (off|debug|info|warn|error), overrides the config file")

	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "glhost:", err)
		os.Exit(1)
	}
}
