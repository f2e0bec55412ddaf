package main

import (
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/chartprobe/internal/probe"
)

// NewDebugCmd creates the debug command.
func NewDebugCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "debug",
		Short: "Toggle one indicator and dump DOM measurements",
		Long: `Navigate to the chart page, toggle the first configured indicator, and
report element counts, page-text matches, and layout measurements for the
chart container and each subchart. A zoomed screenshot of the chart bottom
is captured for inspection.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProbe(cmd, probe.ModeDebug)
		},
	}
}
