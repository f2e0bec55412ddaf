package main

import (
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/chartprobe/internal/probe"
)

// NewWatchCmd creates the watch command.
func NewWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream layout-marker console messages until interrupted",
		Long: `Navigate to the chart page, toggle the first configured indicator, and
stream console messages matching the layout marker as they arrive. The
command keeps the browser open and runs until interrupted with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProbe(cmd, probe.ModeWatch)
		},
	}
}
