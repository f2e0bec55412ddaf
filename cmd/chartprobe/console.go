package main

import (
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/chartprobe/internal/probe"
)

// NewConsoleCmd creates the console command.
func NewConsoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Capture console output from a navigate-and-toggle pass",
		Long: `Navigate to the chart page, toggle the first configured indicator, and
collect every browser console message emitted along the way. Messages
matching the layout marker are printed, and the full stream is saved to
the console log file in the output directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProbe(cmd, probe.ModeConsole)
		},
	}
}
