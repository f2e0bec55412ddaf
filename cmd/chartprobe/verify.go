package main

import (
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/chartprobe/internal/probe"
)

// NewVerifyCmd creates the verify command.
func NewVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Toggle every indicator and screenshot each state",
		Long: `Navigate to the chart page, open the Indicators menu, toggle each
configured indicator in turn, and capture a screenshot after every step.
Subchart counts are checked after each toggle; a subchart that fails to
appear is reported as a warning rather than aborting the run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProbe(cmd, probe.ModeVerify)
		},
	}
}
