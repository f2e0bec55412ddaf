package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for chartprobe.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chartprobe",
		Short: "Browser-driven verification of charting UI indicators",
		Long: `chartprobe drives a Chromium browser against a locally running charting
web application and verifies that indicator subcharts (RSI, MACD, Stoch RSI)
appear after clicking through the Indicators menu.

A browser is launched automatically unless a CDP endpoint is already
listening on the configured debug port. Screenshots, console logs, and a
Markdown run report are written to the output directory.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all probe commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Mirror logs to stderr")
	cmd.PersistentFlags().Bool("headless", false, "Run the browser headless")
	cmd.PersistentFlags().StringP("url", "u", "", "Target page URL (overrides CHARTPROBE_APP_URL + CHARTPROBE_TOKEN_PATH)")
	cmd.PersistentFlags().StringP("out", "o", "", "Artifact output directory")
	cmd.PersistentFlags().StringP("scenario", "s", "", "Scenario YAML file")
	cmd.PersistentFlags().Bool("hold", false, "Wait for Enter before closing the browser")

	cmd.AddCommand(NewVerifyCmd())
	cmd.AddCommand(NewDebugCmd())
	cmd.AddCommand(NewConsoleCmd())
	cmd.AddCommand(NewWatchCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
