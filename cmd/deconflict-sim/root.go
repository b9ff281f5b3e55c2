package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "deconflict-sim",
	Short: "Drone path deconfliction toolkit",
	Long:  "deconflict-sim analyzes straight-line drone paths for conflicts, proposes mitigations, and flies scenarios with a live collision monitor.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(flyCmd)
	rootCmd.AddCommand(replayCmd)
}
