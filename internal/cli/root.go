// Package cli implements the Aura command-line interface using Cobra.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "aura",
	Short: "Aura — wellness scoring and gamification engine",
	Long: `Aura is the scoring and gamification engine behind the AuraX app.
It tracks activity events, computes daily wellness scores, maintains
streaks and points, and fans cheers out to friends.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
