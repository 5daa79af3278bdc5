// Package commands wires the tick, weekly-report, reset, install,
// uninstall, and version verbs onto cobra subcommands, following the
// root-command-plus-subcommands layout of the pack's cobra entries. Flag
// parsing is kept minimal; unknown flags are left to cobra's default
// lenient behavior.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/posaune0423/aw-analyzer/pkg/version"
)

var (
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:     "aw-analyzer",
	Short:   "Personal activity analytics agent",
	Version: version.Get().String(),
}

// Execute runs the root command, exiting 1 on any returned error, the
// way the pack's cobra entrypoints do.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log errors")

	rootCmd.AddCommand(tickCmd)
	rootCmd.AddCommand(weeklyReportCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(versionCmd)
}
