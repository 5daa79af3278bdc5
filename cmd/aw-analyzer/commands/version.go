package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/posaune0423/aw-analyzer/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Get().String())
	},
}
