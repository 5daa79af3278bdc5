package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/posaune0423/aw-analyzer/internal/state"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear persistent state",
	RunE:  runReset,
}

func runReset(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadCfgAndLogger()
	if err != nil {
		return err
	}

	statePath := cfg.StatePath
	if statePath == "" {
		defaultPath, err := state.DefaultPath()
		if err != nil {
			return err
		}
		statePath = defaultPath
	}

	st, err := state.Open(statePath)
	if err != nil {
		return err
	}

	if err := st.Clear(); err != nil {
		return err
	}

	fmt.Printf("cleared state at %s\n", statePath)
	return nil
}
