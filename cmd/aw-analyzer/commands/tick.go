package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/posaune0423/aw-analyzer/internal/config"
	"github.com/posaune0423/aw-analyzer/internal/scheduler"
	"github.com/posaune0423/aw-analyzer/pkg/logger"
)

var tickCmd = &cobra.Command{
	Use:   "tick",
	Short: "Run registered jobs once",
	RunE:  runTick,
}

func runTick(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadCfgAndLogger()
	if err != nil {
		return err
	}

	d, err := buildDeps(cfg, log)
	if err != nil {
		return err
	}

	jobs, err := buildJobs(d)
	if err != nil {
		return err
	}

	jc := d.jobContext(context.Background())
	result, err := scheduler.RunTick(jc, jobs)
	if err != nil {
		return err
	}

	fmt.Printf("executed=%v notified=%v skipped=%v\n", result.Executed, result.Notified, result.Skipped)
	return nil
}

// loadCfgAndLogger loads config.Config and builds a logger at the
// level it carries, adjusted by --verbose/--quiet.
func loadCfgAndLogger() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	level := cfg.LogLevel
	if verbose {
		level = "DEBUG"
	} else if quiet {
		level = "ERROR"
	}

	return cfg, logger.New(level, "production"), nil
}
