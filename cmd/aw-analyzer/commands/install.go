package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/posaune0423/aw-analyzer/internal/install"
)

const autoStartLabel = "com.posaune0423.aw-analyzer"

var (
	installInterval int
	installDryRun   bool
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Write an OS-level scheduler descriptor that runs tick on a cadence",
	RunE:  runInstall,
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the OS-level scheduler descriptor",
	RunE:  runUninstall,
}

func init() {
	installCmd.Flags().IntVar(&installInterval, "interval", 15, "run interval in minutes")
	installCmd.Flags().BoolVar(&installDryRun, "dry-run", false, "print the descriptor and next run times without writing anything")
}

func runInstall(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadCfgAndLogger()
	if err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return err
	}

	intervalSecs := installInterval * 60
	desc := install.Descriptor{
		Label:          autoStartLabel,
		ExecutablePath: exe,
		Args:           []string{"tick"},
		IntervalSecs:   intervalSecs,
		Env: map[string]string{
			"AW_AI_API_KEY":              cfg.AIAPIKey,
			"AW_CHAT_WEBHOOK_URL":        cfg.ChatWebhookURL,
			"AW_CHAT_BOT_TOKEN":          cfg.ChatBotToken,
			"AW_CHAT_CHANNEL_ID":         cfg.ChatChannelID,
			"AW_SERVER_URL":              cfg.ServerURL,
			"AW_HOSTNAME":                cfg.Hostname,
			"AW_LOG_LEVEL":               cfg.LogLevel,
			"AW_TIMEZONE_OFFSET_MINUTES": fmt.Sprintf("%d", cfg.TimezoneOffsetMins),
		},
		StdoutLogPath: "/tmp/aw-analyzer.out.log",
		StderrLogPath: "/tmp/aw-analyzer.err.log",
	}

	if installDryRun {
		fmt.Print(install.Render(desc))

		cronExpr := fmt.Sprintf("*/%d * * * *", installInterval)
		runs, err := install.NextRuns(cronExpr, time.Now(), 2)
		if err != nil {
			return err
		}
		fmt.Println("next runs:")
		for _, r := range runs {
			fmt.Println(" ", r.Format(time.RFC3339))
		}
		return nil
	}

	path, err := install.DefaultPath(autoStartLabel)
	if err != nil {
		return err
	}
	if err := install.Write(path, desc); err != nil {
		return err
	}

	fmt.Printf("installed auto-start descriptor at %s\n", path)
	return nil
}

func runUninstall(cmd *cobra.Command, args []string) error {
	path, err := install.DefaultPath(autoStartLabel)
	if err != nil {
		return err
	}
	if err := install.Remove(path); err != nil {
		return err
	}

	fmt.Printf("removed auto-start descriptor at %s\n", path)
	return nil
}
