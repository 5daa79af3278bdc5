// Package install writes and removes the OS-level auto-start descriptor:
// a platform-specific XML document declaring the executable, its
// arguments, run interval, redacted environment, and log paths. Write
// and Remove only create or delete the file; this package does not run
// the OS's scheduler control utility to load or unload it. The
// process itself never runs a resident cron loop; ticks remain
// externally invoked. robfig/cron/v3 is used here only to parse the
// cron expression derived from the run interval and preview upcoming
// run times, the way the
// teacher's aicfo_scheduler derives nextRun from a cron.Schedule.
package install

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	awerrors "github.com/posaune0423/aw-analyzer/pkg/errors"
)

// redactedEnvKeys lists the environment variable names whose values are
// replaced with "***" in any dry-run or descriptor output, so a
// terminal transcript or file never leaks a live secret.
var redactedEnvKeys = map[string]bool{
	"AW_AI_API_KEY":     true,
	"AW_CHAT_BOT_TOKEN": true,
}

// Descriptor is everything needed to render and write the auto-start
// document.
type Descriptor struct {
	Label          string
	ExecutablePath string
	Args           []string
	IntervalSecs   int
	Env            map[string]string
	StdoutLogPath  string
	StderrLogPath  string
}

// NextRuns parses cronExpr with the standard five-field format and
// returns the next n scheduled run times after from. An empty or
// malformed cronExpr is a config_error.
func NextRuns(cronExpr string, from time.Time, n int) ([]time.Time, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, awerrors.Config(fmt.Sprintf("invalid cron expression %q: %v", cronExpr, err))
	}

	runs := make([]time.Time, 0, n)
	next := from
	for i := 0; i < n; i++ {
		next = schedule.Next(next)
		runs = append(runs, next)
	}
	return runs, nil
}

// Render produces the descriptor's XML document as a string, the same
// text written to disk by Write or printed to stdout by a --dry-run
// invocation. Secrets named in redactedEnvKeys are masked.
func Render(d Descriptor) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<plist version="1.0">` + "\n")
	b.WriteString("<dict>\n")
	fmt.Fprintf(&b, "  <key>Label</key>\n  <string>%s</string>\n", d.Label)
	b.WriteString("  <key>ProgramArguments</key>\n  <array>\n")
	fmt.Fprintf(&b, "    <string>%s</string>\n", d.ExecutablePath)
	for _, arg := range d.Args {
		fmt.Fprintf(&b, "    <string>%s</string>\n", arg)
	}
	b.WriteString("  </array>\n")
	fmt.Fprintf(&b, "  <key>StartInterval</key>\n  <integer>%d</integer>\n", d.IntervalSecs)

	b.WriteString("  <key>EnvironmentVariables</key>\n  <dict>\n")
	for _, key := range sortedKeys(d.Env) {
		value := d.Env[key]
		if redactedEnvKeys[key] {
			value = "***"
		}
		fmt.Fprintf(&b, "    <key>%s</key>\n    <string>%s</string>\n", key, value)
	}
	b.WriteString("  </dict>\n")

	fmt.Fprintf(&b, "  <key>StandardOutPath</key>\n  <string>%s</string>\n", d.StdoutLogPath)
	fmt.Fprintf(&b, "  <key>StandardErrorPath</key>\n  <string>%s</string>\n", d.StderrLogPath)
	b.WriteString("</dict>\n</plist>\n")
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

// Write renders d and writes it to path, creating parent directories as
// needed. It has no dry-run mode; the install command checks its
// --dry-run flag before calling Write.
func Write(path string, d Descriptor) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return awerrors.State("failed to create auto-start directory", err)
	}
	if err := os.WriteFile(path, []byte(Render(d)), 0o644); err != nil {
		return awerrors.State("failed to write auto-start descriptor", err)
	}
	return nil
}

// Remove deletes the descriptor at path. A missing file is not an
// error, uninstall is idempotent.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return awerrors.State("failed to remove auto-start descriptor", err)
	}
	return nil
}

// DefaultPath returns the user's auto-start directory location for
// label (e.g. "com.posaune0423.aw-analyzer").
func DefaultPath(label string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Library", "LaunchAgents", label+".plist"), nil
}
