// Package notify dispatches a local OS desktop notification by
// shelling out to the platform-native toast command. It owns no
// network calls and no state; it is the last hop of a Notify result.
package notify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	awerrors "github.com/posaune0423/aw-analyzer/pkg/errors"
)

// Notifier sends a local desktop toast. A failure is always a
// *pkg/errors.Error with KindNotifier.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// OSNotifier selects the toast command for runtime.GOOS at construction
// time, so a single call site never branches on the platform.
type OSNotifier struct {
	goos string
	run  func(ctx context.Context, name string, args ...string) error
}

// New builds an OSNotifier for the current platform.
func New() *OSNotifier {
	return &OSNotifier{goos: runtime.GOOS, run: runCommand}
}

func runCommand(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// Notify shells out to the platform notifier. Any failure (missing
// binary, non-zero exit) is wrapped as a notifier_error.
func (n *OSNotifier) Notify(ctx context.Context, title, body string) error {
	var err error
	switch n.goos {
	case "linux":
		err = n.run(ctx, "notify-send", title, body)
	case "darwin":
		script := fmt.Sprintf(`display notification %q with title %q`, body, title)
		err = n.run(ctx, "osascript", "-e", script)
	case "windows":
		script := powershellToastScript(title, body)
		err = n.run(ctx, "powershell", "-NoProfile", "-Command", script)
	default:
		return awerrors.Notifier(fmt.Sprintf("unsupported platform %q for local notifications", n.goos), nil)
	}
	if err != nil {
		return awerrors.Notifier("failed to dispatch local notification", err)
	}
	return nil
}

func powershellToastScript(title, body string) string {
	return fmt.Sprintf(`
$template = [Windows.UI.Notifications.ToastNotificationManager]::GetTemplateContent([Windows.UI.Notifications.ToastTemplateType]::ToastText02)
$textNodes = $template.GetElementsByTagName('text')
$textNodes.Item(0).AppendChild($template.CreateTextNode(%q)) | Out-Null
$textNodes.Item(1).AppendChild($template.CreateTextNode(%q)) | Out-Null
$toast = [Windows.UI.Notifications.ToastNotification]::new($template)
[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier('aw-analyzer').Show($toast)
`, title, body)
}
