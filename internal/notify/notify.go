// Package notify runs the user's notification command.
package notify

import (
	"os/exec"
	"strings"

	"al.essio.dev/pkg/shellescape"

	"ytap/internal/log"
)

// Placeholder is replaced by the shell-quoted message.
const Placeholder = "{message}"

// Notifier fills a command template and runs it through sh without waiting.
// A zero Notifier does nothing.
type Notifier struct {
	template string
	shell    string
}

// New creates a notifier for template, e.g. "notify-send {message}".
func New(template string) *Notifier {
	return &Notifier{template: strings.TrimSpace(template), shell: "sh"}
}

// Command returns the shell command line for msg.
func (n *Notifier) Command(msg string) string {
	return strings.ReplaceAll(n.template, Placeholder, shellescape.Quote(msg))
}

// Notify sends msg. Failures are logged, never returned.
func (n *Notifier) Notify(msg string) {
	if n == nil || n.template == "" {
		return
	}

	cmd := exec.Command(n.shell, "-c", n.Command(msg))
	if err := cmd.Start(); err != nil {
		log.Warnf("notify: %v", err)
		return
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			log.Debugf("notify command exited: %v", err)
		}
	}()
}
