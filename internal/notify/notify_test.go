package notify

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCommandQuotesMessage(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"hello", "notify-send hello"},
		{"Now playing: lofi", "notify-send 'Now playing: lofi'"},
		{"it's $(rm -rf ~)", `notify-send 'it'"'"'s $(rm -rf ~)'`},
	}

	n := New("notify-send {message}")
	for _, tt := range tests {
		if got := n.Command(tt.msg); got != tt.want {
			t.Errorf("Command(%q) = %q, want %q", tt.msg, got, tt.want)
		}
	}
}

func TestNotifyRunsTemplate(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	n := New("printf %s {message} > " + out)
	n.Notify("Now playing: it's here")

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		data, err := os.ReadFile(out)
		if err == nil && string(data) == "Now playing: it's here" {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("notification command did not run")
}

func TestNotifyDisabled(t *testing.T) {
	var n *Notifier
	n.Notify("ignored")
	New("").Notify("ignored")
}
