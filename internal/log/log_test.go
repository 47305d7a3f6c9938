package log

import (
	"strings"
	"testing"

	"ytap/internal/filesystem"
)

func TestSetupWritesToFile(t *testing.T) {
	filesystem.SetMemMapFs()
	defer filesystem.SetOsFs()

	path := "/state/ytap/ytap.log"
	if err := Setup(Options{Enabled: true, Path: path, Level: "debug"}); err != nil {
		t.Fatalf("Setup() error: %v", err)
	}
	Debugf("player started with pid %d", 42)
	Infof("now playing %s", "abc")
	if err := Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "player started with pid 42") {
		t.Errorf("debug line missing from log: %q", out)
	}
	if !strings.Contains(out, "now playing abc") {
		t.Errorf("info line missing from log: %q", out)
	}
}

func TestDisabledWritesNothing(t *testing.T) {
	filesystem.SetMemMapFs()
	defer filesystem.SetOsFs()

	if err := Setup(Options{Enabled: false, Path: "/state/ytap/ytap.log"}); err != nil {
		t.Fatalf("Setup() error: %v", err)
	}
	Info("ignored")

	if exists, _ := filesystem.API().Exists("/state/ytap/ytap.log"); exists {
		t.Error("disabled logger should not create a file")
	}
}
