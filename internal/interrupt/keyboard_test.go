package interrupt

import (
	"context"
	"os"
	"reflect"
	"testing"
	"time"
)

func TestDecodeKeys(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Command
	}{
		{"ctrl-k", "\x0b", []Command{Debug}},
		{"enter", "\r", []Command{Menu}},
		{"ctrl-c", "\x03", []Command{Menu}},
		{"m", "m", []Command{Menu}},
		{"f4", "\x1bOS", []Command{SkipPrev}},
		{"ctrl-f4", "\x1b[1;5S", []Command{SkipPrev}},
		{"f5", "\x1b[15~", []Command{Toggle}},
		{"ctrl-f5", "\x1b[15;5~", []Command{Toggle}},
		{"f6", "\x1b[17~", []Command{SkipNext}},
		{"ctrl-f6", "\x1b[17;5~", []Command{SkipNext}},
		{"letters", "p n", []Command{SkipPrev, Toggle, SkipNext}},
		{"unknown keys", "xyz", nil},
		{"arrow then key", "\x1b[An", []Command{SkipNext}},
		{"f7 ignored", "\x1b[18~", nil},
		{"lone escape", "\x1b", nil},
		{"burst", "\x1b[17~\x1b[17~ ", []Command{SkipNext, SkipNext, Toggle}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeKeys([]byte(tt.in))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodeKeys(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestKeyboardNotATerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	k := NewKeyboard(f, NewQueue(4))
	if k.IsTerminal() {
		t.Fatal("a regular file is not a terminal")
	}

	// Both are no-ops off a terminal.
	k.Resume()
	k.Suspend()
}

func TestKeyboardRunStopsOnCancel(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewKeyboard(f, nil).Run(ctx, NewQueue(4))
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
