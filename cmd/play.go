package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ytap/internal/config"
	ytaperrors "ytap/internal/errors"
	"ytap/internal/filesystem"
	"ytap/internal/history"
	"ytap/internal/interrupt"
	"ytap/internal/log"
	"ytap/internal/notify"
	"ytap/internal/player"
	"ytap/internal/resolver"
	"ytap/internal/session"
	"ytap/internal/ui"
)

var (
	_ session.Player   = (*player.Controller)(nil)
	_ session.Console  = (*ui.Console)(nil)
	_ session.Input    = (*interrupt.Keyboard)(nil)
	_ session.Notifier = (*notify.Notifier)(nil)
	_ session.Journal  = (*history.Journal)(nil)
)

// shutdownGrace bounds how long a cancelled session may sit in a prompt.
const shutdownGrace = 2 * time.Second

// playRun is the default command: ytap [query]
func playRun(cmd *cobra.Command, args []string) error {
	return runSession(cmd.Context(), strings.Join(args, " "))
}

// runSession wires every component and runs the playback loop until the
// user quits or the process is told to stop.
func runSession(parent context.Context, query string) error {
	if parent == nil {
		parent = context.Background()
	}

	ctrl := player.NewController(player.Options{
		Binary:     cfg.Player,
		SocketPath: config.SocketPath,
		Video:      cfg.Video,
		IPCTimeout: cfg.IPCTimeout.Duration,
	})
	if !ctrl.Available() {
		return ytaperrors.WithSuggestion(
			ytaperrors.Wrap(ytaperrors.ErrProcess, nil, "%s not found in PATH", cfg.Player),
			"Install mpv or point --player at it")
	}

	stdout, err := openSink(config.StdoutSink)
	if err != nil {
		return err
	}
	stderr, err := openSink(config.StderrSink)
	if err != nil {
		stdout.Close()
		return err
	}

	ledger := history.NewLedger()
	var journal session.Journal
	if cfg.History {
		path, err := config.HistoryPath()
		if err != nil {
			log.Warnf("history disabled: %v", err)
		} else {
			journal = history.NewJournal(path)
		}
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	queue := interrupt.NewQueue(interrupt.DefaultQueueSize)
	go interrupt.NewSignals(cancel).Run(ctx, queue)
	keyboard := interrupt.NewKeyboard(os.Stdin, queue)
	go keyboard.Run(ctx, queue)

	sess, err := session.New(session.Options{
		Resolver: resolver.NewYouTube(resolver.Options{
			Video:      cfg.Video,
			CookieFile: config.CookieFile,
			History:    ledger,
		}),
		Player:       ctrl,
		Console:      ui.NewConsole(cfg.Picker),
		Queue:        queue,
		Ledger:       ledger,
		Journal:      journal,
		Input:        keyboard,
		Notifier:     notify.New(cfg.Notify),
		Stdout:       stdout,
		Stderr:       stderr,
		SearchCount:  cfg.SearchCount,
		PollInterval: cfg.PollInterval.Duration,
		AutoAdvance:  cfg.AutoAdvance,
		AdvanceGrace: cfg.AdvanceGrace.Duration,
		Query:        query,
	})
	if err != nil {
		stdout.Close()
		stderr.Close()
		return err
	}

	log.WithField("video", cfg.Video).Infof("session started, query %q", query)

	done := make(chan struct{})
	go forceExit(ctx, done, ctrl, keyboard)

	err = sess.Run(ctx)
	close(done)
	return err
}

// openSink opens a player output file in append mode.
func openSink(path string) (io.WriteCloser, error) {
	f, err := filesystem.API().OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return f, nil
}

// forceExit ends the process when the loop can't observe cancellation
// because it is blocked in a prompt.
func forceExit(ctx context.Context, done <-chan struct{}, ctrl *player.Controller, kb *interrupt.Keyboard) {
	select {
	case <-done:
		return
	case <-ctx.Done():
	}

	select {
	case <-done:
		return
	case <-time.After(shutdownGrace):
	}

	log.Warn("session did not stop in time, exiting")
	kb.Suspend()
	_ = ctrl.Close()
	_ = log.Close()
	os.Exit(1)
}
