// Package session is the playback state machine. A single control loop
// drives it: each step drains queued commands, then acts on the current
// mode (search, play or advance to the next track).
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"

	ytaperrors "ytap/internal/errors"
	"ytap/internal/history"
	"ytap/internal/httputil"
	"ytap/internal/interrupt"
	"ytap/internal/log"
	"ytap/internal/media"
	"ytap/internal/player"
	"ytap/internal/resolver"
	"ytap/internal/ui"
)

// Player is the process controller the session drives.
type Player interface {
	Start(track media.Track, stdout, stderr io.Writer) (*player.Handle, error)
	IsAlive(h *player.Handle) bool
	Terminate(h *player.Handle) bool
	SendCommand(h *player.Handle, cmd player.Command) mo.Option[player.Response]
}

// Console is the operator-facing side of the session.
type Console interface {
	Status(format string, args ...any)
	Warn(format string, args ...any)
	Fail(format string, args ...any)
	Dump(text string)
	Progress(position, duration float64)
	AskQuery() (string, error)
	Pick(items []string) (int, error)
	Menu() (int, error)
}

// Input is a hotkey reader that must be paused while prompting.
type Input interface {
	Suspend()
	Resume()
}

// Notifier announces track changes.
type Notifier interface {
	Notify(msg string)
}

// Journal persists plays across sessions.
type Journal interface {
	Append(p history.Play) error
}

// Menu actions in prompt order.
const (
	menuQuit = iota
	menuStopPlayer
	menuSearch
	menuDebug
)

// Options wires a session. Resolver, Player, Console and Queue are required.
type Options struct {
	Resolver resolver.Resolver
	Player   Player
	Console  Console
	Queue    *interrupt.Queue
	Ledger   *history.Ledger
	Journal  Journal
	Input    Input
	Notifier Notifier

	// Player output sinks, closed when the session ends.
	Stdout io.Writer
	Stderr io.Writer

	SearchCount  int
	PollInterval time.Duration
	AutoAdvance  bool
	AdvanceGrace time.Duration

	// Query is searched before the first prompt.
	Query string
}

// Session runs the playback state machine.
type Session struct {
	resolver resolver.Resolver
	player   Player
	console  Console
	queue    *interrupt.Queue
	ledger   *history.Ledger
	journal  Journal
	input    Input
	notifier Notifier
	stdout   io.Writer
	stderr   io.Writer

	count       int
	poll        time.Duration
	autoAdvance bool
	grace       time.Duration
	query       string

	state State

	timer    *time.Timer
	timerGen atomic.Uint64 // Bumped whenever the timer is stopped or armed
	firedGen atomic.Uint64 // Generation of the last timer that fired

	closeOnce sync.Once
}

type noInput struct{}

func (noInput) Suspend() {}
func (noInput) Resume()  {}

type noNotifier struct{}

func (noNotifier) Notify(string) {}

// New creates a session in Find mode.
func New(opts Options) (*Session, error) {
	switch {
	case opts.Resolver == nil:
		return nil, fmt.Errorf("session: resolver is required")
	case opts.Player == nil:
		return nil, fmt.Errorf("session: player is required")
	case opts.Console == nil:
		return nil, fmt.Errorf("session: console is required")
	case opts.Queue == nil:
		return nil, fmt.Errorf("session: queue is required")
	}

	s := &Session{
		resolver:    opts.Resolver,
		player:      opts.Player,
		console:     opts.Console,
		queue:       opts.Queue,
		ledger:      opts.Ledger,
		journal:     opts.Journal,
		input:       opts.Input,
		notifier:    opts.Notifier,
		stdout:      lo.Ternary[io.Writer](opts.Stdout != nil, opts.Stdout, io.Discard),
		stderr:      lo.Ternary[io.Writer](opts.Stderr != nil, opts.Stderr, io.Discard),
		count:       lo.Ternary(opts.SearchCount > 0, opts.SearchCount, resolver.DefaultCount),
		poll:        lo.Ternary(opts.PollInterval > 0, opts.PollInterval, 100*time.Millisecond),
		autoAdvance: opts.AutoAdvance,
		grace:       opts.AdvanceGrace,
		query:       opts.Query,
		state:       State{Mode: Find},
	}
	if s.ledger == nil {
		s.ledger = history.NewLedger()
	}
	if s.input == nil {
		s.input = noInput{}
	}
	if s.notifier == nil {
		s.notifier = noNotifier{}
	}
	return s, nil
}

// State returns a copy of the current state.
func (s *Session) State() State {
	return s.state
}

// Ledger returns the session's play history.
func (s *Session) Ledger() *history.Ledger {
	return s.ledger
}

// Run steps the session until the user quits or ctx is cancelled, then
// releases everything it owns.
func (s *Session) Run(ctx context.Context) error {
	defer s.Close()

	for ctx.Err() == nil {
		if err := s.Step(ctx); err != nil {
			if errors.Is(err, ytaperrors.ErrQuit) {
				log.Info("quit requested")
				return nil
			}
			return err
		}
	}
	log.Info("context cancelled, shutting down")
	return nil
}

// Step performs one iteration of the control loop. It returns ErrQuit
// when the user asked to terminate the program.
func (s *Session) Step(ctx context.Context) error {
	for _, cmd := range s.queue.Drain() {
		if err := s.handle(ctx, cmd); err != nil {
			return err
		}
	}

	if s.state.PendingNext {
		s.state.PendingNext = false
		s.state.Mode = Next
	}

	switch s.state.Mode {
	case Play:
		return s.stepPlay(ctx)
	case Next:
		return s.stepNext(ctx)
	default:
		return s.stepFind(ctx)
	}
}

func (s *Session) stepFind(ctx context.Context) error {
	s.input.Suspend()

	query := s.query
	s.query = ""
	if query == "" {
		q, err := s.console.AskQuery()
		if errors.Is(err, ui.ErrInterrupt) {
			return s.menu()
		}
		if err != nil {
			return err
		}
		query = q
	}

	if query == ui.MenuChoice {
		return s.menu()
	}
	if query == "" {
		return nil
	}

	tracks, err := s.lookup(ctx, query)
	if err != nil {
		s.report(err, "search failed")
		return nil
	}

	var idx int
	switch len(tracks) {
	case 0:
		s.console.Warn("No results for %q", query)
		return nil
	case 1:
		idx = 0
	default:
		items := lo.Map(tracks, func(t media.Track, _ int) string {
			return fmt.Sprintf("%s (%s)", t.Title, ui.FormatTime(t.Duration))
		})
		idx, err = s.console.Pick(items)
		if errors.Is(err, ui.ErrInterrupt) || (err == nil && idx == -1) {
			return s.menu()
		}
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(tracks) {
			s.console.Warn("No track %d", idx)
			return nil
		}
	}

	s.startPlayback(ctx, tracks[idx])
	return nil
}

// lookup resolves a link directly and searches anything else.
func (s *Session) lookup(ctx context.Context, query string) ([]media.Track, error) {
	if httputil.IsURL(query) {
		t, err := s.resolver.ResolveURL(ctx, query)
		if err != nil {
			return nil, err
		}
		return []media.Track{t}, nil
	}

	term, count := resolver.ParseQuery(query, s.count)
	return s.resolver.Search(ctx, term, count)
}

func (s *Session) stepPlay(ctx context.Context) error {
	s.input.Resume()

	wait := time.NewTimer(s.poll)
	defer wait.Stop()

	select {
	case <-ctx.Done():
		return nil
	case <-s.queue.Ready():
		// Let the next step drain it.
		return nil
	case <-wait.C:
	}

	if !s.player.IsAlive(s.state.Handle) {
		log.Info("player exited")
		s.state.Mode = Next
		return nil
	}

	s.showProgress()
	return nil
}

func (s *Session) showProgress() {
	resp, ok := s.player.SendCommand(s.state.Handle, player.GetPlaybackTime).Get()
	if !ok {
		return
	}
	pos, ok := resp.Float()
	if !ok {
		return
	}
	s.state.Position = pos
	s.console.Progress(pos, s.state.Current.OrEmpty().Duration)
}

func (s *Session) stepNext(ctx context.Context) error {
	next, ok := s.state.Next.Get()
	s.state.Next = mo.None[media.Track]()

	if !ok {
		current, has := s.state.Current.Get()
		if !has {
			s.state.Mode = Find
			return nil
		}

		t, err := s.resolver.ResolveNext(ctx, current)
		if err != nil {
			s.report(err, "no next track")
			s.state.Mode = Find
			return nil
		}
		next = t
	}

	s.startPlayback(ctx, next)
	return nil
}

// startPlayback replaces the running player with t. A failed start leaves
// the session in Find without a handle.
func (s *Session) startPlayback(ctx context.Context, t media.Track) {
	s.stopTimer()

	if s.player.Terminate(s.state.Handle) {
		log.Debugf("terminated %s", s.state.Handle)
	}
	s.state.Handle = nil

	h, err := s.player.Start(t, s.stdout, s.stderr)
	if err != nil {
		s.report(err, "could not play "+t.Title)
		s.state.Mode = Find
		return
	}

	s.state.Handle = h
	s.state.Current = mo.Some(t)
	s.state.Position = 0

	idx := s.ledger.Record(t.ID)
	if s.journal != nil {
		p := history.Play{ID: t.ID, Title: t.Title, Time: time.Now(), PageURL: t.PageURL}
		if err := s.journal.Append(p); err != nil {
			log.Warnf("journal: %v", err)
		}
	}

	msg := "Now playing: " + t.Title
	log.WithField("index", idx).Info(msg)
	s.console.Status("%s", msg)
	s.notifier.Notify(msg)

	s.prefetch(ctx, t)

	s.state.Mode = Play
	s.armTimer(t)
}

// prefetch fills the next-track cache. Failure only empties it.
func (s *Session) prefetch(ctx context.Context, t media.Track) {
	next, err := s.resolver.ResolveNext(ctx, t)
	if err != nil {
		log.Warnf("prefetching next track: %v", err)
		s.state.Next = mo.None[media.Track]()
		return
	}
	log.Infof("Next title: %s", next.Title)
	s.state.Next = mo.Some(next)
}

func (s *Session) report(err error, what string) {
	log.Errorf("%s: %v", what, err)
	s.console.Fail("%s: %v", what, err)
}

// Close stops the player and the timer and closes the output sinks.
// It is safe to call more than once.
func (s *Session) Close() error {
	var errs []error
	s.closeOnce.Do(func() {
		s.input.Suspend()
		s.stopTimer()
		s.player.Terminate(s.state.Handle)

		sinks := []io.Writer{s.stdout}
		if s.stderr != s.stdout {
			sinks = append(sinks, s.stderr)
		}
		for _, w := range sinks {
			if c, ok := w.(io.Closer); ok {
				if err := c.Close(); err != nil {
					errs = append(errs, err)
				}
			}
		}
	})
	return errors.Join(errs...)
}
