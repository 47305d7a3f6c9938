package session

import (
	"context"
	"errors"
	"time"

	"github.com/samber/mo"

	ytaperrors "ytap/internal/errors"
	"ytap/internal/httputil"
	"ytap/internal/interrupt"
	"ytap/internal/log"
	"ytap/internal/media"
	"ytap/internal/player"
	"ytap/internal/ui"
)

// handle applies one queued command on the control loop.
func (s *Session) handle(ctx context.Context, cmd interrupt.Command) error {
	log.Debugf("command %s in %s", cmd, s.state.Mode)

	switch cmd {
	case interrupt.Debug:
		s.console.Dump(s.Describe())
	case interrupt.Menu:
		return s.menu()
	case interrupt.SkipNext:
		s.skipNext(ctx)
	case interrupt.Advance:
		if !s.advanceDue() {
			log.Debug("ignoring advance from a cancelled timer")
			return nil
		}
		s.skipNext(ctx)
	case interrupt.SkipPrev:
		s.skipPrev(ctx)
	case interrupt.Toggle:
		if s.player.SendCommand(s.state.Handle, player.TogglePause).IsAbsent() {
			log.Debug("toggle: no reply from player")
		}
	}
	return nil
}

// skipNext makes the cached next track start on the following step,
// resolving one first when the cache is empty.
func (s *Session) skipNext(ctx context.Context) {
	current, ok := s.state.Current.Get()
	if !ok {
		s.console.Warn("Nothing is playing")
		return
	}

	if s.state.Next.IsAbsent() {
		t, err := s.resolver.ResolveNext(ctx, current)
		if err != nil {
			s.report(err, "no next track")
			return
		}
		s.state.Next = mo.Some(t)
	}

	log.Info("Playing next track")
	s.state.PendingNext = true
}

// skipPrev queues the previous ledger entry as the next track.
func (s *Session) skipPrev(ctx context.Context) {
	entry, ok := s.ledger.Previous().Get()
	if !ok {
		s.console.Warn("No previous track")
		return
	}

	t, err := s.resolver.ResolveURL(ctx, httputil.WatchURL(entry.ID))
	if err != nil {
		s.report(err, "could not resolve previous track")
		return
	}

	log.Info("Playing prev track")
	s.state.Next = mo.Some(t)
	s.state.PendingNext = true
}

// menu blocks on the operator's choice.
func (s *Session) menu() error {
	s.input.Suspend()

	choice, err := s.console.Menu()
	if errors.Is(err, ui.ErrInterrupt) {
		return ytaperrors.ErrQuit
	}
	if err != nil {
		return err
	}

	switch choice {
	case menuQuit:
		return ytaperrors.ErrQuit
	case menuStopPlayer:
		if s.player.Terminate(s.state.Handle) {
			s.console.Status("Player terminated")
		}
	case menuSearch:
		s.stopTimer()
		s.state.PendingNext = false
		s.state.Mode = Find
	case menuDebug:
		s.console.Dump(s.Describe())
	}
	return nil
}

// armTimer schedules an advance for when t should have finished.
func (s *Session) armTimer(t media.Track) {
	if !s.autoAdvance || t.Duration <= 0 {
		return
	}

	gen := s.timerGen.Add(1)
	after := time.Duration(t.Duration*float64(time.Second)) + s.grace
	s.timer = time.AfterFunc(after, func() {
		s.firedGen.Store(gen)
		s.queue.Push(interrupt.Advance)
	})
	log.Debugf("auto-advance in %s", after)
}

// stopTimer cancels the pending advance. An advance already queued by it
// is ignored once the generation moves on.
func (s *Session) stopTimer() {
	s.timerGen.Add(1)
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Session) advanceDue() bool {
	return s.firedGen.Load() == s.timerGen.Load()
}
