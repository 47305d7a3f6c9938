package interrupt

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ytap/internal/log"
)

// Producer feeds a queue until ctx is done.
type Producer interface {
	Run(ctx context.Context, q *Queue)
}

// Signals maps process signals to commands. SIGTERM cancels the program
// instead of queueing anything.
type Signals struct {
	cancel context.CancelFunc
}

var _ Producer = (*Signals)(nil)

// NewSignals creates a signal producer. cancel is called on SIGTERM.
func NewSignals(cancel context.CancelFunc) *Signals {
	return &Signals{cancel: cancel}
}

// Translate returns the command bound to sig.
func Translate(sig os.Signal) (Command, bool) {
	switch sig {
	case syscall.SIGINT:
		return Menu, true
	case syscall.SIGUSR1:
		return SkipNext, true
	case syscall.SIGUSR2:
		return SkipPrev, true
	case syscall.SIGHUP:
		return Toggle, true
	default:
		return 0, false
	}
}

// Run installs the handlers and forwards signals until ctx is done.
func (s *Signals) Run(ctx context.Context, q *Queue) {
	sigCh := make(chan os.Signal, 4)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGUSR1, syscall.SIGUSR2, syscall.SIGHUP, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-sigCh:
			s.handle(sig, q)
		}
	}
}

func (s *Signals) handle(sig os.Signal, q *Queue) {
	if sig == syscall.SIGTERM {
		log.Info("received SIGTERM, shutting down")
		if s.cancel != nil {
			s.cancel()
		}
		return
	}

	cmd, ok := Translate(sig)
	if !ok {
		return
	}
	log.Debugf("signal %s -> %s", sig, cmd)
	q.Push(cmd)
}
