// Package interrupt turns asynchronous user input (signals and hotkeys)
// into commands queued for the session's control loop. Producers only ever
// push; the control loop is the single consumer.
package interrupt

import (
	"ytap/internal/log"
)

// Command is a user request raised outside the control loop.
type Command int

const (
	Debug Command = iota
	Menu
	SkipPrev
	SkipNext
	Toggle
	Advance // Auto-advance timer fired
)

func (c Command) String() string {
	switch c {
	case Debug:
		return "debug"
	case Menu:
		return "open-menu"
	case SkipPrev:
		return "skip-prev"
	case SkipNext:
		return "skip-next"
	case Toggle:
		return "toggle"
	case Advance:
		return "advance"
	default:
		return "unknown"
	}
}

// DefaultQueueSize bounds how many commands may be pending at once.
const DefaultQueueSize = 32

// Queue is a bounded multi-producer, single-consumer command queue.
type Queue struct {
	ch    chan Command
	ready chan struct{}
}

// NewQueue creates a queue holding up to size pending commands.
func NewQueue(size int) *Queue {
	if size < 1 {
		size = DefaultQueueSize
	}
	return &Queue{
		ch:    make(chan Command, size),
		ready: make(chan struct{}, 1),
	}
}

// Push enqueues c without blocking. A full queue drops c and returns false.
func (q *Queue) Push(c Command) bool {
	select {
	case q.ch <- c:
	default:
		log.Warnf("command queue full, dropping %s", c)
		return false
	}

	select {
	case q.ready <- struct{}{}:
	default:
	}
	return true
}

// Drain returns every pending command in arrival order.
func (q *Queue) Drain() []Command {
	select {
	case <-q.ready:
	default:
	}

	var cmds []Command
	for {
		select {
		case c := <-q.ch:
			cmds = append(cmds, c)
		default:
			return cmds
		}
	}
}

// Ready fires after a Push. The control loop uses it to cut a poll wait short.
func (q *Queue) Ready() <-chan struct{} {
	return q.ready
}
