package interrupt

import (
	"reflect"
	"sync"
	"syscall"
	"testing"
	"time"
)

func TestQueueDrainOrder(t *testing.T) {
	q := NewQueue(8)
	q.Push(SkipNext)
	q.Push(Toggle)
	q.Push(Menu)

	got := q.Drain()
	want := []Command{SkipNext, Toggle, Menu}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Drain() = %v, want %v", got, want)
	}
	if more := q.Drain(); len(more) != 0 {
		t.Errorf("second Drain() = %v, want empty", more)
	}
}

func TestQueuePushNeverBlocks(t *testing.T) {
	q := NewQueue(2)
	if !q.Push(Debug) || !q.Push(Debug) {
		t.Fatal("Push() into a queue with room should succeed")
	}

	done := make(chan bool)
	go func() { done <- q.Push(Debug) }()

	select {
	case ok := <-done:
		if ok {
			t.Error("Push() into a full queue should report the drop")
		}
	case <-time.After(time.Second):
		t.Fatal("Push() blocked on a full queue")
	}

	if got := len(q.Drain()); got != 2 {
		t.Errorf("Drain() returned %d commands, want 2", got)
	}
}

func TestQueueReady(t *testing.T) {
	q := NewQueue(4)

	select {
	case <-q.Ready():
		t.Fatal("Ready() fired on an empty queue")
	default:
	}

	q.Push(Toggle)
	select {
	case <-q.Ready():
	case <-time.After(time.Second):
		t.Fatal("Ready() did not fire after Push")
	}
}

func TestQueueConcurrentProducers(t *testing.T) {
	q := NewQueue(100)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				q.Push(SkipNext)
			}
		}()
	}
	wg.Wait()

	if got := len(q.Drain()); got != 100 {
		t.Errorf("Drain() returned %d commands, want 100", got)
	}
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		sig    syscall.Signal
		want   Command
		wantOK bool
	}{
		{syscall.SIGINT, Menu, true},
		{syscall.SIGUSR1, SkipNext, true},
		{syscall.SIGUSR2, SkipPrev, true},
		{syscall.SIGHUP, Toggle, true},
		{syscall.SIGTERM, 0, false},
		{syscall.SIGWINCH, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.sig.String(), func(t *testing.T) {
			got, ok := Translate(tt.sig)
			if ok != tt.wantOK || (ok && got != tt.want) {
				t.Errorf("Translate(%s) = (%s, %v), want (%s, %v)", tt.sig, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSignalsHandle(t *testing.T) {
	cancelled := false
	s := NewSignals(func() { cancelled = true })
	q := NewQueue(4)

	s.handle(syscall.SIGUSR1, q)
	s.handle(syscall.SIGTERM, q)

	if got := q.Drain(); !reflect.DeepEqual(got, []Command{SkipNext}) {
		t.Errorf("queued %v, want [skip-next]", got)
	}
	if !cancelled {
		t.Error("SIGTERM should cancel the program context")
	}
}
