package interrupt

import (
	"bytes"
	"context"
	"errors"
	"os"
	"sync"

	"github.com/muesli/cancelreader"
	"golang.org/x/term"

	"ytap/internal/log"
)

// escapeKeys are the function-key sequences xterm compatible terminals send.
var escapeKeys = []struct {
	seq []byte
	cmd Command
}{
	{[]byte("\x1b[1;5S"), SkipPrev},  // Ctrl-F4
	{[]byte("\x1bOS"), SkipPrev},     // F4
	{[]byte("\x1b[15;5~"), Toggle},   // Ctrl-F5
	{[]byte("\x1b[15~"), Toggle},     // F5
	{[]byte("\x1b[17;5~"), SkipNext}, // Ctrl-F6
	{[]byte("\x1b[17~"), SkipNext},   // F6
}

var plainKeys = map[byte]Command{
	0x0b: Debug, // Ctrl-K
	0x0d: Menu,  // Ctrl-M, Enter
	'\n': Menu,
	0x03: Menu, // Ctrl-C, raw mode swallows SIGINT
	'm':  Menu,
	'p':  SkipPrev,
	' ':  Toggle,
	'n':  SkipNext,
}

// DecodeKeys maps a chunk of raw terminal input to commands.
// Unknown keys and escape sequences are ignored.
func DecodeKeys(in []byte) []Command {
	var cmds []Command
	for len(in) > 0 {
		if in[0] == 0x1b {
			matched := false
			for _, k := range escapeKeys {
				if bytes.HasPrefix(in, k.seq) {
					cmds = append(cmds, k.cmd)
					in = in[len(k.seq):]
					matched = true
					break
				}
			}
			if !matched {
				in = skipEscape(in)
			}
			continue
		}

		if cmd, ok := plainKeys[in[0]]; ok {
			cmds = append(cmds, cmd)
		}
		in = in[1:]
	}
	return cmds
}

// skipEscape drops one unrecognised escape sequence.
func skipEscape(in []byte) []byte {
	if len(in) < 2 || (in[1] != '[' && in[1] != 'O') {
		return in[1:]
	}
	for i := 2; i < len(in); i++ {
		if in[i] >= 0x40 && in[i] <= 0x7e {
			return in[i+1:]
		}
	}
	return nil
}

// Keyboard reads hotkeys from a terminal in raw mode. It is only active
// between Resume and Suspend so prompts get a cooked terminal.
type Keyboard struct {
	in *os.File
	q  *Queue

	mu     sync.Mutex
	state  *term.State
	reader cancelreader.CancelReader
	done   chan struct{}
}

// NewKeyboard creates a keyboard producer for in. On anything but a
// terminal it never reads.
func NewKeyboard(in *os.File, q *Queue) *Keyboard {
	return &Keyboard{in: in, q: q}
}

var _ Producer = (*Keyboard)(nil)

// Run sends keys to q until ctx is done, then restores the terminal.
// Keys are only read while the keyboard is resumed.
func (k *Keyboard) Run(ctx context.Context, q *Queue) {
	k.mu.Lock()
	k.q = q
	k.mu.Unlock()

	<-ctx.Done()
	k.Suspend()
}

// IsTerminal reports whether hotkeys can be read.
func (k *Keyboard) IsTerminal() bool {
	return k.in != nil && term.IsTerminal(int(k.in.Fd()))
}

// Resume enters raw mode and starts forwarding keys. Calling it while
// active is a no-op.
func (k *Keyboard) Resume() {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.reader != nil || !k.IsTerminal() {
		return
	}

	fd := int(k.in.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		log.Debugf("entering raw mode: %v", err)
		return
	}

	r, err := cancelreader.NewReader(k.in)
	if err != nil {
		_ = term.Restore(fd, state)
		log.Debugf("creating key reader: %v", err)
		return
	}

	k.state = state
	k.reader = r
	k.done = make(chan struct{})
	go k.read(r, k.q, k.done)
}

func (k *Keyboard) read(r cancelreader.CancelReader, q *Queue, done chan struct{}) {
	defer close(done)

	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		if err != nil {
			if !errors.Is(err, cancelreader.ErrCanceled) {
				log.Debugf("reading keys: %v", err)
			}
			return
		}
		for _, cmd := range DecodeKeys(buf[:n]) {
			log.Debugf("key -> %s", cmd)
			q.Push(cmd)
		}
	}
}

// Suspend stops reading and restores the terminal. Safe to call when
// not active.
func (k *Keyboard) Suspend() {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.reader == nil {
		return
	}

	k.reader.Cancel()
	<-k.done
	_ = k.reader.Close()

	if err := term.Restore(int(k.in.Fd()), k.state); err != nil {
		log.Debugf("restoring terminal: %v", err)
	}
	k.reader = nil
	k.state = nil
	k.done = nil
}
