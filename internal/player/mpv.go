package player

import (
	"fmt"
	"io"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/samber/mo"

	ytaperrors "ytap/internal/errors"
	"ytap/internal/log"
	"ytap/internal/media"
)

// Options configures a Controller.
type Options struct {
	Binary     string        // Player executable, "mpv" by default
	SocketPath string        // Control-channel endpoint passed to the player
	Video      bool          // Show video; audio only otherwise
	IPCTimeout time.Duration // Bound on each control-channel call
}

// Controller starts mpv processes and keeps at most one of them alive.
type Controller struct {
	opts Options

	mu      sync.Mutex
	current *Handle
}

// NewController creates a controller. Nothing is started until Start.
func NewController(opts Options) *Controller {
	if opts.Binary == "" {
		opts.Binary = "mpv"
	}
	if opts.IPCTimeout <= 0 {
		opts.IPCTimeout = 250 * time.Millisecond
	}
	return &Controller{opts: opts}
}

// Available checks if the player binary exists in PATH.
func (c *Controller) Available() bool {
	_, err := exec.LookPath(c.opts.Binary)
	return err == nil
}

// Start terminates the previously started process, if still alive, and
// launches the player for track with its output sent to the given sinks.
func (c *Controller) Start(track media.Track, stdout, stderr io.Writer) (*Handle, error) {
	args, err := BuildArgs(track, ArgOptions{SocketPath: c.opts.SocketPath, Video: c.opts.Video})
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.terminate(c.current) {
		log.Debugf("terminated previous player pid %d", c.current.pid)
	}
	c.current = nil

	cmd := exec.Command(c.opts.Binary, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.Stdin = nil

	if err := cmd.Start(); err != nil {
		return nil, ytaperrors.Wrap(ytaperrors.ErrProcess, err, "starting %s", c.opts.Binary)
	}

	h := &Handle{
		cmd:     cmd,
		pid:     cmd.Process.Pid,
		socket:  c.opts.SocketPath,
		exited:  make(chan struct{}),
		timeout: c.opts.IPCTimeout,
	}

	// Reap the process so exit is observable without blocking.
	go func() {
		_ = cmd.Wait()
		close(h.exited)
	}()

	c.current = h
	log.WithField("pid", h.pid).Debugf("player started: %s %v", c.opts.Binary, args)
	return h, nil
}

// IsAlive reports whether h's process is still running. It never blocks.
func (c *Controller) IsAlive(h *Handle) bool {
	if h == nil || h.exited == nil {
		return false
	}
	select {
	case <-h.exited:
		return false
	default:
		return true
	}
}

// Terminate asks h's process to stop without waiting for it to exit.
// It returns false when h is nil or already exited.
func (c *Controller) Terminate(h *Handle) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.terminate(h)
}

func (c *Controller) terminate(h *Handle) bool {
	if !c.IsAlive(h) {
		return false
	}
	if err := h.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		log.Debugf("signalling pid %d: %v", h.pid, err)
		return false
	}
	return true
}

// SendCommand sends cmd over h's control channel. Any failure yields none.
func (c *Controller) SendCommand(h *Handle, cmd Command) mo.Option[Response] {
	if h == nil {
		return mo.None[Response]()
	}
	return Send(h.socket, cmd, h.timeout)
}

// Close terminates the running process, if any.
func (c *Controller) Close() error {
	c.Terminate(c.Current())
	return nil
}

// Current returns the most recently started handle.
func (c *Controller) Current() *Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (h *Handle) String() string {
	return fmt.Sprintf("pid=%d socket=%s", h.PID(), h.Socket())
}
