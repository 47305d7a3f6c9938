// Package player launches the external media player and talks to it over
// its JSON control channel. Every invocation uses exec.Command with an
// explicit argument slice, never a shell.
package player

import (
	"os/exec"
	"time"
)

// Handle owns one player process and its control-channel endpoint.
// A Handle is valid from Start until the process exits or is terminated.
type Handle struct {
	cmd     *exec.Cmd
	pid     int
	socket  string
	exited  chan struct{}
	timeout time.Duration
}

// PID returns the process id, 0 for an unstarted handle.
func (h *Handle) PID() int {
	if h == nil {
		return 0
	}
	return h.pid
}

// Socket returns the control-channel path the process was started with.
func (h *Handle) Socket() string {
	if h == nil {
		return ""
	}
	return h.socket
}

// Exited returns a channel closed once the process has exited.
func (h *Handle) Exited() <-chan struct{} {
	if h == nil {
		return nil
	}
	return h.exited
}
