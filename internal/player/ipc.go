package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/samber/mo"

	ytaperrors "ytap/internal/errors"
	"ytap/internal/log"
)

// Command is a control-channel request understood by mpv.
type Command int

const (
	TogglePause Command = iota
	GetPlaybackTime
)

func (c Command) String() string {
	switch c {
	case TogglePause:
		return "toggle"
	case GetPlaybackTime:
		return "get-time"
	default:
		return "unknown"
	}
}

func (c Command) args() ([]interface{}, bool) {
	switch c {
	case TogglePause:
		return []interface{}{"cycle", "pause"}, true
	case GetPlaybackTime:
		return []interface{}{"get_property", "playback-time"}, true
	default:
		return nil, false
	}
}

// ipcCommand is the JSON structure sent to mpv's IPC socket.
type ipcCommand struct {
	Command   []interface{} `json:"command"`
	RequestID int64         `json:"request_id"`
}

// Response is the JSON structure received from mpv's IPC socket.
type Response struct {
	Data      interface{} `json:"data"`
	Error     string      `json:"error"`
	RequestID int64       `json:"request_id"`
	Event     string      `json:"event,omitempty"`
}

// Float returns Data as a number.
func (r Response) Float() (float64, bool) {
	f, ok := r.Data.(float64)
	return f, ok
}

var requestID atomic.Int64

// Send opens a transient connection to socketPath, writes one command and
// reads its reply. Every failure, including a timeout, yields none.
func Send(socketPath string, cmd Command, timeout time.Duration) mo.Option[Response] {
	resp, err := send(socketPath, cmd, timeout)
	if err != nil {
		log.Debugf("%v", err)
		return mo.None[Response]()
	}
	return mo.Some(resp)
}

func send(socketPath string, cmd Command, timeout time.Duration) (Response, error) {
	args, ok := cmd.args()
	if !ok {
		return Response{}, ytaperrors.Wrap(ytaperrors.ErrProtocol, nil, "unknown command %d", cmd)
	}

	conn, err := net.DialTimeout("unix", socketPath, timeout)
	if err != nil {
		return Response{}, ytaperrors.Wrap(ytaperrors.ErrProtocol, err, "connect %s", socketPath)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return Response{}, ytaperrors.Wrap(ytaperrors.ErrProtocol, err, "set deadline")
	}

	id := requestID.Add(1)
	payload, err := json.Marshal(ipcCommand{Command: args, RequestID: id})
	if err != nil {
		return Response{}, ytaperrors.Wrap(ytaperrors.ErrProtocol, err, "marshal %s", cmd)
	}

	// mpv requires newline-delimited JSON
	if _, err := conn.Write(append(payload, '\n')); err != nil {
		return Response{}, ytaperrors.Wrap(ytaperrors.ErrProtocol, err, "write %s", cmd)
	}

	// Events broadcast to every client may arrive before the reply.
	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return Response{}, ytaperrors.Wrap(ytaperrors.ErrProtocol, err, "read %s", cmd)
		}

		var resp Response
		if err := json.Unmarshal(line, &resp); err != nil {
			return Response{}, ytaperrors.Wrap(ytaperrors.ErrProtocol, err, "unmarshal %s", cmd)
		}
		if resp.Event != "" {
			continue
		}
		if resp.RequestID != 0 && resp.RequestID != id {
			continue
		}
		if resp.Error != "" && resp.Error != "success" {
			return Response{}, ytaperrors.Wrap(ytaperrors.ErrProtocol, fmt.Errorf("mpv: %s", resp.Error), "%s", cmd)
		}
		return resp, nil
	}
}
