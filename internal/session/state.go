package session

import (
	"fmt"
	"strings"

	"github.com/samber/mo"

	"ytap/internal/media"
	"ytap/internal/player"
)

// Mode is the top-level state of a session.
type Mode int

const (
	Find Mode = iota // Waiting for a search
	Play             // A player process is running
	Next             // The next track should start
)

func (m Mode) String() string {
	switch m {
	case Find:
		return "find"
	case Play:
		return "play"
	case Next:
		return "next"
	default:
		return "unknown"
	}
}

// State is owned by the control loop. Nothing else mutates it.
type State struct {
	Mode        Mode
	PendingNext bool // Switch to Next at the start of the following step
	Current     mo.Option[media.Track]
	Next        mo.Option[media.Track] // Pre-resolved autoplay track
	Handle      *player.Handle
	Position    float64 // Last polled playback position in seconds
}

func trackLine(t mo.Option[media.Track]) string {
	if v, ok := t.Get(); ok {
		return v.String()
	}
	return "none"
}

// Describe dumps the session for the debug command.
func (s *Session) Describe() string {
	var b strings.Builder
	st := s.state

	fmt.Fprintf(&b, "mode: %s\n", st.Mode)
	fmt.Fprintf(&b, "pending next: %v\n", st.PendingNext)
	fmt.Fprintf(&b, "current: %s\n", trackLine(st.Current))
	fmt.Fprintf(&b, "next: %s\n", trackLine(st.Next))
	if st.Handle != nil {
		fmt.Fprintf(&b, "player: %s alive=%v\n", st.Handle, s.player.IsAlive(st.Handle))
	} else {
		b.WriteString("player: none\n")
	}
	fmt.Fprintf(&b, "position: %.1fs\n", st.Position)
	fmt.Fprintf(&b, "history: %d entries, cursor %d\n", s.ledger.Len(), s.ledger.Cursor())
	for _, e := range s.ledger.Entries() {
		fmt.Fprintf(&b, "  [%d] %s %s\n", e.Index, e.ID, e.Time.Format("15:04:05"))
	}
	return b.String()
}
