// Package history keeps the in-memory play ledger and its optional
// on-disk journal.
package history

import (
	"sync"
	"time"

	"github.com/samber/mo"

	"ytap/internal/media"
)

// Ledger is an append-only record of played track ids.
// The zero value is not usable; call NewLedger.
type Ledger struct {
	mu      sync.RWMutex
	entries []media.HistoryEntry
	latest  map[string]int // id -> most recent index
	cursor  int
	now     func() time.Time
}

// NewLedger returns an empty ledger with its cursor at -1.
func NewLedger() *Ledger {
	return &Ledger{
		latest: make(map[string]int),
		cursor: -1,
		now:    time.Now,
	}
}

// Record appends id and moves the cursor onto the new entry.
func (l *Ledger) Record(id string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := len(l.entries)
	l.entries = append(l.entries, media.HistoryEntry{ID: id, Index: i, Time: l.now()})
	l.latest[id] = i
	l.cursor = i
	return i
}

// WasPlayed reports whether id was ever recorded, with its most recent entry.
func (l *Ledger) WasPlayed(id string) (bool, mo.Option[media.HistoryEntry]) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	i, ok := l.latest[id]
	if !ok {
		return false, mo.None[media.HistoryEntry]()
	}
	return true, mo.Some(l.entries[i])
}

// Previous steps the cursor back, never past the first entry.
func (l *Ledger) Previous() mo.Option[media.HistoryEntry] {
	return l.step(-1)
}

// Next steps the cursor forward, never past the last entry.
func (l *Ledger) Next() mo.Option[media.HistoryEntry] {
	return l.step(1)
}

func (l *Ledger) step(delta int) mo.Option[media.HistoryEntry] {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) == 0 {
		return mo.None[media.HistoryEntry]()
	}

	l.cursor = min(max(l.cursor+delta, 0), len(l.entries)-1)
	return mo.Some(l.entries[l.cursor])
}

// Cursor returns the current position, -1 when empty.
func (l *Ledger) Cursor() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cursor
}

// Len returns the number of recorded entries.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Entries returns a copy of the ledger in play order.
func (l *Ledger) Entries() []media.HistoryEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]media.HistoryEntry, len(l.entries))
	copy(out, l.entries)
	return out
}
