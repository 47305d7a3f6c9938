package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/samber/mo"

	ytaperrors "ytap/internal/errors"
	"ytap/internal/history"
	"ytap/internal/media"
	"ytap/internal/player"
)

func track(id string) media.Track {
	return media.Track{
		ID:       id,
		Title:    "Title " + id,
		Duration: 200,
		URL:      "https://cdn.example.com/" + id,
		PageURL:  "https://www.youtube.com/watch?v=" + id,
	}
}

type fakeResolver struct {
	results   []media.Track
	searchErr error
	next      []media.Track // handed out in order by ResolveNext
	nextErr   error
	byURL     map[string]media.Track

	searches    []string
	nextCalls   int
	resolvedURL []string
}

func (f *fakeResolver) Search(_ context.Context, term string, count int) ([]media.Track, error) {
	f.searches = append(f.searches, fmt.Sprintf("%s|%d", term, count))
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if len(f.results) > count {
		return f.results[:count], nil
	}
	return f.results, nil
}

func (f *fakeResolver) ResolveURL(_ context.Context, url string) (media.Track, error) {
	f.resolvedURL = append(f.resolvedURL, url)
	t, ok := f.byURL[url]
	if !ok {
		return media.Track{}, ytaperrors.Wrap(ytaperrors.ErrResolution, nil, "no media at %s", url)
	}
	return t, nil
}

func (f *fakeResolver) ResolveNext(context.Context, media.Track) (media.Track, error) {
	f.nextCalls++
	if f.nextErr != nil {
		return media.Track{}, f.nextErr
	}
	if len(f.next) == 0 {
		return media.Track{}, ytaperrors.Wrap(ytaperrors.ErrResolution, nil, "no autoplay candidate")
	}
	t := f.next[0]
	f.next = f.next[1:]
	return t, nil
}

type fakePlayer struct {
	mu         sync.Mutex
	alive      map[*player.Handle]bool
	started    []media.Track
	terminated []*player.Handle
	sent       []player.Command
	startErr   error
	reply      mo.Option[player.Response]
}

func newFakePlayer() *fakePlayer {
	return &fakePlayer{alive: make(map[*player.Handle]bool), reply: mo.None[player.Response]()}
}

func (f *fakePlayer) Start(t media.Track, _, _ io.Writer) (*player.Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return nil, f.startErr
	}
	for h := range f.alive {
		if f.alive[h] {
			return nil, errors.New("started while another player is alive")
		}
	}
	h := new(player.Handle)
	f.alive[h] = true
	f.started = append(f.started, t)
	return h, nil
}

func (f *fakePlayer) IsAlive(h *player.Handle) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return h != nil && f.alive[h]
}

func (f *fakePlayer) Terminate(h *player.Handle) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if h == nil || !f.alive[h] {
		return false
	}
	f.alive[h] = false
	f.terminated = append(f.terminated, h)
	return true
}

func (f *fakePlayer) SendCommand(h *player.Handle, cmd player.Command) mo.Option[player.Response] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, cmd)
	if h == nil || !f.alive[h] {
		return mo.None[player.Response]()
	}
	return f.reply
}

// exit simulates the player process ending on its own.
func (f *fakePlayer) exit(h *player.Handle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alive[h] = false
}

type fakeConsole struct {
	queries []string
	picks   []int
	menus   []int

	statuses []string
	warnings []string
	failures []string
	dumps    []string
	progress []float64
	pickSeen [][]string
	menuSeen int
}

var errNoInput = errors.New("no scripted input left")

func (c *fakeConsole) Status(format string, args ...any) {
	c.statuses = append(c.statuses, fmt.Sprintf(format, args...))
}
func (c *fakeConsole) Warn(format string, args ...any) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}
func (c *fakeConsole) Fail(format string, args ...any) {
	c.failures = append(c.failures, fmt.Sprintf(format, args...))
}
func (c *fakeConsole) Dump(text string)                    { c.dumps = append(c.dumps, text) }
func (c *fakeConsole) Progress(position, duration float64) { c.progress = append(c.progress, position) }

func (c *fakeConsole) AskQuery() (string, error) {
	if len(c.queries) == 0 {
		return "", errNoInput
	}
	q := c.queries[0]
	c.queries = c.queries[1:]
	return q, nil
}

func (c *fakeConsole) Pick(items []string) (int, error) {
	c.pickSeen = append(c.pickSeen, items)
	if len(c.picks) == 0 {
		return -1, errNoInput
	}
	p := c.picks[0]
	c.picks = c.picks[1:]
	return p, nil
}

func (c *fakeConsole) Menu() (int, error) {
	c.menuSeen++
	if len(c.menus) == 0 {
		return -1, errNoInput
	}
	m := c.menus[0]
	c.menus = c.menus[1:]
	return m, nil
}

type fakeInput struct{ suspends, resumes int }

func (f *fakeInput) Suspend() { f.suspends++ }
func (f *fakeInput) Resume()  { f.resumes++ }

type fakeNotifier struct{ messages []string }

func (f *fakeNotifier) Notify(msg string) { f.messages = append(f.messages, msg) }

type fakeJournal struct{ plays []history.Play }

func (f *fakeJournal) Append(p history.Play) error {
	f.plays = append(f.plays, p)
	return nil
}

type closeRecorder struct {
	io.Writer
	closed int
}

func (c *closeRecorder) Close() error {
	c.closed++
	return nil
}
