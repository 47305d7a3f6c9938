// Package resolver turns search terms and links into playable tracks and
// picks the track to autoplay after the current one.
package resolver

import (
	"context"

	"github.com/samber/lo"
	"github.com/samber/mo"

	"ytap/internal/httputil"
	"ytap/internal/media"
)

// Resolver is what the playback session needs from a media source.
type Resolver interface {
	// Search returns up to count ranked results. No results is not an error.
	Search(ctx context.Context, term string, count int) ([]media.Track, error)

	// ResolveURL extracts the track behind a page URL.
	ResolveURL(ctx context.Context, url string) (media.Track, error)

	// ResolveNext picks and resolves the track to play after current.
	ResolveNext(ctx context.Context, current media.Track) (media.Track, error)
}

// History answers whether a track id was played in this session.
type History interface {
	WasPlayed(id string) (bool, mo.Option[media.HistoryEntry])
}

// Extractor runs the extraction tool on a target (a URL or a
// "ytsearchN:term" query) and returns its JSON document.
type Extractor func(ctx context.Context, target string) ([]byte, error)

// PageFetcher downloads a page body.
type PageFetcher func(ctx context.Context, url string) ([]byte, error)

// Options configures a YouTube resolver.
type Options struct {
	Video      bool    // Select video formats as well as audio
	CookieFile string  // Cookie jar shared by every extractor run
	History    History // Consulted when choosing the autoplay track

	// Overrides for tests. Nil means yt-dlp and the hardened HTTP client.
	Extract Extractor
	Fetch   PageFetcher
	Choose  func([]string) string
}

// YouTube resolves through yt-dlp and scrapes watch pages for autoplay.
type YouTube struct {
	extract Extractor
	fetch   PageFetcher
	choose  func([]string) string
	history History
}

var _ Resolver = (*YouTube)(nil)

// NewYouTube creates a resolver.
func NewYouTube(opts Options) *YouTube {
	y := &YouTube{
		extract: opts.Extract,
		fetch:   opts.Fetch,
		choose:  opts.Choose,
		history: opts.History,
	}
	if y.extract == nil {
		y.extract = ytdlpExtractor(opts.Video, opts.CookieFile)
	}
	if y.fetch == nil {
		client := httputil.NewClient()
		y.fetch = func(ctx context.Context, url string) ([]byte, error) {
			return httputil.GetPage(ctx, client, url)
		}
	}
	if y.choose == nil {
		y.choose = lo.Sample[string]
	}
	if y.history == nil {
		y.history = noHistory{}
	}
	return y
}

type noHistory struct{}

func (noHistory) WasPlayed(string) (bool, mo.Option[media.HistoryEntry]) {
	return false, mo.None[media.HistoryEntry]()
}
