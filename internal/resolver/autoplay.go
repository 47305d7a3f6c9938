package resolver

import (
	"bytes"
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"

	ytaperrors "ytap/internal/errors"
	"ytap/internal/httputil"
	"ytap/internal/log"
	"ytap/internal/media"
)

var (
	// watchRef matches every watch link in a page. Inside embedded JSON
	// the id ends at the escape backslash of "\u0026".
	watchRef = regexp.MustCompile(`/watch\?v=([^&"\\]+)`)

	secondaryRef = regexp.MustCompile(`^/watch\?v=([^&"]+)`)
)

// Candidates is what a watch page offers as the next track.
type Candidates struct {
	Primary  string   // Site-designated autoplay id, empty when absent
	Fallback []string // Every other watch id on the page, deduplicated
}

// ParseCandidates extracts autoplay candidates from a watch page.
func ParseCandidates(page []byte) Candidates {
	var c Candidates

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		log.Debugf("parsing watch page: %v", err)
	}

	var ids []string
	if doc != nil {
		if href, ok := doc.Find("[data-secondary-video-url]").First().Attr("data-secondary-video-url"); ok {
			if m := secondaryRef.FindStringSubmatch(href); m != nil {
				c.Primary = m[1]
			}
		}

		doc.Find(`a[href*="/watch?v="]`).Each(func(_ int, s *goquery.Selection) {
			href, _ := s.Attr("href")
			if m := watchRef.FindStringSubmatch(href); m != nil {
				ids = append(ids, m[1])
			}
		})
	}

	for _, m := range watchRef.FindAllSubmatch(page, -1) {
		ids = append(ids, string(m[1]))
	}

	c.Fallback = lo.Uniq(lo.Filter(ids, func(id string, _ int) bool {
		return httputil.ValidateID(id) == nil
	}))
	if httputil.ValidateID(c.Primary) != nil {
		c.Primary = ""
	}
	return c
}

// chooseNext applies the autoplay rule. The primary wins unless it is
// absent or already played, then a fallback other than the primary is
// drawn at random. Only the primary is checked against history. A played
// primary with nothing else on the page is replayed.
func (y *YouTube) chooseNext(c Candidates) (string, bool) {
	if c.Primary != "" {
		if played, _ := y.history.WasPlayed(c.Primary); !played {
			return c.Primary, true
		}
	}

	if rest := lo.Without(c.Fallback, c.Primary); len(rest) > 0 {
		return y.choose(rest), true
	}
	if c.Primary != "" {
		return c.Primary, true
	}
	return "", false
}

// ResolveNext fetches current's page, picks a candidate and resolves it.
func (y *YouTube) ResolveNext(ctx context.Context, current media.Track) (media.Track, error) {
	page := strings.TrimSpace(current.PageURL)
	if page == "" {
		page = httputil.WatchURL(current.ID)
	}

	body, err := y.fetch(ctx, page)
	if err != nil {
		return media.Track{}, ytaperrors.Wrap(ytaperrors.ErrNetwork, err, "fetching %s", page)
	}

	c := ParseCandidates(body)
	log.Debugf("autoplay candidates for %s: primary=%q fallback=%d", current.ID, c.Primary, len(c.Fallback))

	id, ok := y.chooseNext(c)
	if !ok {
		return media.Track{}, ytaperrors.Wrap(ytaperrors.ErrResolution, nil, "no autoplay candidate on %s", page)
	}

	next := httputil.WatchURL(id)
	log.Infof("Fetching next url: %s", next)
	return y.ResolveURL(ctx, next)
}
