package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lrstanley/go-ytdlp"
	"github.com/samber/lo"

	ytaperrors "ytap/internal/errors"
	"ytap/internal/httputil"
	"ytap/internal/log"
	"ytap/internal/media"
)

// ytdlpExtractor simulates extraction and returns the single JSON document
// yt-dlp prints for target.
func ytdlpExtractor(video bool, cookieFile string) Extractor {
	format := "bestaudio/best"
	if video {
		format = "bestvideo+bestaudio"
	}

	return func(ctx context.Context, target string) ([]byte, error) {
		cmd := ytdlp.New().
			DumpSingleJSON().
			Format(format).
			NoWarnings().
			IgnoreConfig()
		if cookieFile != "" {
			cmd.Cookies(cookieFile)
		}

		res, err := cmd.Run(ctx, target)
		if err != nil {
			return nil, fmt.Errorf("yt-dlp %s: %w", target, err)
		}
		return []byte(res.Stdout), nil
	}
}

// info is the subset of yt-dlp's info dictionary ytap reads.
type info struct {
	Type       string   `json:"_type"`
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Duration   float64  `json:"duration"`
	WebpageURL string   `json:"webpage_url"`
	Uploader   string   `json:"uploader"`
	Thumbnail  string   `json:"thumbnail"`
	ViewCount  int64    `json:"view_count"`
	FormatID   string   `json:"format_id"`
	URL        string   `json:"url"`
	Formats    []format `json:"formats"`
	Entries    []info   `json:"entries"`
}

type format struct {
	FormatID string  `json:"format_id"`
	URL      string  `json:"url"`
	VCodec   string  `json:"vcodec"`
	ACodec   string  `json:"acodec"`
	TBR      float64 `json:"tbr"`
}

func (i info) track() media.Track {
	page := i.WebpageURL
	if page == "" && i.ID != "" {
		page = httputil.WatchURL(i.ID)
	}
	return media.Track{
		ID:       i.ID,
		Title:    i.Title,
		Duration: max(i.Duration, 0),
		Streams: lo.Map(i.Formats, func(f format, _ int) media.Stream {
			return media.Stream{
				FormatID: f.FormatID,
				URL:      f.URL,
				Kind:     media.KindOf(f.VCodec, f.ACodec),
				Bitrate:  f.TBR,
			}
		}),
		FormatID:  i.FormatID,
		URL:       i.URL,
		PageURL:   page,
		Uploader:  i.Uploader,
		Thumbnail: i.Thumbnail,
		Views:     i.ViewCount,
	}
}

func decodeInfo(data []byte) (info, error) {
	var i info
	if err := json.Unmarshal(data, &i); err != nil {
		return info{}, ytaperrors.Wrap(ytaperrors.ErrResolution, err, "decoding extractor output")
	}
	return i, nil
}

// Search runs a "ytsearch<count>:<term>" query.
func (y *YouTube) Search(ctx context.Context, term string, count int) ([]media.Track, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}
	if count < 1 {
		count = DefaultCount
	}

	data, err := y.extract(ctx, fmt.Sprintf("ytsearch%d:%s", count, term))
	if err != nil {
		return nil, ytaperrors.Wrap(ytaperrors.ErrNetwork, err, "searching for %q", term)
	}

	result, err := decodeInfo(data)
	if err != nil {
		return nil, err
	}

	entries := lo.Filter(result.Entries, func(e info, _ int) bool { return e.ID != "" })
	tracks := lo.Map(entries, func(e info, _ int) media.Track { return e.track() })
	if len(tracks) > count {
		tracks = tracks[:count]
	}

	for i, t := range tracks {
		log.WithField("index", i).Debugf("result %q %s (%.0fs, %d views)", t.Title, t.PageURL, t.Duration, t.Views)
	}
	return tracks, nil
}

// ResolveURL extracts a single page.
func (y *YouTube) ResolveURL(ctx context.Context, url string) (media.Track, error) {
	if err := httputil.ValidateURL(url); err != nil {
		return media.Track{}, ytaperrors.Wrap(ytaperrors.ErrResolution, err, "resolving %s", url)
	}

	data, err := y.extract(ctx, url)
	if err != nil {
		return media.Track{}, ytaperrors.Wrap(ytaperrors.ErrNetwork, err, "resolving %s", url)
	}

	i, err := decodeInfo(data)
	if err != nil {
		return media.Track{}, err
	}
	if i.ID == "" {
		return media.Track{}, ytaperrors.Wrap(ytaperrors.ErrResolution, nil, "no media at %s", url)
	}
	return i.track(), nil
}
