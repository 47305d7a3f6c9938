package player

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/samber/lo"

	ytaperrors "ytap/internal/errors"
	"ytap/internal/media"
)

// ArgOptions are the invocation settings that don't depend on the track.
type ArgOptions struct {
	SocketPath string
	Video      bool
}

// Selection is the stream pair handed to the player.
type Selection struct {
	Primary string // Played directly
	Audio   string // Separate audio track, empty when Primary is muxed or audio only
	Kind    media.StreamKind
}

// SelectStreams picks what to play. The extractor's own pick wins: a single
// format plays directly and a "video+audio" pair is split and looked up in
// the track's streams. Without a pick the best muxed stream is used, then a
// best video/audio pair, then the best audio stream.
func SelectStreams(t media.Track) (Selection, error) {
	if video, audio, ok := strings.Cut(t.FormatID, "+"); ok {
		v, vok := t.StreamByFormat(video)
		a, aok := t.StreamByFormat(audio)
		if !vok || !aok || v.URL == "" || a.URL == "" {
			return Selection{}, ytaperrors.Wrap(ytaperrors.ErrResolution, nil,
				"format pair %q not found among %d streams of %s", t.FormatID, len(t.Streams), t.ID)
		}
		return Selection{Primary: v.URL, Audio: a.URL, Kind: media.Video}, nil
	}

	if t.URL != "" {
		kind := media.Muxed
		if s, ok := t.StreamByFormat(t.FormatID); ok {
			kind = s.Kind
		}
		return Selection{Primary: t.URL, Kind: kind}, nil
	}

	if s, ok := t.StreamByFormat(t.FormatID); ok && s.URL != "" {
		return Selection{Primary: s.URL, Kind: s.Kind}, nil
	}

	if s, ok := best(t.Streams, media.Muxed); ok {
		return Selection{Primary: s.URL, Kind: media.Muxed}, nil
	}

	a, aok := best(t.Streams, media.Audio)
	if v, ok := best(t.Streams, media.Video); ok && aok {
		return Selection{Primary: v.URL, Audio: a.URL, Kind: media.Video}, nil
	}
	if aok {
		return Selection{Primary: a.URL, Kind: media.Audio}, nil
	}

	return Selection{}, ytaperrors.Wrap(ytaperrors.ErrResolution, nil, "no playable stream for %s", t.ID)
}

// best returns the highest bitrate stream of a kind.
func best(streams []media.Stream, kind media.StreamKind) (media.Stream, bool) {
	candidates := lo.Filter(streams, func(s media.Stream, _ int) bool {
		return s.Kind == kind && s.URL != ""
	})
	if len(candidates) == 0 {
		return media.Stream{}, false
	}
	return lo.MaxBy(candidates, func(a, b media.Stream) bool {
		return a.Bitrate > b.Bitrate
	}), true
}

// BuildArgs returns the player argument vector (without the binary):
// one or two stream URLs followed by the control-channel endpoint.
func BuildArgs(t media.Track, opts ArgOptions) ([]string, error) {
	sel, err := SelectStreams(t)
	if err != nil {
		return nil, err
	}

	primary, err := sanitizeMediaTarget(sel.Primary)
	if err != nil {
		return nil, ytaperrors.Wrap(ytaperrors.ErrResolution, err, "stream of %s", t.ID)
	}
	args := []string{primary}

	if sel.Audio != "" {
		audio, err := sanitizeMediaTarget(sel.Audio)
		if err != nil {
			return nil, ytaperrors.Wrap(ytaperrors.ErrResolution, err, "audio stream of %s", t.ID)
		}
		args = append(args, "--audio-file="+audio)
	}

	args = append(args, "--input-ipc-server="+opts.SocketPath)

	if title := mediaTitle(t); title != "" {
		args = append(args, "--force-media-title="+title)
	}

	if !opts.Video && sel.Kind != media.Audio {
		args = append(args, "--no-video")
	}

	return args, nil
}

// mediaTitle flattens control characters out of the display title.
func mediaTitle(t media.Track) string {
	title := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return ' '
		}
		return r
	}, t.Title)
	return strings.TrimSpace(title)
}

// sanitizeMediaTarget rejects anything mpv could read as a flag or a
// non-network source.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}
	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-'")
	}

	u, err := url.Parse(l)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return l, nil
	default:
		return "", fmt.Errorf("unsupported URL scheme: %q", u.Scheme)
	}
}
