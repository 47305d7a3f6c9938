// Package media defines shared types for the ytap application.
package media

import (
	"fmt"
	"time"
)

// StreamKind describes what a stream carries.
type StreamKind int

const (
	Muxed StreamKind = iota
	Audio
	Video
)

func (k StreamKind) String() string {
	switch k {
	case Muxed:
		return "muxed"
	case Audio:
		return "audio"
	case Video:
		return "video"
	default:
		return "unknown"
	}
}

// KindOf classifies a stream from the codecs reported by the extractor.
// Extractors report a missing codec as "none".
func KindOf(vcodec, acodec string) StreamKind {
	hasVideo := vcodec != "" && vcodec != "none"
	hasAudio := acodec != "" && acodec != "none"
	switch {
	case hasVideo && !hasAudio:
		return Video
	case hasAudio && !hasVideo:
		return Audio
	default:
		return Muxed
	}
}

// Stream is one encoded representation of a track.
type Stream struct {
	FormatID string     // Extractor format id, e.g. "251"
	URL      string     // Direct media URL
	Kind     StreamKind // Audio, video or both
	Bitrate  float64    // Total bitrate in kbit/s, 0 when unknown
}

// Track is a resolved, playable unit of media.
type Track struct {
	ID        string   // Stable per source, e.g. the 11 character video id
	Title     string   // Display title
	Duration  float64  // Seconds
	Streams   []Stream // Every format the extractor returned
	FormatID  string   // Format selection picked by the extractor, e.g. "137+140"
	URL       string   // Direct URL of the picked format when it is a single format
	PageURL   string   // Source page
	Uploader  string
	Thumbnail string
	Views     int64
}

// StreamByFormat looks up a stream by its format id.
func (t Track) StreamByFormat(id string) (Stream, bool) {
	for _, s := range t.Streams {
		if s.FormatID == id {
			return s, true
		}
	}
	return Stream{}, false
}

func (t Track) String() string {
	if t.Title == "" {
		return t.ID
	}
	return fmt.Sprintf("%s (%s)", t.Title, t.ID)
}

// HistoryEntry is one play-start in the history ledger.
type HistoryEntry struct {
	ID    string    // Track identifier
	Index int       // Position in the ledger
	Time  time.Time // When playback started
}
