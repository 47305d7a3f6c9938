package history

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"ytap/internal/filesystem"
)

// TSV columns: id, title, unix time, page url
const numColumns = 4

// Play is one journal line.
type Play struct {
	ID      string
	Title   string
	Time    time.Time
	PageURL string
}

// Journal appends every play to a TSV file so past sessions can be listed.
type Journal struct {
	path string
}

// NewJournal returns a journal stored at path.
func NewJournal(path string) *Journal {
	return &Journal{path: path}
}

// Path returns the journal location.
func (j *Journal) Path() string {
	return j.path
}

// Append writes one play to the end of the journal.
func (j *Journal) Append(p Play) error {
	fs := filesystem.API()

	if err := fs.MkdirAll(filepath.Dir(j.path), 0700); err != nil {
		return fmt.Errorf("creating history dir: %w", err)
	}

	f, err := fs.OpenFile(j.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}

	if _, err := f.WriteString(formatLine(p) + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("writing history: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing history: %w", err)
	}
	return nil
}

// Load reads every play in the journal, oldest first.
func (j *Journal) Load() ([]Play, error) {
	f, err := filesystem.API().Open(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening history: %w", err)
	}
	defer f.Close()

	var plays []Play
	scanner := bufio.NewScanner(f)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		p, err := parseLine(line)
		if err != nil {
			continue // Skip malformed lines
		}
		plays = append(plays, p)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}

	return plays, nil
}

// FormatForDisplay renders plays newest first, e.g. "Song title (3 minutes ago)".
func FormatForDisplay(plays []Play, now time.Time) []string {
	items := make([]string, 0, len(plays))
	for i := len(plays) - 1; i >= 0; i-- {
		p := plays[i]
		title := p.Title
		if title == "" {
			title = p.ID
		}
		items = append(items, fmt.Sprintf("%s (%s)", title, humanize.RelTime(p.Time, now, "ago", "from now")))
	}
	return items
}

// parseLine parses a TSV line into a Play.
func parseLine(line string) (Play, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < numColumns {
		return Play{}, fmt.Errorf("expected %d columns, got %d", numColumns, len(fields))
	}

	unix, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return Play{}, fmt.Errorf("parsing time: %w", err)
	}

	return Play{
		ID:      fields[0],
		Title:   fields[1],
		Time:    time.Unix(unix, 0),
		PageURL: fields[3],
	}, nil
}

// formatLine converts a Play to a TSV line.
func formatLine(p Play) string {
	clean := strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")
	return strings.Join([]string{
		clean.Replace(p.ID),
		clean.Replace(p.Title),
		strconv.FormatInt(p.Time.Unix(), 10),
		clean.Replace(p.PageURL),
	}, "\t")
}
