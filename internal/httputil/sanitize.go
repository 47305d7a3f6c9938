package httputil

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// watchBase is the canonical page for a video id.
const watchBase = "https://www.youtube.com/watch?v="

// validIDPattern matches YouTube video ids.
var validIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ValidateURL checks that a URL is well-formed and uses HTTPS.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("malformed URL: %w", err)
	}
	if u.Scheme != "https" {
		return fmt.Errorf("only HTTPS URLs are allowed, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL has no host")
	}
	return nil
}

// ValidateID checks that a video id contains only safe characters.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("ID cannot be empty")
	}
	if !validIDPattern.MatchString(id) {
		return fmt.Errorf("ID contains invalid characters: %q", id)
	}
	return nil
}

// WatchURL builds the page URL of a video id.
func WatchURL(id string) string {
	return watchBase + url.QueryEscape(id)
}

// IsURL reports whether input looks like a link rather than a search term.
func IsURL(input string) bool {
	s := strings.TrimSpace(input)
	return strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://")
}

// VideoID extracts the video id from a watch or short link.
// e.g., "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=1" -> "dQw4w9WgXcQ"
func VideoID(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("malformed URL: %w", err)
	}

	id := u.Query().Get("v")
	if id == "" && strings.HasSuffix(u.Host, "youtu.be") {
		id = strings.TrimPrefix(u.Path, "/")
	}

	if err := ValidateID(id); err != nil {
		return "", err
	}
	return id, nil
}
