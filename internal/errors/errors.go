package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Layers wrap these with fmt.Errorf("...: %w") and callers
// select the handling with errors.Is.
var (
	ErrNetwork       = errors.New("network error")
	ErrResolution    = errors.New("no candidate found")
	ErrProcess       = errors.New("player process error")
	ErrProtocol      = errors.New("control channel error")
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrQuit          = errors.New("quit requested")
)

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Wrap annotates err with a kind so that errors.Is(result, kind) holds
// while the original cause is kept in the message.
func Wrap(kind error, err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if err == nil {
		return fmt.Errorf("%w: %s", kind, msg)
	}
	return fmt.Errorf("%w: %s: %v", kind, msg, err)
}

// YtapError wraps an error with a user-friendly suggestion.
type YtapError struct {
	Err        error
	Suggestion string
}

func (e *YtapError) Error() string {
	return e.Err.Error()
}

func (e *YtapError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &YtapError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var ytapErr *YtapError
	if errors.As(err, &ytapErr) && ytapErr.Suggestion != "" {
		return ytapErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, ErrProcess) || strings.Contains(errStr, "executable file not found") {
		return "Make sure mpv is installed and in your PATH"
	}

	if strings.Contains(errStr, "yt-dlp") {
		return "Make sure yt-dlp is installed and up to date"
	}

	if errors.Is(err, ErrNetwork) || strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection refused") {
		return "Check your internet connection and try again"
	}

	if errors.Is(err, ErrInvalidConfig) {
		return "Check ~/.config/ytap/config.toml"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}
