package ui

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ErrCancelled is returned when the user backs out of fzf.
var ErrCancelled = errors.New("selection cancelled")

// FzfAvailable reports whether fzf is in PATH.
func FzfAvailable() bool {
	_, err := exec.LookPath("fzf")
	return err == nil
}

// FzfSelect presents items via fzf and returns the selected item's index.
// Items are passed as plain text via stdin. No --preview or shell-evaluated strings.
func FzfSelect(prompt string, items []string) (int, error) {
	if len(items) == 0 {
		return -1, fmt.Errorf("no items to select from")
	}

	fzfPath, err := exec.LookPath("fzf")
	if err != nil {
		return -1, fmt.Errorf("fzf not found in PATH: %w", err)
	}

	// Numbered lines keep index extraction reliable with duplicate titles.
	var input strings.Builder
	for i, item := range items {
		fmt.Fprintf(&input, "%d\t%s\n", i, flatten(item))
	}

	cmd := exec.Command(fzfPath,
		"--prompt", prompt+" > ",
		"--height", "40%",
		"--reverse",
		"--with-nth", "2..",
		"--delimiter", "\t",
		"--no-multi",
		"--cycle",
	)

	cmd.Stdin = strings.NewReader(input.String())
	cmd.Stderr = os.Stderr

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && (exitErr.ExitCode() == 130 || exitErr.ExitCode() == 1) {
			return -1, ErrCancelled
		}
		return -1, fmt.Errorf("fzf failed: %w", err)
	}

	return parseSelection(stdout.String(), len(items))
}

// parseSelection reads the index field of an fzf output line.
func parseSelection(out string, n int) (int, error) {
	selected := strings.TrimSpace(out)
	if selected == "" {
		return -1, ErrCancelled
	}

	field, _, _ := strings.Cut(selected, "\t")

	var idx int
	if _, err := fmt.Sscanf(field, "%d", &idx); err != nil {
		return -1, fmt.Errorf("parsing selection index: %w", err)
	}
	if idx < 0 || idx >= n {
		return -1, fmt.Errorf("selection index %d out of range", idx)
	}
	return idx, nil
}

// FzfInput prompts for free text via fzf's --print-query.
func FzfInput(prompt string) (string, error) {
	fzfPath, err := exec.LookPath("fzf")
	if err != nil {
		return "", fmt.Errorf("fzf not found in PATH: %w", err)
	}

	cmd := exec.Command(fzfPath,
		"--prompt", prompt+" > ",
		"--height", "10%",
		"--reverse",
		"--print-query",
		"--no-info",
	)

	cmd.Stdin = strings.NewReader("")
	cmd.Stderr = os.Stderr

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	// fzf exits 1 when using --print-query with no match, which is expected
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 130 {
			return "", ErrCancelled
		}
	}

	query, _, _ := strings.Cut(stdout.String(), "\n")
	return strings.TrimSpace(query), nil
}

func flatten(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' || r == '\r' {
			return ' '
		}
		return r
	}, s)
}
