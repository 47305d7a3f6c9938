// Package ui is the operator console: status lines, prompts and the
// playback progress line.
package ui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/charmbracelet/lipgloss"
)

// ErrInterrupt is returned when a prompt is aborted with Ctrl-C.
var ErrInterrupt = terminal.InterruptErr

// MenuChoice is the sentinel answer that opens the menu from a prompt.
const MenuChoice = "-1"

// Menu entries in prompt order.
var menuItems = []string{
	"Terminate program",
	"Terminate player",
	"Return to search",
	"Show debug state",
}

var (
	infoIcon = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).Render("[*]")
	warnIcon = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true).Render("[!]")
	failIcon = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true).Render("[X]")
	faint    = lipgloss.NewStyle().Faint(true)
)

// Console talks to the operator. Lines end in "\r\n" so they render
// correctly while the terminal is in raw mode.
type Console struct {
	in     terminal.FileReader
	out    terminal.FileWriter
	errOut io.Writer
	fzf    bool

	progressShown bool // The cursor sits at the end of a progress line
}

// NewConsole creates a console on the process's standard streams.
// picker is "prompt" or "fzf"; fzf falls back to prompts when missing.
func NewConsole(picker string) *Console {
	return &Console{
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
		fzf:    strings.EqualFold(picker, "fzf") && FzfAvailable(),
	}
}

// endProgress moves past a progress line so it isn't overwritten.
func (c *Console) endProgress() {
	if c.progressShown {
		fmt.Fprint(c.out, "\r\n")
		c.progressShown = false
	}
}

func (c *Console) line(icon, format string, args ...any) {
	c.endProgress()
	fmt.Fprintf(c.out, "%s %s\r\n", icon, fmt.Sprintf(format, args...))
}

// Status prints an informational line.
func (c *Console) Status(format string, args ...any) { c.line(infoIcon, format, args...) }

// Warn prints a recoverable problem.
func (c *Console) Warn(format string, args ...any) { c.line(warnIcon, format, args...) }

// Fail prints an error.
func (c *Console) Fail(format string, args ...any) { c.line(failIcon, format, args...) }

// Dump prints a block of diagnostics.
func (c *Console) Dump(text string) {
	c.endProgress()
	for _, l := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		fmt.Fprintf(c.out, "%s\r\n", faint.Render(l))
	}
}

// Progress redraws the progress line in place.
func (c *Console) Progress(position, duration float64) {
	fmt.Fprintf(c.out, "\r\x1b[2K%s", RenderProgress(position, duration, terminalWidth()))
	c.progressShown = true
}

func (c *Console) ask(p survey.Prompt, answer any, opts ...survey.AskOpt) error {
	c.endProgress()
	opts = append(opts, survey.WithStdio(c.in, c.out, c.errOut))
	return survey.AskOne(p, answer, opts...)
}

// AskQuery prompts for a search term or link. "-1" asks for the menu.
func (c *Console) AskQuery() (string, error) {
	if c.fzf {
		q, err := FzfInput("Search")
		if errors.Is(err, ErrCancelled) {
			return MenuChoice, nil
		}
		return q, err
	}

	var query string
	err := c.ask(&survey.Input{
		Message: "Search:",
		Help:    `Search term, optionally "term|count", a link, or -1 for the menu`,
	}, &query, survey.WithValidator(survey.Required))
	return strings.TrimSpace(query), err
}

// Pick asks for one of items by index. -1 asks for the menu.
func (c *Console) Pick(items []string) (int, error) {
	for i, item := range items {
		c.line(infoIcon, "[%d] %s", i, item)
	}

	if c.fzf {
		idx, err := FzfSelect("Pick", items)
		if errors.Is(err, ErrCancelled) {
			return -1, nil
		}
		return idx, err
	}

	var answer string
	err := c.ask(&survey.Input{
		Message: fmt.Sprintf("Pick (0-%d):", len(items)-1),
	}, &answer, survey.WithValidator(choiceValidator(-1, len(items)-1)))
	if err != nil {
		return -1, err
	}
	return strconv.Atoi(strings.TrimSpace(answer))
}

// Menu presents the session menu and returns the chosen entry.
func (c *Console) Menu() (int, error) {
	c.endProgress()
	for i, item := range menuItems {
		c.line(infoIcon, "%d: %s", i, item)
	}

	var answer string
	err := c.ask(&survey.Input{
		Message: "Select:",
	}, &answer, survey.WithValidator(choiceValidator(0, len(menuItems)-1)))
	if err != nil {
		return -1, err
	}
	return strconv.Atoi(strings.TrimSpace(answer))
}

// choiceValidator accepts integers in [low, high].
func choiceValidator(low, high int) survey.Validator {
	return func(ans interface{}) error {
		s, ok := ans.(string)
		if !ok {
			return fmt.Errorf("expected text, got %T", ans)
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("%q is not a number", s)
		}
		if n < low || n > high {
			return fmt.Errorf("choose between %d and %d", low, high)
		}
		return nil
	}
}
