package ui

import (
	"fmt"
	"math"
	"os"

	"github.com/charmbracelet/bubbles/progress"
	"golang.org/x/term"
)

// barShare is the fraction of the terminal width given to the bar.
const barShare = 0.7

// FormatTime renders seconds as mm:ss, or hh:mm:ss past an hour.
// e.g., 65 -> "01:05", 3725 -> "01:02:05"
func FormatTime(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	t := int(seconds)
	h, m, s := t/3600, (t%3600)/60, t%60
	if t > 3600 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m+h*60, s)
}

// Fraction is how much of a track has played, clamped to [0, 1].
// Live streams report no duration and stay at 0.
func Fraction(position, duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	f := math.Floor(position) / duration
	return math.Max(0, math.Min(1, f))
}

// RenderProgress draws the progress line for a terminal columns wide.
func RenderProgress(position, duration float64, columns int) string {
	width := int(float64(columns) * barShare)
	if width < 10 {
		width = 10
	}

	bar := progress.New(
		progress.WithSolidFill("#7D56F4"),
		progress.WithoutPercentage(),
		progress.WithWidth(width),
	)

	f := Fraction(position, duration)
	return fmt.Sprintf("%s - %s/%s (%d%%)",
		bar.ViewAs(f), FormatTime(position), FormatTime(duration), int(f*100))
}

// terminalWidth returns the width of stdout, 80 when it isn't a terminal.
func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}
