package app

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// truncate shortens s to at most width terminal cells, ending with an
// ellipsis when anything was cut. Safe on strings carrying ANSI styling.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(ansi.Strip(s)) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

// padRight pads s with spaces to exactly width cells, ignoring ANSI
// styling when measuring.
func padRight(s string, width int) string {
	s = truncate(s, width)
	gap := width - runewidth.StringWidth(ansi.Strip(s))
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}
