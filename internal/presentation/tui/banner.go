package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the tendril banner and a subtitle line to w.
func PrintBanner(w io.Writer, subtitle string) {
	out := termenv.NewOutput(w)
	// A green gradient, dark to light.
	lines := []struct {
		text  string
		color string
	}{
		{"  _                 _      _ _ ", "#166534"},
		{" | |_ ___ _ __   __| |_ __(_) |", "#15803d"},
		{" | __/ _ \\ '_ \\ / _` | '__| | |", "#16a34a"},
		{" | ||  __/ | | | (_| | |  | | |", "#22c55e"},
		{"  \\__\\___|_| |_|\\__,_|_|  |_|_|", "#4ade80"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	if subtitle != "" {
		fmt.Fprintln(w, out.String("  "+subtitle).Faint())
	}
	fmt.Fprintln(w)
}

// Rule returns a horizontal separator like the transcript headers.
func Rule() string {
	return "======================================================================"
}
