package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to an interactive terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// PrintBanner writes the wayfarer ASCII banner with a warm sunset gradient.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text, color string
	}{
		{` __      __               __`, "#f59e0b"},
		{`/  \    /  \_____  ___.__/ _| ____  _______`, "#f97316"},
		{`\   \/\/   /\__  \<   |  \   __\__  \\_  __ \___`, "#ef4444"},
		{` \        /  / __ \\___  ||  |  / __ \|  | \/ __/`, "#ec4899"},
		{`  \__/\  /  (____  / ____||__| (____  /__|  \___ >`, "#d946ef"},
		{`       \/        \/\/                \/          \/`, "#a855f7"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, p.String("  trip planner "+version).Faint())
	fmt.Fprintln(w)
}

// ProgressBar draws a fixed-width bar for a percentage in [0, 100].
func ProgressBar(percent, width int) string {
	percent = max(0, min(percent, 100))
	filled := percent * width / 100

	p := termenv.ColorProfile()
	bar := p.String(strings.Repeat("█", filled)).Foreground(p.Color("#f97316")).String() +
		p.String(strings.Repeat("░", width-filled)).Faint().String()
	return fmt.Sprintf("%s %3d%%", bar, percent)
}
