// Package styles provides the lipgloss styles used by convtodo's terminal
// output.
package styles

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Palette defines a minimal semantic palette.
type Palette struct {
	Primary lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

// DefaultPalette is the tokyo-night palette.
var DefaultPalette = Palette{
	Primary: lipgloss.Color("#7aa2f7"),
	Muted:   lipgloss.Color("#565f89"),
	Success: lipgloss.Color("#9ece6a"),
	Warning: lipgloss.Color("#e0af68"),
	Error:   lipgloss.Color("#f7768e"),
}

// Styles holds the rendered styles bound to one output.
type Styles struct {
	Header  lipgloss.Style
	Muted   lipgloss.Style
	GUID    lipgloss.Style
	Open    lipgloss.Style
	Done    lipgloss.Style
	Failed  lipgloss.Style
	Other   lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
}

// New builds styles for w. When color is false every style renders plain
// text.
func New(w io.Writer, color bool) *Styles {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}

	p := DefaultPalette
	return &Styles{
		Header:  r.NewStyle().Bold(true).Foreground(p.Primary),
		Muted:   r.NewStyle().Foreground(p.Muted),
		GUID:    r.NewStyle().Bold(true),
		Open:    r.NewStyle().Foreground(p.Primary),
		Done:    r.NewStyle().Foreground(p.Success),
		Failed:  r.NewStyle().Foreground(p.Error),
		Other:   r.NewStyle().Foreground(p.Warning),
		Error:   r.NewStyle().Bold(true).Foreground(p.Error),
		Success: r.NewStyle().Foreground(p.Success),
	}
}

// Status returns the style for a todo status. Matching is case-insensitive
// for the well-known statuses; anything else uses the warning color.
func (s *Styles) Status(status string) lipgloss.Style {
	switch strings.ToLower(status) {
	case "open":
		return s.Open
	case "done":
		return s.Done
	case "failed":
		return s.Failed
	default:
		return s.Other
	}
}

// UseColor resolves a color mode ("auto", "always", "never") for f.
// Auto enables color only when f is a terminal and NO_COLOR is unset.
func UseColor(mode string, f *os.File) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return f != nil && term.IsTerminal(int(f.Fd()))
}
