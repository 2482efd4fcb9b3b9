package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
)

// colorEnabled reports whether w is a colour terminal and NO_COLOR is unset.
func colorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}
	return termenv.NewOutput(f).ColorProfile() != termenv.Ascii
}

// styles holds the text styles for one output stream.
type styles struct {
	decisive lipgloss.Style
	muted    lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	if colorEnabled(w) {
		pterm.EnableStyling()
	} else {
		r.SetColorProfile(termenv.Ascii)
		pterm.DisableStyling()
	}
	return styles{
		decisive: r.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "42"}),
		muted:    r.NewStyle().Foreground(lipgloss.Color("240")),
	}
}
