package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

const (
	successColorConstant = "2"
	failureColorConstant = "1"
	bannerTextColor      = "15"
	dimColorConstant     = "8"
)

type fileDescriptor interface {
	Fd() uintptr
}

// IsTerminal reports whether the writer is an interactive terminal.
func IsTerminal(writer io.Writer) bool {
	descriptor, ok := writer.(fileDescriptor)
	if !ok {
		return false
	}
	return isatty.IsTerminal(descriptor.Fd()) || isatty.IsCygwinTerminal(descriptor.Fd())
}

// palette renders console text, styling it only when enabled.
type palette struct {
	enabled       bool
	successBanner lipgloss.Style
	failureBanner lipgloss.Style
	failure       lipgloss.Style
	dim           lipgloss.Style
}

func newPalette(enabled bool) palette {
	return palette{
		enabled: enabled,
		successBanner: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(bannerTextColor)).
			Background(lipgloss.Color(successColorConstant)),
		failureBanner: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(bannerTextColor)).
			Background(lipgloss.Color(failureColorConstant)),
		failure: lipgloss.NewStyle().Foreground(lipgloss.Color(failureColorConstant)),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color(dimColorConstant)),
	}
}

func (palette palette) render(style lipgloss.Style, text string) string {
	if !palette.enabled {
		return text
	}
	return style.Render(text)
}
