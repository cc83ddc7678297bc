// Package ui renders run results for a terminal.
package ui

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	ColorAccent  = lipgloss.Color("#2CD7C7")
	ColorPrimary = lipgloss.Color("#20B9B4")
	ColorBorder  = lipgloss.Color("#16858E")
	ColorMuted   = lipgloss.Color("#2C4A54")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
)

// Styles are bound to one renderer so colour follows the output, not os.Stdout.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Bold     lipgloss.Style
	Muted    lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Chosen   lipgloss.Style
	Header   lipgloss.Style
	Cell     lipgloss.Style
	Box      lipgloss.Style
	KPIName  lipgloss.Style
	KPIValue lipgloss.Style
}

// NewStyles builds the style set for r.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Title:    r.NewStyle().Bold(true).Foreground(ColorAccent),
		Subtitle: r.NewStyle().Foreground(ColorPrimary),
		Bold:     r.NewStyle().Bold(true),
		Muted:    r.NewStyle().Foreground(ColorMuted),
		Warning:  r.NewStyle().Foreground(ColorWarning),
		Error:    r.NewStyle().Foreground(ColorError).Bold(true),
		Chosen:   r.NewStyle().Foreground(ColorAccent).Bold(true).Padding(0, 1),
		Header:   r.NewStyle().Foreground(ColorPrimary).Bold(true).Padding(0, 1),
		Cell:     r.NewStyle().Padding(0, 1),
		Box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1),
		KPIName:  r.NewStyle().Foreground(ColorMuted),
		KPIValue: r.NewStyle().Bold(true),
	}
}
