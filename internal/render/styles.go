// Package render prints build plans and the classification table for humans.
// Machine consumers read the JSON or YAML form instead.
package render

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	Primary = lipgloss.Color("#101F38") // Dark Blue
	Success = lipgloss.Color("#8BC34A") // Lime Green
	Warning = lipgloss.Color("#FFC107") // Yellow
	Info    = lipgloss.Color("#2196F3") // Blue
	Muted   = lipgloss.Color("#6b7685")
	Border  = lipgloss.Color("#2a3850")
)

// Styles are bound to one output's color profile, so plain writers such as
// files and pipes get unstyled text.
type Styles struct {
	Title    lipgloss.Style
	Label    lipgloss.Style
	Enabled  lipgloss.Style
	Disabled lipgloss.Style
	Warning  lipgloss.Style
	Header   lipgloss.Style
	Cell     lipgloss.Style
	Border   lipgloss.Style
}

// NewStyles builds the styles for w.
func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		Title:    r.NewStyle().Bold(true).Foreground(Info),
		Label:    r.NewStyle().Foreground(Muted),
		Enabled:  r.NewStyle().Bold(true).Foreground(Success),
		Disabled: r.NewStyle().Foreground(Muted),
		Warning:  r.NewStyle().Foreground(Warning),
		Header:   r.NewStyle().Bold(true).Foreground(Info).Background(Primary).Padding(0, 1),
		Cell:     r.NewStyle().Padding(0, 1),
		Border:   r.NewStyle().Foreground(Border),
	}
}
