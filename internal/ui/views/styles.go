package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title        lipgloss.Style
	Header       lipgloss.Style
	HeaderActive lipgloss.Style
	SortMarker   lipgloss.Style
	SortHint     lipgloss.Style
	Row          lipgloss.Style
	RowSelected  lipgloss.Style
	Status       lipgloss.Style
	StatusError  lipgloss.Style
	Dim          lipgloss.Style
	Help         lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")),
		HeaderActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("226")),
		SortMarker: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		SortHint:   lipgloss.NewStyle().Faint(true),
		Row:        lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		RowSelected: lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.Color("238")),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1),
		StatusError: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Dim:         lipgloss.NewStyle().Faint(true),
		Help:        lipgloss.NewStyle().Faint(true),
	}
}
