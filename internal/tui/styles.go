package tui

import "github.com/charmbracelet/lipgloss"

// Styles groups the lipgloss styles used by the views.
type Styles struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	Row      lipgloss.Style
	Cursor   lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Label    lipgloss.Style
	Focused  lipgloss.Style
	Box      lipgloss.Style
	Priority map[string]lipgloss.Style
	Status   map[string]lipgloss.Style
}

// NewStyles returns the default palette.
func NewStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Header:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Row:     lipgloss.NewStyle().PaddingLeft(2),
		Cursor:  lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Label:   lipgloss.NewStyle().Width(12).Foreground(lipgloss.Color("245")),
		Focused: lipgloss.NewStyle().Width(12).Foreground(lipgloss.Color("212")).Bold(true),
		Box:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1),
		Priority: map[string]lipgloss.Style{
			"low":    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			"medium": lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			"high":   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		},
		Status: map[string]lipgloss.Style{
			"todo":        lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			"in-progress": lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
			"done":        lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Strikethrough(true),
		},
	}
}
