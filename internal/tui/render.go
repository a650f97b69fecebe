package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/metalagman/taskdeck/internal/task"
)

// newRenderer builds a markdown renderer for theme ("auto" probes the
// terminal background).
func newRenderer(theme string, width int) (*glamour.TermRenderer, error) {
	if width <= 0 {
		width = 80
	}
	style := glamour.WithAutoStyle()
	if theme != "" && theme != "auto" {
		style = glamour.WithStandardStyle(theme)
	}
	return glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
}

// taskMarkdown formats a task as a markdown document.
func taskMarkdown(t task.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", t.Title)
	fmt.Fprintf(&b, "| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Status | %s |\n", t.Status)
	fmt.Fprintf(&b, "| Priority | %s |\n", t.Priority)
	fmt.Fprintf(&b, "| Due | %s |\n", t.DueDate)
	if t.AssignedTo != "" {
		fmt.Fprintf(&b, "| Assigned to | %s |\n", t.AssignedTo)
	}
	if len(t.Tags) > 0 {
		fmt.Fprintf(&b, "| Tags | %s |\n", task.FormatTags(t.Tags))
	}
	fmt.Fprintf(&b, "| Created | %s |\n\n", t.CreatedAt.Local().Format("2006-01-02 15:04"))
	if d := strings.TrimSpace(t.Description); d != "" {
		b.WriteString(d)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderTask(t task.Task) string {
	doc := taskMarkdown(t)
	if m.renderer == nil {
		return doc
	}
	out, err := m.renderer.Render(doc)
	if err != nil {
		return doc
	}
	return out
}
