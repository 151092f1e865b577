package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// RemoveFunc receives the position of a row whose delete was triggered.
type RemoveFunc func(position int) tea.Cmd

// Row renders one task and its delete trigger. It holds no state of its
// own beyond what it was built with.
type Row struct {
	Text     string
	Position int
	onRemove RemoveFunc
}

// NewRow builds a row for the task text at position.
func NewRow(text string, position int, onRemove RemoveFunc) Row {
	return Row{Text: text, Position: position, onRemove: onRemove}
}

// Activate triggers deletion; there is no confirmation step.
func (r Row) Activate() tea.Cmd {
	if r.onRemove == nil {
		return nil
	}
	return r.onRemove(r.Position)
}

// View renders the row.
func (r Row) View(selected bool) string {
	line := fmt.Sprintf("%4d  %s", r.Position+1, displayText(r.Text))
	if selected {
		return selectedStyle.Render(line + "  [x]")
	}
	return line + "  " + faintStyle.Render("[x]")
}

// displayText keeps a row on one line.
func displayText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	if strings.TrimSpace(text) == "" {
		return "(untitled)"
	}
	return text
}
