// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"todo/internal/service"
)

// EmptyList is printed by list when the store holds no tasks.
const EmptyList = "no tasks found"

// FormatTask formats a task line.
// Format: "{N:>4}  {NAME}\n" (4-wide right-aligned number, two spaces, name)
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s\n", num, normalizeName(task.Name))
}

// FormatTaskWithID is FormatTask followed by the store key.
func FormatTaskWithID(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s  [%s]\n", num, normalizeName(task.Name), task.ID)
}

// normalizeName normalizes a task name for display.
// - Empty or whitespace-only names become "(untitled)"
// - Newlines are replaced with spaces
func normalizeName(name string) string {
	name = strings.ReplaceAll(name, "\r", " ")
	name = strings.ReplaceAll(name, "\n", " ")

	if strings.TrimSpace(name) == "" {
		return "(untitled)"
	}
	return name
}
