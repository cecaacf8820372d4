// Package ui provides terminal output styling for the taskpad CLI.
package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mkaraca/taskpad/internal/errsvc"
	"github.com/mkaraca/taskpad/internal/types"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Strikethrough(true)

	priorityStyles = map[types.Priority]lipgloss.Style{
		types.PriorityUrgent: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		types.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		types.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		types.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	}
)

// Title renders a section heading.
func Title(s string) string { return titleStyle.Render(s) }

// Success renders a confirmation line.
func Success(s string) string { return successStyle.Render(s) }

// Muted renders low-emphasis text such as hints and timestamps.
func Muted(s string) string { return mutedStyle.Render(s) }

// ErrorLine renders an error for terminal display.
func ErrorLine(s string) string { return errorStyle.Render(s) }

// TaskRow renders a single task as a checklist line.
func TaskRow(t *types.Task) string {
	box := "[ ]"
	name := t.Name
	if t.IsCompleted {
		box = "[x]"
		name = doneStyle.Render(name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %-4d %s", box, t.ID, name)
	if style, ok := priorityStyles[t.Priority]; ok && t.Priority != types.PriorityMedium {
		b.WriteString(" " + style.Render(string(t.Priority)))
	}
	if t.DueDate != nil {
		b.WriteString(" " + mutedStyle.Render("due "+*t.DueDate))
	}
	return b.String()
}

// ListRow renders a single list with its task count.
func ListRow(l *types.List, taskCount int) string {
	return fmt.Sprintf("%-4d %s %s", l.ID, l.Name, mutedStyle.Render(fmt.Sprintf("(%d tasks)", taskCount)))
}

// ConsoleToaster surfaces error-service toasts on the terminal. It
// satisfies the notification hook the error service expects. Duration
// has no meaning for a scrolling terminal and is ignored.
type ConsoleToaster struct {
	Out io.Writer
}

// Toast writes a styled one-line notification.
func (c *ConsoleToaster) Toast(severity errsvc.Severity, title, message string, _ time.Duration) {
	style := warnStyle
	switch severity {
	case errsvc.SeverityCritical, errsvc.SeverityHigh:
		style = errorStyle
	case errsvc.SeverityLow:
		style = mutedStyle
	}
	fmt.Fprintln(c.Out, style.Render(title+": "+message))
}
