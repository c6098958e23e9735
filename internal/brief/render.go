package brief

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/TornikeK2/Meeting-prep-assistant/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	highStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

// Render formats a brief for terminal display.
func Render(b model.Brief) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(b.MeetingTitle))
	sb.WriteString("\n")

	priority := string(b.Priority)
	if b.Priority == model.PriorityHigh {
		priority = highStyle.Render(priority)
	}
	sb.WriteString(metaStyle.Render(fmt.Sprintf("%s | ", b.StartTime.Format("Mon Jan 2, 15:04"))))
	sb.WriteString(priority)
	sb.WriteString(metaStyle.Render(fmt.Sprintf(" | %d relevant emails", b.EmailCount)))
	sb.WriteString("\n\n")
	sb.WriteString(b.Summary)

	return borderStyle.Render(sb.String())
}
