package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"github.com/TornikeK2/Meeting-prep-assistant/internal/model"
)

// briefItem wraps Brief to customize list display.
type briefItem struct {
	model.Brief
}

func (b briefItem) FilterValue() string { return b.MeetingTitle }
func (b briefItem) Title() string {
	indicator := " "
	if b.Priority == model.PriorityHigh {
		indicator = "! "
	}
	return fmt.Sprintf("%s%s", indicator, b.MeetingTitle)
}
func (b briefItem) Description() string {
	return fmt.Sprintf("%s | %s | %d relevant emails",
		trimDate(b.StartTime), b.Priority, b.EmailCount)
}

var footerStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("241")).
	PaddingTop(1)

func briefsFooter() string {
	return footerStyle.Render("enter: open  r: reload  q: quit  !=high priority")
}

func detailFooter() string {
	return footerStyle.Render("esc: back  q: quit")
}

func briefsToItems(briefs []model.Brief) []list.Item {
	items := make([]list.Item, len(briefs))
	for i, b := range briefs {
		items[i] = briefItem{b}
	}
	return items
}
