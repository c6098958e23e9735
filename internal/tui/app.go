package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/TornikeK2/Meeting-prep-assistant/internal/model"
)

type viewState int

const (
	viewLoading viewState = iota
	viewBriefs            // main briefs list
	viewDetail            // single brief summary
)

// BriefStore is the read side of brief persistence the browser needs.
type BriefStore interface {
	ListBriefs(ctx context.Context) ([]model.Brief, error)
	GetBrief(ctx context.Context, id string) (model.Brief, error)
}

type AppModel struct {
	store  BriefStore
	Err    error
	status string

	// View state machine
	view     viewState
	briefs   []model.Brief
	selected *model.Brief

	// Sub-models
	briefsList     list.Model
	detailViewport viewport.Model

	// Layout
	width, height int
}

type briefsLoadedMsg struct {
	briefs []model.Brief
	err    error
}

type briefFetchedMsg struct {
	brief model.Brief
	err   error
}

type statusMsg string

func NewAppModel(store BriefStore) AppModel {
	bl := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	// Remove esc from the list's built-in Quit binding so it doesn't exit on home
	bl.KeyMap.Quit.SetKeys("q")

	return AppModel{
		store:          store,
		status:         "Loading briefs...",
		view:           viewLoading,
		briefsList:     bl,
		detailViewport: viewport.New(0, 0),
	}
}

func (m *AppModel) Init() tea.Cmd {
	return m.loadBriefsCmd()
}

func (m *AppModel) loadBriefsCmd() tea.Cmd {
	return func() tea.Msg {
		briefs, err := m.store.ListBriefs(context.Background())
		return briefsLoadedMsg{briefs: briefs, err: err}
	}
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.briefsList.SetSize(msg.Width, msg.Height-4) // room for footer
		m.detailViewport.Width = msg.Width
		m.detailViewport.Height = msg.Height - 6 // room for header + footer
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case briefsLoadedMsg:
		if msg.err != nil {
			m.Err = msg.err
			m.status = "Failed to load briefs!"
			return m, tea.Quit
		}
		m.briefs = msg.briefs
		m.briefsList.SetItems(briefsToItems(m.briefs))
		m.briefsList.Title = fmt.Sprintf("Meeting Briefs (%d)", len(m.briefs))
		m.view = viewBriefs
		m.status = ""
		return m, nil

	case briefFetchedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Failed to load brief: %v", msg.err)
			return m, nil
		}
		b := msg.brief
		m.selected = &b
		m.detailViewport.SetContent(detailHeader(b) + "\n\n" + b.Summary)
		m.detailViewport.GotoTop()
		m.view = viewDetail
		m.status = ""
		return m, nil

	case statusMsg:
		if string(msg) == "" {
			m.status = ""
		}
		return m, nil
	}

	// Delegate to active sub-model
	var cmd tea.Cmd
	switch m.view {
	case viewBriefs:
		m.briefsList, cmd = m.briefsList.Update(msg)
	case viewDetail:
		m.detailViewport, cmd = m.detailViewport.Update(msg)
	}
	return m, cmd
}

func (m *AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "ctrl+c":
		return m, tea.Quit
	}

	switch m.view {
	case viewBriefs:
		// When the list is filtering, let it handle all keys except ctrl+c
		if m.briefsList.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.briefsList, cmd = m.briefsList.Update(msg)
			return m, cmd
		}
		switch key {
		case "q":
			return m, tea.Quit
		case "enter":
			return m.enterBrief()
		case "r":
			m.status = "Reloading..."
			return m, m.loadBriefsCmd()
		}
		var cmd tea.Cmd
		m.briefsList, cmd = m.briefsList.Update(msg)
		return m, cmd

	case viewDetail:
		switch key {
		case "q":
			return m, tea.Quit
		case "esc":
			m.view = viewBriefs
			m.selected = nil
			return m, nil
		}
		var cmd tea.Cmd
		m.detailViewport, cmd = m.detailViewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *AppModel) enterBrief() (tea.Model, tea.Cmd) {
	selected := m.briefsList.SelectedItem()
	if selected == nil {
		return m, nil
	}
	bi := selected.(briefItem)
	id := bi.ID
	m.status = "Loading brief..."
	return m, func() tea.Msg {
		b, err := m.store.GetBrief(context.Background(), id)
		return briefFetchedMsg{brief: b, err: err}
	}
}

// View renders the appropriate view based on current state.
func (m *AppModel) View() string {
	if m.Err != nil {
		return "Error: " + m.Err.Error() + "\n"
	}

	if m.view == viewLoading {
		if m.status != "" {
			return m.status + "\n"
		}
		return "Loading...\n"
	}

	var b strings.Builder

	switch m.view {
	case viewBriefs:
		b.WriteString(m.briefsList.View())
		b.WriteString("\n")
		b.WriteString(briefsFooter())
	case viewDetail:
		b.WriteString(m.detailViewport.View())
		b.WriteString("\n")
		b.WriteString(detailFooter())
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.status)
	}

	return b.String()
}

func detailHeader(b model.Brief) string {
	return fmt.Sprintf("%s\n%s | %s | %d emails",
		b.MeetingTitle,
		b.StartTime.Format("Mon Jan 2, 15:04"),
		b.Priority,
		b.EmailCount)
}

// trimDate converts a timestamp to a short display string.
func trimDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 15:04")
}
