// Package tui is the read-only interactive outline behind `formctl browse`.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"formctl/internal/layout"
	"formctl/internal/model"
)

// Run shows snap until the user quits. It never writes to the form.
func Run(snap model.Snapshot) error {
	applyColorProfilePreference()
	_, err := tea.NewProgram(newBrowseModel(snap), tea.WithAltScreen()).Run()
	return err
}

type browseModel struct {
	list       list.Model
	showDetail bool
	width      int
	height     int
}

func newBrowseModel(snap model.Snapshot) browseModel {
	ix := layout.Build(snap.Items)
	l := list.New(outlineRows(ix), newOutlineDelegate(), 0, 0)
	l.Title = snap.Info.Title
	if l.Title == "" {
		l.Title = snap.FormID
	}
	l.SetShowStatusBar(true)
	l.SetStatusBarItemName("item", "items")
	l.SetFilteringEnabled(true)
	l.Styles.Title = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1)
	return browseModel{list: l}
}

func (m browseModel) Init() tea.Cmd { return nil }

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case tea.KeyMsg:
		// While the filter prompt is open every key belongs to it.
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			if msg.String() == "esc" && m.list.FilterState() == list.FilterApplied {
				break
			}
			return m, tea.Quit
		case "enter", "d":
			m.showDetail = !m.showDetail
			m.resize()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *browseModel) resize() {
	h := m.height
	if m.showDetail {
		h -= lipgloss.Height(m.detail())
	}
	if h < 3 {
		h = 3
	}
	m.list.SetSize(m.width, h)
}

func (m browseModel) View() string {
	if !m.showDetail {
		return m.list.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.list.View(), m.detail())
}

func (m browseModel) detail() string {
	row, ok := m.list.SelectedItem().(outlineRow)
	if !ok {
		return ""
	}
	lines := []string{lipgloss.NewStyle().Bold(true).Render(row.Title())}
	if row.item.Description != "" {
		lines = append(lines, row.item.Description)
	}
	if q, ok := row.item.Question(); ok {
		meta := string(q.Type)
		if q.Required {
			meta += ", required"
		}
		lines = append(lines, meta)
		for _, o := range q.Options {
			opt := "  - " + o.Value
			if o.GoToAction != "" {
				opt += " -> " + o.GoToAction
			} else if o.GoToSectionID != "" {
				opt += " -> section " + o.GoToSectionID
			}
			lines = append(lines, opt)
		}
	}
	lines = append(lines, fmt.Sprintf("index %d, id %s", row.index, row.item.ID))
	return detailStyle.Width(max(m.width-2, 10)).Render(strings.Join(lines, "\n"))
}
