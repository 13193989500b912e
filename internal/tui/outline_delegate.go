package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// outlineDelegate draws one row per item: section headers flush left and
// bold, their content indented beneath them.
type outlineDelegate struct {
	header   lipgloss.Style
	normal   lipgloss.Style
	other    lipgloss.Style
	selected lipgloss.Style
}

func newOutlineDelegate() outlineDelegate {
	return outlineDelegate{
		header: lipgloss.NewStyle().Bold(true),
		normal: lipgloss.NewStyle(),
		other:  styleMuted(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
	}
}

func (d outlineDelegate) Height() int                             { return 1 }
func (d outlineDelegate) Spacing() int                            { return 0 }
func (d outlineDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d outlineDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		return
	}
	row, ok := item.(outlineRow)
	if !ok {
		fmt.Fprint(w, xansi.Truncate(fmt.Sprint(item), contentW, ""))
		return
	}

	style := d.normal
	line := "  " + row.Title()
	switch {
	case row.header:
		style = d.header
		line = row.Title()
	case row.number == 0:
		style = d.other
	}
	if index == m.Index() {
		style = d.selected
	}

	lineW := xansi.StringWidth(line)
	if lineW < contentW {
		line += strings.Repeat(" ", contentW-lineW)
	} else if lineW > contentW {
		line = xansi.Truncate(line, contentW, "…")
	}
	fmt.Fprint(w, style.Render(line))
}
