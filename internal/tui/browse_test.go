package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"formctl/internal/layout"
	"formctl/internal/model"
	"formctl/internal/testsupport"
)

func testSnapshot() model.Snapshot {
	return model.Snapshot{
		FormID: "f1",
		Info:   model.FormInfo{Title: "Intake"},
		Items:  testsupport.Items("Q:a1 O:t1 B:b0 Q:b1"),
	}
}

func sized(t *testing.T, m browseModel) browseModel {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	return next.(browseModel)
}

func TestOutlineRows_HeadersAndNumbering(t *testing.T) {
	rows := outlineRows(layout.Build(testSnapshot().Items))
	var got []string
	for _, r := range rows {
		got = append(got, r.(outlineRow).Title())
	}
	want := []string{
		"1. Section 1",
		"1.1 Question a1",
		"[text] Text t1",
		"2. Section b0",
		"2.1 Question b1",
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("rows:\nwant %q\n got %q", want, got)
	}
	if rows[3].(outlineRow).index != 2 || rows[4].(outlineRow).index != 3 {
		t.Fatalf("physical indexes not carried through")
	}
}

func TestBrowse_ViewShowsOutline(t *testing.T) {
	m := sized(t, newBrowseModel(testSnapshot()))
	out := m.View()
	for _, want := range []string{"Intake", "1. Section 1", "  1.1 Question a1", "2.1 Question b1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in view:\n%s", want, out)
		}
	}
}

func TestBrowse_DetailToggle(t *testing.T) {
	m := sized(t, newBrowseModel(testSnapshot()))

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(browseModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(browseModel)
	if !m.showDetail {
		t.Fatalf("enter should open the detail pane")
	}
	if out := m.View(); !strings.Contains(out, "index 0, id a1") || !strings.Contains(out, "text") {
		t.Fatalf("detail pane:\n%s", out)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	if next.(browseModel).showDetail {
		t.Fatalf("d should close the detail pane")
	}
}

func TestBrowse_QuitKeys(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	} {
		m := sized(t, newBrowseModel(testSnapshot()))
		_, cmd := m.Update(key)
		if cmd == nil {
			t.Fatalf("%s: expected quit command", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("%s: expected tea.QuitMsg", key)
		}
	}
}

func TestBrowse_UntitledFormFallsBackToID(t *testing.T) {
	snap := testSnapshot()
	snap.Info.Title = ""
	if got := newBrowseModel(snap).list.Title; got != "f1" {
		t.Fatalf("title = %q", got)
	}
}
