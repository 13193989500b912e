package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"formctl/internal/layout"
	"formctl/internal/model"
)

// outlineRow is one line of the outline: a section header, a question, or a
// non-question item shown dimmed.
type outlineRow struct {
	item    model.Item
	index   int
	section model.Section
	// number is the in-section question number; 0 for non-questions.
	number int
	header bool
}

func (r outlineRow) FilterValue() string { return r.item.Title }

func (r outlineRow) Title() string {
	switch {
	case r.header:
		return fmt.Sprintf("%d. %s", r.section.Number, r.section.Title)
	case r.number > 0:
		return fmt.Sprintf("%d.%d %s", r.section.Number, r.number, r.item.Title)
	default:
		kind := "item"
		if o, ok := r.item.Body.(model.OtherBody); ok && o.Type != "" {
			kind = o.Type
		}
		return fmt.Sprintf("[%s] %s", kind, r.item.Title)
	}
}

func (r outlineRow) Description() string { return r.item.ID }

// outlineRows flattens the index into display rows. Section 1 gets a
// synthetic header so every section starts with one.
func outlineRows(ix *layout.Index) []list.Item {
	items := ix.Items()
	out := make([]list.Item, 0, len(items)+1)
	for _, s := range ix.Sections() {
		hdr := outlineRow{section: s, index: s.StartIndex, header: true}
		if s.Break != nil {
			hdr.item = *s.Break
		} else {
			hdr.item = model.Item{Title: s.Title}
		}
		out = append(out, hdr)

		n := 0
		for i := s.ContentStart(); i < s.EndIndex; i++ {
			row := outlineRow{item: items[i], index: i, section: s}
			if items[i].IsQuestion() {
				n++
				row.number = n
			}
			out = append(out, row)
		}
	}
	return out
}
