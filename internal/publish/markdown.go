// Package publish renders a form snapshot as a Markdown document.
package publish

import (
	"bytes"
	"fmt"
	"strings"

	"formctl/internal/layout"
	"formctl/internal/model"
)

// RenderFormMarkdown writes the form as one page: a heading per section and a
// numbered entry per question, in form order.
func RenderFormMarkdown(snap model.Snapshot) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	title := strings.TrimSpace(snap.Info.Title)
	if title == "" {
		title = snap.FormID
	}
	writeLn("# " + title)
	writeLn("")
	if desc := strings.TrimSpace(snap.Info.Description); desc != "" {
		writeLn(desc)
		writeLn("")
	}
	writeLn("- Form: " + snap.FormID)
	if snap.RevisionID != "" {
		writeLn("- Revision: " + snap.RevisionID)
	}
	if snap.ResponderURI != "" {
		writeLn("- Responder link: " + snap.ResponderURI)
	}

	ix := layout.Build(snap.Items)
	items := ix.Items()
	for _, sec := range ix.Sections() {
		writeLn("")
		writeLn(fmt.Sprintf("## %d. %s", sec.Number, strings.TrimSpace(sec.Title)))
		if desc := strings.TrimSpace(sec.Description); desc != "" {
			writeLn("")
			writeLn(desc)
		}
		writeLn("")
		if sec.QuestionCount == 0 {
			writeLn("_No questions._")
		}

		n := 0
		for i := sec.ContentStart(); i < sec.EndIndex; i++ {
			it := items[i]
			q, ok := it.Question()
			if !ok {
				continue
			}
			n++
			line := fmt.Sprintf("%d. %s", n, strings.TrimSpace(it.Title))
			if q.Required {
				line += " *"
			}
			line += fmt.Sprintf(" (%s)", q.Type)
			writeLn(line)
			if desc := strings.TrimSpace(it.Description); desc != "" {
				writeLn("   " + desc)
			}
			for _, o := range q.Options {
				writeLn("   - " + optionLabel(o))
			}
			if q.Scale != nil {
				writeLn(fmt.Sprintf("   - %d to %d%s", q.Scale.Low, q.Scale.High, scaleLabels(*q.Scale)))
			}
		}

		if brk, ok := sectionNavigation(sec); ok {
			writeLn("")
			writeLn("After this section: " + brk)
		}
	}
	return buf.String()
}

func optionLabel(o model.Option) string {
	switch {
	case o.GoToAction != "":
		return o.Value + " → " + o.GoToAction
	case o.GoToSectionID != "":
		return o.Value + " → " + o.GoToSectionID
	default:
		return o.Value
	}
}

func scaleLabels(s model.Scale) string {
	if s.LowLabel == "" && s.HighLabel == "" {
		return ""
	}
	return fmt.Sprintf(" (%s / %s)", s.LowLabel, s.HighLabel)
}

func sectionNavigation(sec model.Section) (string, bool) {
	if sec.Break == nil {
		return "", false
	}
	b, _ := sec.Break.SectionBreak()
	switch {
	case b.GoToAction != "":
		return b.GoToAction, true
	case b.GoToSectionID != "":
		return "section " + b.GoToSectionID, true
	}
	return "", false
}
