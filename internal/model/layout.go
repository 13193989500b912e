package model

import (
	"fmt"
	"strings"
)

// Section is a derived view over a snapshot.
// StartIndex is the physical index of the section's first item (its break
// item for sections after the first); EndIndex is exclusive.
type Section struct {
	Number        int    `json:"number"`
	StartIndex    int    `json:"startIndex"`
	EndIndex      int    `json:"endIndex"`
	Break         *Item  `json:"break,omitempty"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	QuestionCount int    `json:"questionCount"`
}

// ContentStart is the first insertion point inside the section: just past the
// break item, or 0 for the first section.
func (s Section) ContentStart() int {
	if s.Break != nil {
		return s.StartIndex + 1
	}
	return s.StartIndex
}

func (s Section) Len() int { return s.EndIndex - s.StartIndex }

// Question is a question item placed in its snapshot.
type Question struct {
	Item            Item `json:"item"`
	Index           int  `json:"index"`
	SectionNumber   int  `json:"section"`
	NumberInSection int  `json:"number"`
	GlobalNumber    int  `json:"globalNumber"`
}

// Position selects how a logical coordinate maps to a physical index.
type Position int

const (
	PositionExact Position = iota
	PositionBefore
	PositionAfter
	PositionSectionStart
	PositionSectionEnd
	PositionFormEnd
)

func (p Position) String() string {
	switch p {
	case PositionExact:
		return "exact"
	case PositionBefore:
		return "before"
	case PositionAfter:
		return "after"
	case PositionSectionStart:
		return "start"
	case PositionSectionEnd:
		return "end"
	case PositionFormEnd:
		return "form-end"
	default:
		return fmt.Sprintf("position(%d)", int(p))
	}
}

// NeedsQuestion reports whether the position addresses a specific question.
func (p Position) NeedsQuestion() bool {
	return p == PositionExact || p == PositionBefore || p == PositionAfter
}

func ParsePosition(s string) (Position, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exact", "at":
		return PositionExact, nil
	case "before":
		return PositionBefore, nil
	case "after":
		return PositionAfter, nil
	case "start", "section-start", "section_start":
		return PositionSectionStart, nil
	case "", "end", "section-end", "section_end":
		return PositionSectionEnd, nil
	case "form-end", "form_end", "append":
		return PositionFormEnd, nil
	default:
		return 0, InvalidArgument("position", "unknown position %q (want exact|before|after|start|end|form-end)", s)
	}
}

// Location is a logical coordinate: 1-based section and question numbers plus
// a position mode. Question is ignored by section- and form-level positions.
type Location struct {
	Section  int      `json:"section"`
	Question int      `json:"question,omitempty"`
	Position Position `json:"-"`
}

// Validate checks the numbers locally; it never needs a snapshot.
func (l Location) Validate() error {
	if l.Position < PositionExact || l.Position > PositionFormEnd {
		return InvalidArgument("position", "unknown position %d", int(l.Position))
	}
	if l.Position == PositionFormEnd {
		return nil
	}
	if l.Section < 1 {
		return InvalidArgument("section", "section numbers are 1-based; got %d", l.Section)
	}
	if l.Position.NeedsQuestion() && l.Question < 1 {
		return InvalidArgument("question", "question numbers are 1-based; got %d", l.Question)
	}
	return nil
}

func (l Location) String() string {
	switch {
	case l.Position == PositionFormEnd:
		return "form end"
	case l.Position.NeedsQuestion():
		return fmt.Sprintf("section %d question %d (%s)", l.Section, l.Question, l.Position)
	default:
		return fmt.Sprintf("section %d (%s)", l.Section, l.Position)
	}
}
