// Package layout derives sections and question numbering from a form's flat
// item array and maps logical (section, question) coordinates onto physical
// indices in that array.
//
// An Index is computed from one snapshot and is only valid against it: any
// mutation of the remote form invalidates every index it hands out.
package layout

import (
	"fmt"

	"formctl/internal/model"
)

type Index struct {
	items    []model.Item
	sections []model.Section
	// questionIdx holds the physical indices of Question items, in order.
	questionIdx []int
}

// Build scans items once. A form with B section breaks yields B+1 sections
// that partition [0, len(items)).
func Build(items []model.Item) *Index {
	x := &Index{items: items}

	cur := model.Section{Number: 1, StartIndex: 0}
	for i, it := range items {
		switch it.Kind() {
		case model.KindSectionBreak:
			cur.EndIndex = i
			x.sections = append(x.sections, finishSection(cur))
			brk := items[i]
			cur = model.Section{
				Number:      cur.Number + 1,
				StartIndex:  i,
				Break:       &brk,
				Title:       it.Title,
				Description: it.Description,
			}
		case model.KindQuestion:
			cur.QuestionCount++
			x.questionIdx = append(x.questionIdx, i)
		case model.KindOther:
		}
	}
	cur.EndIndex = len(items)
	x.sections = append(x.sections, finishSection(cur))
	return x
}

func finishSection(s model.Section) model.Section {
	if s.Title == "" {
		s.Title = fmt.Sprintf("Section %d", s.Number)
	}
	return s
}

func (x *Index) Len() int { return len(x.items) }

func (x *Index) Items() []model.Item { return x.items }

// Item returns the item at a physical index.
func (x *Index) Item(i int) (model.Item, bool) {
	if i < 0 || i >= len(x.items) {
		return model.Item{}, false
	}
	return x.items[i], true
}

func (x *Index) Sections() []model.Section {
	return append([]model.Section(nil), x.sections...)
}

func (x *Index) SectionCount() int { return len(x.sections) }

// Section looks up a 1-based section number.
func (x *Index) Section(n int) (model.Section, error) {
	if n < 1 {
		return model.Section{}, model.InvalidArgument("section", "section numbers are 1-based; got %d", n)
	}
	if n > len(x.sections) {
		return model.Section{}, model.NotFoundError{Kind: "section", Number: n, Available: len(x.sections)}
	}
	return x.sections[n-1], nil
}

// SectionOf returns the section containing physical index i.
func (x *Index) SectionOf(i int) (model.Section, bool) {
	for _, s := range x.sections {
		if i >= s.StartIndex && i < s.EndIndex {
			return s, true
		}
	}
	return model.Section{}, false
}

// Questions lists questions in form order. section 0 means every section.
func (x *Index) Questions(section int) ([]model.Question, error) {
	if section < 0 {
		return nil, model.InvalidArgument("section", "section numbers are 1-based; got %d", section)
	}
	if section > 0 {
		if _, err := x.Section(section); err != nil {
			return nil, err
		}
	}

	out := []model.Question{}
	for _, s := range x.sections {
		if section > 0 && s.Number != section {
			continue
		}
		out = append(out, x.sectionQuestions(s)...)
	}
	return out, nil
}

func (x *Index) sectionQuestions(s model.Section) []model.Question {
	out := make([]model.Question, 0, s.QuestionCount)
	n := 0
	for i := s.StartIndex; i < s.EndIndex; i++ {
		if !x.items[i].IsQuestion() {
			continue
		}
		n++
		out = append(out, model.Question{
			Item:            x.items[i],
			Index:           i,
			SectionNumber:   s.Number,
			NumberInSection: n,
			GlobalNumber:    x.globalNumber(i),
		})
	}
	return out
}

func (x *Index) globalNumber(physical int) int {
	for n, i := range x.questionIdx {
		if i == physical {
			return n + 1
		}
	}
	return 0
}

// QuestionByNumber addresses a question by its form-wide 1-based ordinal.
func (x *Index) QuestionByNumber(n int) (model.Question, error) {
	if n < 1 {
		return model.Question{}, model.InvalidArgument("question", "question numbers are 1-based; got %d", n)
	}
	if n > len(x.questionIdx) {
		return model.Question{}, model.NotFoundError{Kind: "question", Number: n, Available: len(x.questionIdx)}
	}
	i := x.questionIdx[n-1]
	s, _ := x.SectionOf(i)
	for _, q := range x.sectionQuestions(s) {
		if q.Index == i {
			return q, nil
		}
	}
	return model.Question{}, model.NotFoundError{Kind: "question", Number: n, Available: len(x.questionIdx)}
}

// Question addresses a question strictly by section and in-section number.
func (x *Index) Question(section, question int) (model.Question, error) {
	i, err := x.Resolve(model.Location{Section: section, Question: question, Position: model.PositionExact}, Strict)
	if err != nil {
		return model.Question{}, err
	}
	s, err := x.Section(section)
	if err != nil {
		return model.Question{}, err
	}
	return model.Question{
		Item:            x.items[i],
		Index:           i,
		SectionNumber:   s.Number,
		NumberInSection: question,
		GlobalNumber:    x.globalNumber(i),
	}, nil
}
