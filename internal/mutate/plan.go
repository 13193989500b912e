// Package mutate turns one logical form edit into the ordered list of
// primitive operations the remote service applies as a single batch.
//
// Planners are pure: they read a layout.Index built from one snapshot and
// never perform I/O. Every index in a returned batch is relative to the
// array as it stands when that op runs, i.e. after all earlier ops in the
// same batch have been applied.
package mutate

import (
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"formctl/internal/layout"
	"formctl/internal/model"
)

// MoveTarget converts an insertion point measured in the original array into
// the destination index of a single-item move. A move removes the item first,
// so any insertion point past the source shifts down by one.
func MoveTarget(from, insertAt int) int {
	if insertAt > from {
		return insertAt - 1
	}
	return insertAt
}

// PlanCreateQuestion inserts a question at loc. A reference question past the
// end of the section appends at the section end.
func PlanCreateQuestion(ix *layout.Index, loc model.Location, q model.Item) (model.Batch, error) {
	if !q.IsQuestion() {
		return model.Batch{}, model.InvalidArgument("item", "expected a question, got %s", q.Kind())
	}
	if strings.TrimSpace(q.Title) == "" {
		return model.Batch{}, model.InvalidArgument("title", "question title is required")
	}
	if loc.Position == model.PositionExact {
		loc.Position = model.PositionBefore
	}
	at, err := ix.Resolve(loc, layout.Permissive)
	if err != nil {
		return model.Batch{}, err
	}
	q.ID = ""
	return model.Batch{Operation: "add_question", Ops: []model.Op{model.CreateItem(at, q)}}, nil
}

// PlanCreateSection inserts a section break at loc.
func PlanCreateSection(ix *layout.Index, loc model.Location, title, description string) (model.Batch, error) {
	if strings.TrimSpace(title) == "" {
		return model.Batch{}, model.InvalidArgument("title", "section title is required")
	}
	if loc.Position == model.PositionExact {
		loc.Position = model.PositionBefore
	}
	at, err := ix.Resolve(loc, layout.Permissive)
	if err != nil {
		return model.Batch{}, err
	}
	brk := model.Item{Title: title, Description: description, Body: model.SectionBreakBody{}}
	return model.Batch{Operation: "add_section", Ops: []model.Op{model.CreateItem(at, brk)}}, nil
}

// PlanUpdateQuestion rewrites the question at (section, question) as next.
// Only fields that differ from the snapshot are named in the mask, so parts of
// the question this tool does not model are left alone remotely. An empty
// title keeps the current one. The op is addressed by item id when the
// snapshot carries one; the index rides along because the remote API
// requires a location.
func PlanUpdateQuestion(ix *layout.Index, section, question int, next model.Item) (model.Batch, error) {
	if !next.IsQuestion() {
		return model.Batch{}, model.InvalidArgument("item", "expected a question, got %s", next.Kind())
	}
	cur, err := ix.Question(section, question)
	if err != nil {
		return model.Batch{}, err
	}
	if next.Title == "" {
		next.Title = cur.Item.Title
	}
	mask := questionMask(cur.Item, next)
	if len(mask) == 0 {
		return model.Batch{}, model.InvalidArgument("question", "nothing to update")
	}
	op := model.UpdateItem(cur.Index, cur.Item.ID, next, mask...)
	return model.Batch{Operation: "update_question", Ops: []model.Op{op}}, nil
}

func questionMask(cur, next model.Item) []string {
	mask := []string{}
	if next.Title != cur.Title {
		mask = append(mask, "title")
	}
	if next.Description != cur.Description {
		mask = append(mask, "description")
	}
	curBody, _ := cur.Question()
	nextBody, _ := next.Question()
	if !cmp.Equal(curBody, nextBody, cmpopts.EquateEmpty()) {
		mask = append(mask, "questionItem")
	}
	return mask
}

// SectionPatch carries the fields of a section break to rewrite; nil fields
// are left untouched.
type SectionPatch struct {
	Title         *string
	Description   *string
	GoToAction    *string
	GoToSectionID *string
}

func (p SectionPatch) empty() bool {
	return p.Title == nil && p.Description == nil && p.GoToAction == nil && p.GoToSectionID == nil
}

// PlanUpdateSection rewrites the break item that opens section. The first
// section has no break item and cannot be updated.
func PlanUpdateSection(ix *layout.Index, section int, patch SectionPatch) (model.Batch, error) {
	if patch.empty() {
		return model.Batch{}, model.InvalidArgument("section", "nothing to update")
	}
	s, err := ix.Section(section)
	if err != nil {
		return model.Batch{}, err
	}
	if s.Break == nil {
		return model.Batch{}, model.InvalidArgument("section", "section 1 has no section break to update")
	}

	next := *s.Break
	body, _ := next.SectionBreak()
	mask := []string{}
	if patch.Title != nil {
		next.Title = *patch.Title
		mask = append(mask, "title")
	}
	if patch.Description != nil {
		next.Description = *patch.Description
		mask = append(mask, "description")
	}
	if patch.GoToAction != nil || patch.GoToSectionID != nil {
		if patch.GoToAction != nil {
			body.GoToAction = *patch.GoToAction
		}
		if patch.GoToSectionID != nil {
			body.GoToSectionID = *patch.GoToSectionID
		}
		mask = append(mask, "pageBreakItem")
	}
	next.Body = body

	op := model.UpdateItem(s.StartIndex, s.Break.ID, next, mask...)
	return model.Batch{Operation: "update_section", Ops: []model.Op{op}}, nil
}

// PlanUpdateInfo rewrites form-level title/description. The document title
// is read-only remotely.
func PlanUpdateInfo(info model.FormInfo, mask []string) (model.Batch, error) {
	if len(mask) == 0 {
		return model.Batch{}, model.InvalidArgument("info", "nothing to update")
	}
	for _, m := range mask {
		switch m {
		case "title", "description":
		default:
			return model.Batch{}, model.InvalidArgument("info", "unknown field %q", m)
		}
	}
	op := model.Op{Type: model.OpUpdateInfo, Info: &info, Mask: mask}
	return model.Batch{Operation: "update_info", Ops: []model.Op{op}}, nil
}
