package mutate

import (
	"formctl/internal/layout"
	"formctl/internal/model"
)

// PlanMoveQuestion moves one question to dst. dst may address a question
// (before/after), a section boundary (start/end) or the form end; it is
// resolved strictly.
func PlanMoveQuestion(ix *layout.Index, src, dst model.Location) (model.Batch, error) {
	src.Position = model.PositionExact
	if err := src.Validate(); err != nil {
		return model.Batch{}, err
	}
	if dst.Position == model.PositionExact {
		dst.Position = model.PositionBefore
	}
	if err := dst.Validate(); err != nil {
		return model.Batch{}, err
	}

	from, err := ix.Resolve(src, layout.Strict)
	if err != nil {
		return model.Batch{}, err
	}
	insertAt, err := ix.Resolve(dst, layout.Strict)
	if err != nil {
		return model.Batch{}, err
	}

	b := model.Batch{Operation: "move_question"}
	to := MoveTarget(from, insertAt)
	if to == from {
		return b, nil
	}
	b.Ops = []model.Op{model.MoveItem(from, to)}
	return b, nil
}

// PlanMoveSection relocates a section (its break item plus everything up to
// the next break) before or after another section, using only single-item
// moves. The list is fully planned up front:
//
//   - moving forward, the run's head is always found at the run's original
//     start: once it leaves, the next run item slides into the vacated slot.
//     Each step moves start -> insertion point - 1.
//   - moving backward, the run's tail is always found at the run's original
//     last index: the items it jumps over shift right by one, which exactly
//     replaces it. Each step moves last -> insertion point, so later steps
//     land in front of earlier ones and the run keeps its order.
func PlanMoveSection(ix *layout.Index, source, target int, pos model.Position) (model.Batch, error) {
	if pos != model.PositionBefore && pos != model.PositionAfter {
		return model.Batch{}, model.InvalidArgument("position", "sections move before or after another section; got %s", pos)
	}
	src, err := ix.Section(source)
	if err != nil {
		return model.Batch{}, err
	}
	dst, err := ix.Section(target)
	if err != nil {
		return model.Batch{}, err
	}

	insertAt := dst.StartIndex
	if pos == model.PositionAfter {
		insertAt = dst.EndIndex
	}

	b := model.Batch{Operation: "move_section"}
	k := src.Len()
	if k == 0 || (insertAt >= src.StartIndex && insertAt <= src.EndIndex) {
		return b, nil
	}

	from, to := src.StartIndex, MoveTarget(src.StartIndex, insertAt)
	if insertAt < src.StartIndex {
		from = src.EndIndex - 1
	}
	b.Ops = make([]model.Op, 0, k)
	for i := 0; i < k; i++ {
		b.Ops = append(b.Ops, model.MoveItem(from, to))
	}
	return b, nil
}
