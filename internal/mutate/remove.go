package mutate

import (
	"formctl/internal/layout"
	"formctl/internal/model"
)

// PlanDeleteQuestion removes exactly one question.
func PlanDeleteQuestion(ix *layout.Index, section, question int) (model.Batch, error) {
	q, err := ix.Question(section, question)
	if err != nil {
		return model.Batch{}, err
	}
	return model.Batch{Operation: "remove_question", Ops: []model.Op{model.DeleteItem(q.Index)}}, nil
}

// PlanDeleteSection removes every item in the section, its break item
// included. Deletes are emitted from the highest index down: each delete
// shifts every later index, so consuming the tail first keeps the remaining
// indices valid.
func PlanDeleteSection(ix *layout.Index, section int) (model.Batch, error) {
	s, err := ix.Section(section)
	if err != nil {
		return model.Batch{}, err
	}
	ops := make([]model.Op, 0, s.Len())
	for i := s.EndIndex - 1; i >= s.StartIndex; i-- {
		ops = append(ops, model.DeleteItem(i))
	}
	return model.Batch{Operation: "remove_section", Ops: ops}, nil
}
