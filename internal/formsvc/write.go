package formsvc

import (
	"context"

	"formctl/internal/model"
	"formctl/internal/mutate"
)

// AddQuestionRequest places a new question. Question is the reference
// question for Before/After; SectionStart/SectionEnd ignore it.
type AddQuestionRequest struct {
	Section  int
	Question int
	Position model.Position
	Item     model.Item
}

func (r AddQuestionRequest) location() model.Location {
	return model.Location{Section: r.Section, Question: r.Question, Position: r.Position}
}

func (s *Service) AddQuestion(ctx context.Context, formID string, req AddQuestionRequest) (Result, error) {
	if err := checkFormID(formID); err != nil {
		return Result{}, err
	}
	if err := req.location().Validate(); err != nil {
		return Result{}, err
	}
	ix, _, err := s.index(ctx, formID)
	if err != nil {
		return Result{}, err
	}
	b, err := mutate.PlanCreateQuestion(ix, req.location(), req.Item)
	if err != nil {
		return Result{}, err
	}
	s.logger.Debug("question placed", "form", formID, "location", req.location().String(), "index", b.Ops[0].Index)
	return s.submit(ctx, formID, b)
}

// QuestionEdit derives the next version of a question from the one in the
// current snapshot.
type QuestionEdit func(cur model.Item) (model.Item, error)

// UpdateQuestion applies edit to the question at (section, question) and
// rewrites the fields it changed. edit sees the same snapshot the update is
// planned against.
func (s *Service) UpdateQuestion(ctx context.Context, formID string, section, question int, edit QuestionEdit) (Result, error) {
	if err := checkFormID(formID); err != nil {
		return Result{}, err
	}
	if err := (model.Location{Section: section, Question: question}).Validate(); err != nil {
		return Result{}, err
	}
	if edit == nil {
		return Result{}, model.InvalidArgument("question", "nothing to update")
	}
	ix, _, err := s.index(ctx, formID)
	if err != nil {
		return Result{}, err
	}
	cur, err := ix.Question(section, question)
	if err != nil {
		return Result{}, err
	}
	next, err := edit(cur.Item)
	if err != nil {
		return Result{}, err
	}
	b, err := mutate.PlanUpdateQuestion(ix, section, question, next)
	if err != nil {
		return Result{}, err
	}
	return s.submit(ctx, formID, b)
}

func (s *Service) RemoveQuestion(ctx context.Context, formID string, section, question int) (Result, error) {
	if err := checkFormID(formID); err != nil {
		return Result{}, err
	}
	if err := (model.Location{Section: section, Question: question}).Validate(); err != nil {
		return Result{}, err
	}
	ix, _, err := s.index(ctx, formID)
	if err != nil {
		return Result{}, err
	}
	b, err := mutate.PlanDeleteQuestion(ix, section, question)
	if err != nil {
		return Result{}, err
	}
	return s.submit(ctx, formID, b)
}

// AddSectionRequest places a new section break. With no Section the break is
// appended to the form.
type AddSectionRequest struct {
	Title       string
	Description string
	Section     int
	Question    int
	Position    model.Position
}

func (r AddSectionRequest) location() model.Location {
	loc := model.Location{Section: r.Section, Question: r.Question, Position: r.Position}
	if r.Section == 0 {
		loc.Position = model.PositionFormEnd
	}
	return loc
}

func (s *Service) AddSection(ctx context.Context, formID string, req AddSectionRequest) (Result, error) {
	if err := checkFormID(formID); err != nil {
		return Result{}, err
	}
	if req.Title == "" {
		return Result{}, model.InvalidArgument("title", "section title is required")
	}
	loc := req.location()
	if err := loc.Validate(); err != nil {
		return Result{}, err
	}
	ix, _, err := s.index(ctx, formID)
	if err != nil {
		return Result{}, err
	}
	b, err := mutate.PlanCreateSection(ix, loc, req.Title, req.Description)
	if err != nil {
		return Result{}, err
	}
	return s.submit(ctx, formID, b)
}

func (s *Service) UpdateSection(ctx context.Context, formID string, section int, patch mutate.SectionPatch) (Result, error) {
	if err := checkFormID(formID); err != nil {
		return Result{}, err
	}
	if section < 1 {
		return Result{}, model.InvalidArgument("section", "section numbers are 1-based; got %d", section)
	}
	ix, _, err := s.index(ctx, formID)
	if err != nil {
		return Result{}, err
	}
	b, err := mutate.PlanUpdateSection(ix, section, patch)
	if err != nil {
		return Result{}, err
	}
	return s.submit(ctx, formID, b)
}

// RemoveSection deletes a section's break item and every item after it up to
// the next break. Removing section 1 deletes the items before the first break.
func (s *Service) RemoveSection(ctx context.Context, formID string, section int) (Result, error) {
	if err := checkFormID(formID); err != nil {
		return Result{}, err
	}
	if section < 1 {
		return Result{}, model.InvalidArgument("section", "section numbers are 1-based; got %d", section)
	}
	ix, _, err := s.index(ctx, formID)
	if err != nil {
		return Result{}, err
	}
	b, err := mutate.PlanDeleteSection(ix, section)
	if err != nil {
		return Result{}, err
	}
	return s.submit(ctx, formID, b)
}

// UpdateInfo rewrites the form-level fields named in mask. It needs no
// snapshot.
func (s *Service) UpdateInfo(ctx context.Context, formID string, info model.FormInfo, mask []string) (Result, error) {
	if err := checkFormID(formID); err != nil {
		return Result{}, err
	}
	b, err := mutate.PlanUpdateInfo(info, mask)
	if err != nil {
		return Result{}, err
	}
	return s.submit(ctx, formID, b)
}

// MoveQuestionRequest moves the question at (FromSection, FromQuestion).
// Position is relative to (ToSection, ToQuestion) for Before/After, or to
// ToSection's boundaries for SectionStart/SectionEnd.
type MoveQuestionRequest struct {
	FromSection  int
	FromQuestion int
	ToSection    int
	ToQuestion   int
	Position     model.Position
}

func (r MoveQuestionRequest) source() model.Location {
	return model.Location{Section: r.FromSection, Question: r.FromQuestion, Position: model.PositionExact}
}

func (r MoveQuestionRequest) target() model.Location {
	pos := r.Position
	if pos == model.PositionExact {
		pos = model.PositionBefore
	}
	return model.Location{Section: r.ToSection, Question: r.ToQuestion, Position: pos}
}

func (s *Service) MoveQuestion(ctx context.Context, formID string, req MoveQuestionRequest) (Result, error) {
	if err := checkFormID(formID); err != nil {
		return Result{}, err
	}
	if err := req.source().Validate(); err != nil {
		return Result{}, err
	}
	if err := req.target().Validate(); err != nil {
		return Result{}, err
	}
	ix, _, err := s.index(ctx, formID)
	if err != nil {
		return Result{}, err
	}
	b, err := mutate.PlanMoveQuestion(ix, req.source(), req.target())
	if err != nil {
		return Result{}, err
	}
	return s.submit(ctx, formID, b)
}

// MoveSection relocates section source before or after section target.
func (s *Service) MoveSection(ctx context.Context, formID string, source, target int, pos model.Position) (Result, error) {
	if err := checkFormID(formID); err != nil {
		return Result{}, err
	}
	if source < 1 {
		return Result{}, model.InvalidArgument("source", "section numbers are 1-based; got %d", source)
	}
	if target < 1 {
		return Result{}, model.InvalidArgument("target", "section numbers are 1-based; got %d", target)
	}
	if pos != model.PositionBefore && pos != model.PositionAfter {
		return Result{}, model.InvalidArgument("position", "sections move before or after another section; got %s", pos)
	}
	ix, _, err := s.index(ctx, formID)
	if err != nil {
		return Result{}, err
	}
	b, err := mutate.PlanMoveSection(ix, source, target, pos)
	if err != nil {
		return Result{}, err
	}
	if len(b.Ops) > 0 {
		s.logger.Debug("section move planned", "form", formID, "source", source, "target", target, "position", pos.String(), "steps", len(b.Ops))
	}
	return s.submit(ctx, formID, b)
}
