package formsvc

import (
	"context"

	"formctl/internal/model"
)

// FormSummary is the form metadata plus its derived outline.
type FormSummary struct {
	FormID        string          `json:"formId"`
	Info          model.FormInfo  `json:"info"`
	RevisionID    string          `json:"revisionId,omitempty"`
	ResponderURI  string          `json:"responderUri,omitempty"`
	ItemCount     int             `json:"itemCount"`
	QuestionCount int             `json:"questionCount"`
	Sections      []model.Section `json:"sections"`
}

func (s *Service) Form(ctx context.Context, formID string) (FormSummary, error) {
	if err := checkFormID(formID); err != nil {
		return FormSummary{}, err
	}
	ix, snap, err := s.index(ctx, formID)
	if err != nil {
		return FormSummary{}, err
	}
	out := FormSummary{
		FormID:       snap.FormID,
		Info:         snap.Info,
		RevisionID:   snap.RevisionID,
		ResponderURI: snap.ResponderURI,
		ItemCount:    ix.Len(),
		Sections:     ix.Sections(),
	}
	if out.FormID == "" {
		out.FormID = formID
	}
	for _, sec := range out.Sections {
		out.QuestionCount += sec.QuestionCount
	}
	return out, nil
}

func (s *Service) Sections(ctx context.Context, formID string) ([]model.Section, error) {
	if err := checkFormID(formID); err != nil {
		return nil, err
	}
	ix, _, err := s.index(ctx, formID)
	if err != nil {
		return nil, err
	}
	return ix.Sections(), nil
}

// Questions lists questions in form order. section 0 lists every section.
func (s *Service) Questions(ctx context.Context, formID string, section int) ([]model.Question, error) {
	if err := checkFormID(formID); err != nil {
		return nil, err
	}
	if section < 0 {
		return nil, model.InvalidArgument("section", "section numbers are 1-based; got %d", section)
	}
	ix, _, err := s.index(ctx, formID)
	if err != nil {
		return nil, err
	}
	return ix.Questions(section)
}

// Question looks up one question by its position within a section.
func (s *Service) Question(ctx context.Context, formID string, section, question int) (model.Question, error) {
	if err := checkFormID(formID); err != nil {
		return model.Question{}, err
	}
	if err := (model.Location{Section: section, Question: question}).Validate(); err != nil {
		return model.Question{}, err
	}
	ix, _, err := s.index(ctx, formID)
	if err != nil {
		return model.Question{}, err
	}
	return ix.Question(section, question)
}

// QuestionByNumber looks up a question by its form-wide 1-based number.
func (s *Service) QuestionByNumber(ctx context.Context, formID string, n int) (model.Question, error) {
	if err := checkFormID(formID); err != nil {
		return model.Question{}, err
	}
	if n < 1 {
		return model.Question{}, model.InvalidArgument("question", "question numbers are 1-based; got %d", n)
	}
	ix, _, err := s.index(ctx, formID)
	if err != nil {
		return model.Question{}, err
	}
	return ix.QuestionByNumber(n)
}

// Snapshot returns the raw item array for read-only views such as the
// interactive outline.
func (s *Service) Snapshot(ctx context.Context, formID string) (model.Snapshot, error) {
	if err := checkFormID(formID); err != nil {
		return model.Snapshot{}, err
	}
	_, snap, err := s.index(ctx, formID)
	if err != nil {
		return model.Snapshot{}, err
	}
	if snap.FormID == "" {
		snap.FormID = formID
	}
	return snap, nil
}
