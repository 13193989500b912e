package model

import (
	"encoding/json"
	"strings"
)

// Kind is the closed set of item kinds a form's content array can hold.
type Kind int

const (
	KindOther Kind = iota
	KindQuestion
	KindSectionBreak
)

func (k Kind) String() string {
	switch k {
	case KindQuestion:
		return "question"
	case KindSectionBreak:
		return "section_break"
	default:
		return "other"
	}
}

// Body is the kind-specific payload of an Item.
// The set of implementations is closed: QuestionBody, SectionBreakBody, OtherBody.
type Body interface {
	Kind() Kind
	isBody()
}

type QuestionType string

const (
	QuestionText       QuestionType = "text"
	QuestionParagraph  QuestionType = "paragraph"
	QuestionRadio      QuestionType = "radio"
	QuestionCheckbox   QuestionType = "checkbox"
	QuestionDropdown   QuestionType = "dropdown"
	QuestionScale      QuestionType = "scale"
	QuestionDate       QuestionType = "date"
	QuestionTime       QuestionType = "time"
	QuestionFileUpload QuestionType = "file_upload"
	QuestionGrid       QuestionType = "grid"
	QuestionUnknown    QuestionType = "unknown"
)

// ParseQuestionType accepts the canonical names plus the aliases used by the
// older command surface ("choice" => radio).
func ParseQuestionType(s string) (QuestionType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "short":
		return QuestionText, true
	case "paragraph", "long":
		return QuestionParagraph, true
	case "choice", "radio":
		return QuestionRadio, true
	case "checkbox", "checkboxes":
		return QuestionCheckbox, true
	case "dropdown", "drop_down":
		return QuestionDropdown, true
	case "scale", "linear_scale":
		return QuestionScale, true
	case "date":
		return QuestionDate, true
	case "time":
		return QuestionTime, true
	case "file_upload", "file":
		return QuestionFileUpload, true
	case "grid":
		return QuestionGrid, true
	default:
		return "", false
	}
}

// IsChoice reports whether the type carries an option list.
func (t QuestionType) IsChoice() bool {
	return t == QuestionRadio || t == QuestionCheckbox || t == QuestionDropdown
}

type Option struct {
	Value         string `json:"value" yaml:"value"`
	GoToAction    string `json:"goToAction,omitempty" yaml:"goToAction,omitempty"`
	GoToSectionID string `json:"goToSectionId,omitempty" yaml:"goToSectionId,omitempty"`
}

type Scale struct {
	Low       int64  `json:"low" yaml:"low"`
	High      int64  `json:"high" yaml:"high"`
	LowLabel  string `json:"lowLabel,omitempty" yaml:"lowLabel,omitempty"`
	HighLabel string `json:"highLabel,omitempty" yaml:"highLabel,omitempty"`
}

type FileUpload struct {
	FolderID    string   `json:"folderId,omitempty" yaml:"folderId,omitempty"`
	Types       []string `json:"types,omitempty" yaml:"types,omitempty"`
	MaxFiles    int64    `json:"maxFiles,omitempty" yaml:"maxFiles,omitempty"`
	MaxFileSize int64    `json:"maxFileSize,omitempty" yaml:"maxFileSize,omitempty"`
}

type QuestionBody struct {
	Type     QuestionType `json:"type" yaml:"type"`
	Required bool         `json:"required" yaml:"required"`

	Options     []Option    `json:"options,omitempty" yaml:"options,omitempty"`
	Scale       *Scale      `json:"scale,omitempty" yaml:"scale,omitempty"`
	IncludeTime bool        `json:"includeTime,omitempty" yaml:"includeTime,omitempty"`
	IncludeYear bool        `json:"includeYear,omitempty" yaml:"includeYear,omitempty"`
	Duration    bool        `json:"duration,omitempty" yaml:"duration,omitempty"`
	FileUpload  *FileUpload `json:"fileUpload,omitempty" yaml:"fileUpload,omitempty"`
}

func (QuestionBody) Kind() Kind { return KindQuestion }
func (QuestionBody) isBody()    {}

// SectionBreakBody opens a new section. The navigation target applies once a
// respondent finishes the section the break opens.
type SectionBreakBody struct {
	GoToAction    string `json:"goToAction,omitempty" yaml:"goToAction,omitempty"`
	GoToSectionID string `json:"goToSectionId,omitempty" yaml:"goToSectionId,omitempty"`
}

func (SectionBreakBody) Kind() Kind { return KindSectionBreak }
func (SectionBreakBody) isBody()    {}

// OtherBody keeps non-question content (text, image, video, question groups)
// opaque; only its remote type name is retained.
type OtherBody struct {
	Type string `json:"type" yaml:"type"`
}

func (OtherBody) Kind() Kind { return KindOther }
func (OtherBody) isBody()    {}

// Item is one element of a form's ordered content array.
// Its position is not part of the item; it belongs to the snapshot it came from.
type Item struct {
	ID          string
	Title       string
	Description string
	Body        Body
}

func (it Item) Kind() Kind {
	if it.Body == nil {
		return KindOther
	}
	return it.Body.Kind()
}

func (it Item) IsQuestion() bool     { return it.Kind() == KindQuestion }
func (it Item) IsSectionBreak() bool { return it.Kind() == KindSectionBreak }

// Question returns the question payload when the item is a question.
func (it Item) Question() (QuestionBody, bool) {
	switch b := it.Body.(type) {
	case QuestionBody:
		return b, true
	case *QuestionBody:
		if b != nil {
			return *b, true
		}
	}
	return QuestionBody{}, false
}

// SectionBreak returns the break payload when the item is a section break.
func (it Item) SectionBreak() (SectionBreakBody, bool) {
	switch b := it.Body.(type) {
	case SectionBreakBody:
		return b, true
	case *SectionBreakBody:
		if b != nil {
			return *b, true
		}
	}
	return SectionBreakBody{}, false
}

type itemJSON struct {
	ID           string            `json:"id,omitempty"`
	Kind         string            `json:"kind"`
	Title        string            `json:"title"`
	Description  string            `json:"description,omitempty"`
	Question     *QuestionBody     `json:"question,omitempty"`
	SectionBreak *SectionBreakBody `json:"sectionBreak,omitempty"`
	Other        *OtherBody        `json:"other,omitempty"`
}

func (it Item) MarshalJSON() ([]byte, error) {
	out := itemJSON{
		ID:          it.ID,
		Kind:        it.Kind().String(),
		Title:       it.Title,
		Description: it.Description,
	}
	switch it.Kind() {
	case KindQuestion:
		q, _ := it.Question()
		out.Question = &q
	case KindSectionBreak:
		b, _ := it.SectionBreak()
		out.SectionBreak = &b
	case KindOther:
		if o, ok := it.Body.(OtherBody); ok {
			out.Other = &o
		}
	}
	return json.Marshal(out)
}

func (it *Item) UnmarshalJSON(b []byte) error {
	var in itemJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	it.ID = in.ID
	it.Title = in.Title
	it.Description = in.Description
	switch {
	case in.Question != nil || in.Kind == KindQuestion.String():
		q := QuestionBody{Type: QuestionText}
		if in.Question != nil {
			q = *in.Question
		}
		it.Body = q
	case in.SectionBreak != nil || in.Kind == KindSectionBreak.String():
		s := SectionBreakBody{}
		if in.SectionBreak != nil {
			s = *in.SectionBreak
		}
		it.Body = s
	default:
		o := OtherBody{Type: "other"}
		if in.Other != nil {
			o = *in.Other
		}
		it.Body = o
	}
	return nil
}

// FormInfo is the form-level metadata.
type FormInfo struct {
	Title         string `json:"title" yaml:"title"`
	Description   string `json:"description,omitempty" yaml:"description,omitempty"`
	DocumentTitle string `json:"documentTitle,omitempty" yaml:"documentTitle,omitempty"`
}

// Snapshot is a point-in-time copy of a form. It is valid for the duration of
// one public operation only.
type Snapshot struct {
	FormID       string   `json:"formId"`
	Info         FormInfo `json:"info"`
	RevisionID   string   `json:"revisionId,omitempty"`
	ResponderURI string   `json:"responderUri,omitempty"`
	Items        []Item   `json:"items"`
}
