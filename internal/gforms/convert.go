package gforms

import (
	"slices"
	"strings"

	forms "google.golang.org/api/forms/v1"

	"formctl/internal/model"
)

func itemFromAPI(it *forms.Item) model.Item {
	if it == nil {
		return model.Item{Body: model.OtherBody{Type: "unknown"}}
	}
	out := model.Item{ID: it.ItemId, Title: it.Title, Description: it.Description}
	switch {
	case it.PageBreakItem != nil:
		out.Body = model.SectionBreakBody{}
	case it.QuestionItem != nil && it.QuestionItem.Question != nil:
		out.Body = questionFromAPI(it.QuestionItem.Question)
	case it.QuestionGroupItem != nil:
		out.Body = model.OtherBody{Type: "question_group"}
	case it.TextItem != nil:
		out.Body = model.OtherBody{Type: "text"}
	case it.ImageItem != nil:
		out.Body = model.OtherBody{Type: "image"}
	case it.VideoItem != nil:
		out.Body = model.OtherBody{Type: "video"}
	default:
		out.Body = model.OtherBody{Type: "unknown"}
	}
	return out
}

func questionFromAPI(q *forms.Question) model.QuestionBody {
	out := model.QuestionBody{Type: model.QuestionUnknown, Required: q.Required}
	switch {
	case q.ChoiceQuestion != nil:
		switch q.ChoiceQuestion.Type {
		case "CHECKBOX":
			out.Type = model.QuestionCheckbox
		case "DROP_DOWN":
			out.Type = model.QuestionDropdown
		default:
			out.Type = model.QuestionRadio
		}
		for _, o := range q.ChoiceQuestion.Options {
			if o == nil {
				continue
			}
			out.Options = append(out.Options, model.Option{Value: o.Value, GoToAction: o.GoToAction, GoToSectionID: o.GoToSectionId})
		}
	case q.TextQuestion != nil:
		out.Type = model.QuestionText
		if q.TextQuestion.Paragraph {
			out.Type = model.QuestionParagraph
		}
	case q.ScaleQuestion != nil:
		out.Type = model.QuestionScale
		out.Scale = &model.Scale{
			Low:       q.ScaleQuestion.Low,
			High:      q.ScaleQuestion.High,
			LowLabel:  q.ScaleQuestion.LowLabel,
			HighLabel: q.ScaleQuestion.HighLabel,
		}
	case q.DateQuestion != nil:
		out.Type = model.QuestionDate
		out.IncludeTime = q.DateQuestion.IncludeTime
		out.IncludeYear = q.DateQuestion.IncludeYear
	case q.TimeQuestion != nil:
		out.Type = model.QuestionTime
		out.Duration = q.TimeQuestion.Duration
	case q.FileUploadQuestion != nil:
		out.Type = model.QuestionFileUpload
		out.FileUpload = &model.FileUpload{
			FolderID:    q.FileUploadQuestion.FolderId,
			Types:       q.FileUploadQuestion.Types,
			MaxFiles:    q.FileUploadQuestion.MaxFiles,
			MaxFileSize: q.FileUploadQuestion.MaxFileSize,
		}
	}
	return out
}

var choiceTypes = map[model.QuestionType]string{
	model.QuestionRadio:    "RADIO",
	model.QuestionCheckbox: "CHECKBOX",
	model.QuestionDropdown: "DROP_DOWN",
}

func itemToAPI(it model.Item) (*forms.Item, error) {
	out := &forms.Item{ItemId: it.ID, Title: it.Title, Description: it.Description}
	switch b := it.Body.(type) {
	case model.SectionBreakBody:
		if b.GoToAction != "" || b.GoToSectionID != "" {
			return nil, model.InvalidArgument("go-to", "the Forms API cannot set section navigation")
		}
		out.PageBreakItem = &forms.PageBreakItem{}
	case model.QuestionBody:
		q, err := questionToAPI(b)
		if err != nil {
			return nil, err
		}
		out.QuestionItem = &forms.QuestionItem{Question: q}
	default:
		return nil, model.InvalidArgument("item", "%s items cannot be written", it.Kind())
	}
	return out, nil
}

func questionToAPI(b model.QuestionBody) (*forms.Question, error) {
	q := &forms.Question{Required: b.Required}
	switch b.Type {
	case model.QuestionText, "":
		q.TextQuestion = &forms.TextQuestion{}
	case model.QuestionParagraph:
		q.TextQuestion = &forms.TextQuestion{Paragraph: true}
	case model.QuestionRadio, model.QuestionCheckbox, model.QuestionDropdown:
		if len(b.Options) == 0 {
			return nil, model.InvalidArgument("options", "%s questions need at least one option", b.Type)
		}
		cq := &forms.ChoiceQuestion{Type: choiceTypes[b.Type]}
		for _, o := range b.Options {
			cq.Options = append(cq.Options, &forms.Option{Value: o.Value, GoToAction: o.GoToAction, GoToSectionId: o.GoToSectionID})
		}
		q.ChoiceQuestion = cq
	case model.QuestionScale:
		s := model.Scale{Low: 1, High: 5}
		if b.Scale != nil {
			s = *b.Scale
		}
		q.ScaleQuestion = &forms.ScaleQuestion{
			Low:       s.Low,
			High:      s.High,
			LowLabel:  s.LowLabel,
			HighLabel: s.HighLabel,
			// Low is commonly 0, which would otherwise be omitted.
			ForceSendFields: []string{"Low"},
		}
	case model.QuestionDate:
		q.DateQuestion = &forms.DateQuestion{IncludeTime: b.IncludeTime, IncludeYear: b.IncludeYear}
	case model.QuestionTime:
		q.TimeQuestion = &forms.TimeQuestion{Duration: b.Duration}
	case model.QuestionFileUpload:
		fu := &forms.FileUploadQuestion{}
		if b.FileUpload != nil {
			fu.FolderId = b.FileUpload.FolderID
			fu.Types = b.FileUpload.Types
			fu.MaxFiles = b.FileUpload.MaxFiles
			fu.MaxFileSize = b.FileUpload.MaxFileSize
		}
		q.FileUploadQuestion = fu
	default:
		return nil, model.InvalidArgument("type", "question type %q cannot be written", b.Type)
	}
	return q, nil
}

// maskedItemToAPI converts only what mask names. A title or description edit
// of a question kind this tool cannot write leaves its body untouched.
func maskedItemToAPI(it model.Item, mask []string) (*forms.Item, error) {
	if len(mask) == 0 || slices.Contains(mask, "*") || slices.Contains(mask, "questionItem") || slices.Contains(mask, "pageBreakItem") {
		return itemToAPI(it)
	}
	return &forms.Item{Title: it.Title, Description: it.Description}, nil
}

// location always sends Index, including index 0.
func location(i int) *forms.Location {
	return &forms.Location{Index: int64(i), ForceSendFields: []string{"Index"}}
}

func requestFor(op model.Op) (*forms.Request, error) {
	switch op.Type {
	case model.OpCreateItem:
		if op.Item == nil {
			return nil, model.InvalidArgument("op", "create without an item")
		}
		it, err := itemToAPI(*op.Item)
		if err != nil {
			return nil, err
		}
		it.ItemId = ""
		return &forms.Request{CreateItem: &forms.CreateItemRequest{Item: it, Location: location(op.Index)}}, nil

	case model.OpUpdateItem:
		if op.Item == nil {
			return nil, model.InvalidArgument("op", "update without an item")
		}
		it, err := maskedItemToAPI(*op.Item, op.Mask)
		if err != nil {
			return nil, err
		}
		it.ItemId = op.ItemID
		mask := strings.Join(op.Mask, ",")
		if mask == "" {
			mask = "*"
		}
		return &forms.Request{UpdateItem: &forms.UpdateItemRequest{Item: it, Location: location(op.Index), UpdateMask: mask}}, nil

	case model.OpDeleteItem:
		return &forms.Request{DeleteItem: &forms.DeleteItemRequest{Location: location(op.Index)}}, nil

	case model.OpMoveItem:
		return &forms.Request{MoveItem: &forms.MoveItemRequest{OriginalLocation: location(op.Index), NewLocation: location(op.To)}}, nil

	case model.OpUpdateInfo:
		if op.Info == nil {
			return nil, model.InvalidArgument("op", "info update without info")
		}
		return &forms.Request{UpdateFormInfo: &forms.UpdateFormInfoRequest{
			Info:       &forms.Info{Title: op.Info.Title, Description: op.Info.Description},
			UpdateMask: strings.Join(op.Mask, ","),
		}}, nil
	}
	return nil, model.InvalidArgument("op", "unsupported op %s", op.Type)
}
