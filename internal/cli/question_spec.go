package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"formctl/internal/model"
)

// questionFile is the --from-file layout. JSON parses through the YAML
// decoder.
//
//	title: Favourite colour
//	type: dropdown
//	required: true
//	options:
//	  - value: Red
//	  - value: Other
//	    goToAction: SUBMIT_FORM
type questionFile struct {
	Title              string `yaml:"title"`
	Description        string `yaml:"description"`
	model.QuestionBody `yaml:",inline"`
}

type questionFlags struct {
	fromFile    string
	title       string
	description string
	qtype       string
	required    bool
	options     []string
	low, high   int64
	lowLabel    string
	highLabel   string
}

func (f *questionFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.fromFile, "from-file", "", "Read the question from a YAML/JSON file; flags override its fields")
	fl.StringVar(&f.title, "title", "", "Question title")
	fl.StringVar(&f.description, "description", "", "Help text")
	fl.StringVar(&f.qtype, "type", "", "text|paragraph|radio|checkbox|dropdown|scale|date|time|file_upload")
	fl.BoolVar(&f.required, "required", false, "Answer is required")
	fl.StringArrayVar(&f.options, "option", nil, `Choice option (repeatable); "Value=>SUBMIT_FORM" or "Value=>ITEM_ID" adds navigation`)
	fl.Int64Var(&f.low, "low", 1, "Scale lower bound")
	fl.Int64Var(&f.high, "high", 5, "Scale upper bound")
	fl.StringVar(&f.lowLabel, "low-label", "", "Scale lower label")
	fl.StringVar(&f.highLabel, "high-label", "", "Scale upper label")
}

// apply layers the file and the changed flags over base.
func (f *questionFlags) apply(cmd *cobra.Command, base model.Item) (model.Item, error) {
	out := base
	body, _ := base.Question()

	if f.fromFile != "" {
		b, err := os.ReadFile(f.fromFile)
		if err != nil {
			return model.Item{}, err
		}
		var qf questionFile
		if err := yaml.Unmarshal(b, &qf); err != nil {
			return model.Item{}, model.InvalidArgument("from-file", "%v", err)
		}
		out.Title, out.Description = qf.Title, qf.Description
		body = qf.QuestionBody
		if body.Type != "" {
			t, ok := model.ParseQuestionType(string(body.Type))
			if !ok {
				return model.Item{}, model.InvalidArgument("type", "unknown question type %q", body.Type)
			}
			body.Type = t
		}
	}

	changed := cmd.Flags().Changed
	if changed("title") {
		out.Title = f.title
	}
	if changed("description") {
		out.Description = f.description
	}
	if changed("type") {
		t, ok := model.ParseQuestionType(f.qtype)
		if !ok {
			return model.Item{}, model.InvalidArgument("type", "unknown question type %q", f.qtype)
		}
		body.Type = t
	}
	if body.Type == "" {
		body.Type = model.QuestionText
	}
	if changed("required") {
		body.Required = f.required
	}
	if changed("option") {
		body.Options = parseOptions(f.options)
	}
	if changed("low") || changed("high") || changed("low-label") || changed("high-label") {
		s := model.Scale{Low: 1, High: 5}
		if body.Scale != nil {
			s = *body.Scale
		}
		if changed("low") {
			s.Low = f.low
		}
		if changed("high") {
			s.High = f.high
		}
		if changed("low-label") {
			s.LowLabel = f.lowLabel
		}
		if changed("high-label") {
			s.HighLabel = f.highLabel
		}
		body.Scale = &s
	}
	if body.Type == model.QuestionScale && body.Scale != nil && body.Scale.Low >= body.Scale.High {
		return model.Item{}, model.InvalidArgument("scale", "low (%d) must be below high (%d)", body.Scale.Low, body.Scale.High)
	}
	if !body.Type.IsChoice() {
		body.Options = nil
	}

	out.Body = body
	return out, nil
}

var goToActions = map[string]bool{"NEXT_SECTION": true, "RESTART_FORM": true, "SUBMIT_FORM": true}

func parseOptions(raw []string) []model.Option {
	out := make([]model.Option, 0, len(raw))
	for _, r := range raw {
		value, target, ok := strings.Cut(r, "=>")
		opt := model.Option{Value: strings.TrimSpace(value)}
		if ok {
			target = strings.TrimSpace(target)
			if goToActions[strings.ToUpper(target)] {
				opt.GoToAction = strings.ToUpper(target)
			} else {
				opt.GoToSectionID = target
			}
		}
		out = append(out, opt)
	}
	return out
}
