package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"

	"formctl/internal/formsvc"
	"formctl/internal/model"
)

const maxTitleWidth = 48

// WriteText renders v for a terminal. Colour follows the writer: plain text
// when w is not a terminal or NO_COLOR is set.
func WriteText(w io.Writer, v any) error {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.NewOutput(w).EnvColorProfile())
	p := textPrinter{w: w, r: r}

	switch t := v.(type) {
	case formsvc.FormSummary:
		return p.summary(t)
	case []model.Section:
		return p.sections(t)
	case []model.Question:
		return p.questions(t)
	case model.Question:
		return p.questions([]model.Question{t})
	case formsvc.Result:
		return p.result(t)
	case []model.BatchRecord:
		return p.journal(t)
	default:
		b, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	}
}

type textPrinter struct {
	w io.Writer
	r *lipgloss.Renderer
}

func (p textPrinter) table(headers []string, rows [][]string) *table.Table {
	header := p.r.NewStyle().Bold(true).Padding(0, 1)
	cell := p.r.NewStyle().Padding(0, 1)
	muted := cell.Foreground(lipgloss.AdaptiveColor{Light: "245", Dark: "241"})
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(p.r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "250", Dark: "238"})).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if col == len(headers)-1 {
				return muted
			}
			return cell
		})
}

func (p textPrinter) println(s string) error {
	_, err := fmt.Fprintln(p.w, s)
	return err
}

func clip(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return xansi.Truncate(s, maxTitleWidth, "…")
}

func (p textPrinter) summary(s formsvc.FormSummary) error {
	title := p.r.NewStyle().Bold(true).Render(s.Info.Title)
	lines := []string{title}
	if s.Info.Description != "" {
		lines = append(lines, clip(s.Info.Description))
	}
	lines = append(lines, fmt.Sprintf("%d items, %d questions, %d sections", s.ItemCount, s.QuestionCount, len(s.Sections)))
	if s.ResponderURI != "" {
		lines = append(lines, s.ResponderURI)
	}
	if err := p.println(strings.Join(lines, "\n")); err != nil {
		return err
	}
	return p.sections(s.Sections)
}

func (p textPrinter) sections(secs []model.Section) error {
	rows := make([][]string, 0, len(secs))
	for _, s := range secs {
		breakID := "-"
		if s.Break != nil {
			breakID = s.Break.ID
		}
		rows = append(rows, []string{
			strconv.Itoa(s.Number),
			clip(s.Title),
			strconv.Itoa(s.QuestionCount),
			fmt.Sprintf("%d-%d", s.StartIndex, s.EndIndex),
			breakID,
		})
	}
	return p.println(p.table([]string{"#", "Section", "Questions", "Items", "Break"}, rows).Render())
}

func (p textPrinter) questions(qs []model.Question) error {
	rows := make([][]string, 0, len(qs))
	for _, q := range qs {
		body, _ := q.Item.Question()
		req := ""
		if body.Required {
			req = "*"
		}
		rows = append(rows, []string{
			strconv.Itoa(q.GlobalNumber),
			fmt.Sprintf("%d.%d", q.SectionNumber, q.NumberInSection),
			string(body.Type),
			req,
			clip(q.Item.Title),
			q.Item.ID,
		})
	}
	return p.println(p.table([]string{"#", "Pos", "Type", "Req", "Title", "ID"}, rows).Render())
}

func (p textPrinter) result(res formsvc.Result) error {
	state := "applied"
	switch {
	case res.DryRun:
		state = "planned (dry run)"
	case len(res.Ops) == 0:
		state = "no change"
	case !res.Applied:
		state = "not applied"
	}
	head := fmt.Sprintf("%s: %s, %d op(s)", res.Operation, state, len(res.Ops))
	if id := res.CreatedItemID(); id != "" {
		head += ", created " + id
	}
	if err := p.println(p.r.NewStyle().Bold(true).Render(head)); err != nil {
		return err
	}
	for i, op := range res.Ops {
		if err := p.println(fmt.Sprintf("  %2d  %s", i, op)); err != nil {
			return err
		}
	}
	return nil
}

func (p textPrinter) journal(recs []model.BatchRecord) error {
	rows := make([][]string, 0, len(recs))
	for _, rec := range recs {
		status := rec.Status
		if rec.Error != "" {
			status += ": " + clip(rec.Error)
		}
		rows = append(rows, []string{
			rec.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			rec.FormID,
			rec.Operation,
			strconv.Itoa(len(rec.Ops)),
			status,
		})
	}
	return p.println(p.table([]string{"When", "Form", "Operation", "Ops", "Status"}, rows).Render())
}
