package format

import (
	"bytes"
	"strings"
	"testing"

	"formctl/internal/formsvc"
	"formctl/internal/model"
)

func TestWriteEDN_KebabKeywordsAndNumbers(t *testing.T) {
	var buf bytes.Buffer
	v := map[string]any{
		"data": map[string]any{
			"questionCount": 3,
			"formId":        "f1",
			"big":           int64(9007199254740993),
			"ratio":         0.5,
			"tags":          []string{"a", "b"},
			"none":          nil,
		},
	}
	if err := WriteEDN(&buf, v, false); err != nil {
		t.Fatalf("WriteEDN: %v", err)
	}
	got := strings.TrimSpace(buf.String())
	want := `{:data {:big 9007199254740993 :form-id "f1" :none nil :question-count 3 :ratio 0.5 :tags ["a" "b"]}}`
	if got != want {
		t.Fatalf("edn mismatch\nwant: %s\n got: %s", want, got)
	}
}

func TestWriteEDN_Pretty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEDN(&buf, map[string]any{"a": []int{1}, "b": map[string]any{}}, true); err != nil {
		t.Fatal(err)
	}
	want := "{\n  :a [\n    1\n  ]\n  :b {}\n}\n"
	if buf.String() != want {
		t.Fatalf("pretty edn mismatch:\n%q", buf.String())
	}
}

func TestWriteJSON_NoHTMLEscaping(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, map[string]string{"title": "Q&A <draft>"}, "json", false); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != `{"title":"Q&A <draft>"}` {
		t.Fatalf("unexpected json: %s", buf.String())
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, 1, "xml", false); err == nil {
		t.Fatalf("expected error for unknown format")
	}
	if Valid("xml") || !Valid("TEXT") {
		t.Fatalf("Valid disagrees with Write")
	}
}

func TestWriteText_Sections(t *testing.T) {
	brk := model.Item{ID: "p1", Title: "Details", Body: model.SectionBreakBody{}}
	secs := []model.Section{
		{Number: 1, StartIndex: 0, EndIndex: 2, Title: "Section 1", QuestionCount: 2},
		{Number: 2, StartIndex: 2, EndIndex: 4, Break: &brk, Title: "Details", QuestionCount: 1},
	}
	var buf bytes.Buffer
	if err := WriteText(&buf, secs); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Section", "Questions", "Details", "2-4", "p1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	// Buffers are not terminals: no escape sequences.
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("unexpected ANSI escapes in non-tty output:\n%q", out)
	}
}

func TestWriteText_QuestionsClipLongTitles(t *testing.T) {
	long := strings.Repeat("very long question title ", 10)
	qs := []model.Question{{
		Item:            model.Item{ID: "q9", Title: long, Body: model.QuestionBody{Type: model.QuestionRadio, Required: true}},
		SectionNumber:   2,
		NumberInSection: 1,
		GlobalNumber:    4,
	}}
	var buf bytes.Buffer
	if err := WriteText(&buf, qs); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "…") || strings.Contains(out, long) {
		t.Fatalf("title not clipped:\n%s", out)
	}
	if !strings.Contains(out, "2.1") || !strings.Contains(out, "radio") {
		t.Fatalf("missing position or type:\n%s", out)
	}
}

func TestWriteText_Result(t *testing.T) {
	res := formsvc.Result{
		Operation: "move_section",
		Ops:       []model.Op{model.MoveItem(0, 6), model.MoveItem(0, 6)},
		DryRun:    true,
	}
	var buf bytes.Buffer
	if err := WriteText(&buf, res); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "move_section: planned (dry run), 2 op(s)") {
		t.Fatalf("header:\n%s", out)
	}
	if strings.Count(out, "move 0 -> 6") != 2 {
		t.Fatalf("ops:\n%s", out)
	}
}

func TestWriteText_FallsBackToYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, map[string]any{"key": "value"}); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "key: value" {
		t.Fatalf("yaml fallback: %q", buf.String())
	}
}
