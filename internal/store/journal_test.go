package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"formctl/internal/model"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := OpenJournal(context.Background(), filepath.Join(t.TempDir(), "nested", "journal.sqlite"))
	if err != nil {
		t.Fatalf("OpenJournal: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestJournal_RecordAndList(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	j.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	q := model.Item{Title: "Email", Body: model.QuestionBody{Type: model.QuestionText}}
	recs := []model.BatchRecord{
		{FormID: "f1", Operation: "add_question", Ops: []model.Op{model.CreateItem(0, q)}, Status: model.BatchStatusOK, RevisionID: "r1"},
		{FormID: "f2", Operation: "remove_section", Ops: []model.Op{model.DeleteItem(3), model.DeleteItem(2)}, Status: model.BatchStatusOK},
		{FormID: "f1", Operation: "move_section", Ops: []model.Op{model.MoveItem(0, 4), model.MoveItem(0, 4)}, Status: model.BatchStatusError, Error: "remote rejected operation 1: bad"},
	}
	for _, r := range recs {
		if err := j.Record(ctx, r); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := j.List(ctx, JournalFilter{FormID: "f1"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records for f1, got %d", len(got))
	}
	if got[0].Operation != "move_section" || got[1].Operation != "add_question" {
		t.Fatalf("expected newest first, got %s then %s", got[0].Operation, got[1].Operation)
	}
	if got[0].Status != model.BatchStatusError || got[0].Error == "" {
		t.Fatalf("error outcome not kept: %+v", got[0])
	}
	if got[0].Ops[1].Type != model.OpMoveItem || got[0].Ops[1].To != 4 {
		t.Fatalf("ops did not round-trip: %+v", got[0].Ops)
	}
	if got[1].Ops[0].Item == nil || got[1].Ops[0].Item.Title != "Email" || !got[1].Ops[0].Item.IsQuestion() {
		t.Fatalf("created item did not round-trip: %+v", got[1].Ops[0].Item)
	}
	if got[1].RevisionID != "r1" || got[1].ID == "" {
		t.Fatalf("revision/id missing: %+v", got[1])
	}
	if !got[1].CreatedAt.Equal(base.Add(time.Second)) {
		t.Fatalf("created_at: %s", got[1].CreatedAt)
	}

	all, err := j.List(ctx, JournalFilter{Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].FormID != "f1" {
		t.Fatalf("limit/ordering across forms: %+v", all)
	}
}

func TestJournal_ReopenKeepsRows(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.sqlite")

	j, err := OpenJournal(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := j.Record(ctx, model.BatchRecord{FormID: "f", Operation: "update_info", Status: model.BatchStatusOK}); err != nil {
		t.Fatal(err)
	}
	_ = j.Close()

	j, err = OpenJournal(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer j.Close()
	got, err := j.List(ctx, JournalFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || len(got[0].Ops) != 0 {
		t.Fatalf("unexpected rows after reopen: %+v", got)
	}
}
