package gforms

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	forms "google.golang.org/api/forms/v1"

	"formctl/internal/formsvc"
	"formctl/internal/model"
	"formctl/internal/mutate"
)

const formJSON = `{
  "formId": "f1",
  "revisionId": "00000042",
  "responderUri": "https://docs.google.com/forms/d/e/xyz/viewform",
  "info": {"title": "Intake", "documentTitle": "Intake form"},
  "items": [
    {"itemId": "q1", "title": "Name", "questionItem": {"question": {"required": true, "textQuestion": {}}}},
    {"itemId": "t1", "title": "Note", "textItem": {}},
    {"itemId": "p1", "title": "Details", "pageBreakItem": {}},
    {"itemId": "q2", "title": "Colour", "questionItem": {"question": {"choiceQuestion": {"type": "DROP_DOWN", "options": [{"value": "Red"}, {"value": "Blue", "goToAction": "SUBMIT_FORM"}]}}}},
    {"itemId": "q3", "title": "Rating", "questionItem": {"question": {"scaleQuestion": {"low": 0, "high": 10, "highLabel": "Great"}}}},
    {"itemId": "g1", "title": "Grid", "questionGroupItem": {"questions": [{"rowQuestion": {"title": "Row"}}]}},
    {"itemId": "p2", "title": "End", "pageBreakItem": {}},
    {"itemId": "q4", "title": "Bio", "questionItem": {"question": {"textQuestion": {"paragraph": true}}}}
  ]
}`

type fakeForms struct {
	mu       sync.Mutex
	batches  []forms.BatchUpdateFormRequest
	failWith string
}

func (f *fakeForms) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/v1/forms/f1":
		_, _ = io.WriteString(w, formJSON)
	case r.Method == http.MethodPost && r.URL.Path == "/v1/forms/f1:batchUpdate":
		var req forms.BatchUpdateFormRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.batches = append(f.batches, req)
		f.mu.Unlock()
		if f.failWith != "" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"code": 400, "message": f.failWith, "status": "INVALID_ARGUMENT"},
			})
			return
		}
		replies := make([]map[string]any, 0, len(req.Requests))
		for _, rq := range req.Requests {
			if rq.CreateItem != nil {
				replies = append(replies, map[string]any{"createItem": map[string]any{"itemId": "new-1"}})
			} else {
				replies = append(replies, map[string]any{})
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"replies":      replies,
			"writeControl": map[string]any{"requiredRevisionId": "00000043"},
		})
	default:
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 404, "message": "Requested entity was not found.", "status": "NOT_FOUND"},
		})
	}
}

func newTestClient(t *testing.T, fake *fakeForms) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	c, err := New(context.Background(), Options{
		Endpoint:   srv.URL,
		HTTPClient: srv.Client(),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return c
}

func TestFetch_ConvertsItems(t *testing.T) {
	c := newTestClient(t, &fakeForms{})
	snap, err := c.Fetch(context.Background(), "f1")
	require.NoError(t, err)

	require.Equal(t, "Intake", snap.Info.Title)
	require.Equal(t, "Intake form", snap.Info.DocumentTitle)
	require.Equal(t, "00000042", snap.RevisionID)
	require.Len(t, snap.Items, 8)

	kinds := make([]string, 0, len(snap.Items))
	for _, it := range snap.Items {
		kinds = append(kinds, it.Kind().String())
	}
	require.Equal(t, []string{"question", "other", "section_break", "question", "question", "other", "section_break", "question"}, kinds)

	q1, _ := snap.Items[0].Question()
	require.True(t, q1.Required)
	require.Equal(t, model.QuestionText, q1.Type)

	q2, _ := snap.Items[3].Question()
	require.Equal(t, model.QuestionDropdown, q2.Type)
	require.Equal(t, []model.Option{{Value: "Red"}, {Value: "Blue", GoToAction: "SUBMIT_FORM"}}, q2.Options)

	q3, _ := snap.Items[4].Question()
	require.Equal(t, &model.Scale{Low: 0, High: 10, HighLabel: "Great"}, q3.Scale)

	require.Equal(t, model.OtherBody{Type: "question_group"}, snap.Items[5].Body)

	q4, _ := snap.Items[7].Question()
	require.Equal(t, model.QuestionParagraph, q4.Type)
}

func TestFetch_UnknownFormIsRemoteFailure(t *testing.T) {
	c := newTestClient(t, &fakeForms{})
	_, err := c.Fetch(context.Background(), "missing")
	var rf *model.RemoteFailureError
	require.ErrorAs(t, err, &rf)
	require.Equal(t, 404, rf.Status)
	require.Equal(t, -1, rf.OpIndex)
}

func TestApply_SendsRequestsInOrder(t *testing.T) {
	fake := &fakeForms{}
	c := newTestClient(t, fake)

	q := model.Item{Title: "Email", Body: model.QuestionBody{Type: model.QuestionText, Required: true}}
	b := model.Batch{Ops: []model.Op{
		model.CreateItem(0, q),
		model.MoveItem(3, 0),
		model.DeleteItem(5),
		model.UpdateItem(1, "q1", q, "title", "questionItem"),
		{Type: model.OpUpdateInfo, Info: &model.FormInfo{Title: "New"}, Mask: []string{"title"}},
	}}
	res, err := c.Apply(context.Background(), "f1", b)
	require.NoError(t, err)
	require.Equal(t, "new-1", res.Replies[0].CreatedItemID)
	require.Equal(t, "00000043", res.RevisionID)

	require.Len(t, fake.batches, 1)
	reqs := fake.batches[0].Requests
	require.Len(t, reqs, 5)

	require.NotNil(t, reqs[0].CreateItem)
	require.Equal(t, int64(0), reqs[0].CreateItem.Location.Index)
	require.Equal(t, "Email", reqs[0].CreateItem.Item.Title)
	require.True(t, reqs[0].CreateItem.Item.QuestionItem.Question.Required)

	require.Equal(t, int64(3), reqs[1].MoveItem.OriginalLocation.Index)
	require.Equal(t, int64(0), reqs[1].MoveItem.NewLocation.Index)

	require.Equal(t, int64(5), reqs[2].DeleteItem.Location.Index)

	require.Equal(t, "q1", reqs[3].UpdateItem.Item.ItemId)
	require.Equal(t, "title,questionItem", reqs[3].UpdateItem.UpdateMask)

	require.Equal(t, "New", reqs[4].UpdateFormInfo.Info.Title)
	require.Equal(t, "title", reqs[4].UpdateFormInfo.UpdateMask)
	require.Nil(t, fake.batches[0].WriteControl)
}

func TestLocationIndexZeroIsSent(t *testing.T) {
	b, err := json.Marshal(location(0))
	require.NoError(t, err)
	require.JSONEq(t, `{"index":0}`, string(b))
}

func TestApply_RejectionCarriesOpIndex(t *testing.T) {
	fake := &fakeForms{failWith: "Invalid requests[1].moveItem: The location index is out of bounds."}
	c := newTestClient(t, fake)

	_, err := c.Apply(context.Background(), "f1", model.Batch{Ops: []model.Op{model.MoveItem(0, 1), model.MoveItem(0, 99)}})
	require.ErrorIs(t, err, model.ErrRemoteFailure)
	var rf *model.RemoteFailureError
	require.ErrorAs(t, err, &rf)
	require.Equal(t, 1, rf.OpIndex)
	require.Equal(t, 400, rf.Status)
	require.True(t, strings.Contains(rf.Error(), "operation 1"))
}

func TestApply_UnwritableItemFailsBeforeIO(t *testing.T) {
	fake := &fakeForms{}
	c := newTestClient(t, fake)

	other := model.Item{Title: "Logo", Body: model.OtherBody{Type: "image"}}
	_, err := c.Apply(context.Background(), "f1", model.Batch{Ops: []model.Op{model.CreateItem(0, other)}})
	require.ErrorIs(t, err, model.ErrInvalidArgument)

	noOptions := model.Item{Title: "Pick", Body: model.QuestionBody{Type: model.QuestionRadio}}
	_, err = c.Apply(context.Background(), "f1", model.Batch{Ops: []model.Op{model.CreateItem(0, noOptions)}})
	require.ErrorIs(t, err, model.ErrInvalidArgument)

	require.Empty(t, fake.batches)
}

// The engine over the HTTP adapter: one GET, one batchUpdate with the
// planned section move.
func TestServiceOverHTTP_MoveSection(t *testing.T) {
	fake := &fakeForms{}
	c := newTestClient(t, fake)
	svc := formsvc.New(c, c, formsvc.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	// Sections: 1=[0,2) 2=[2,6) 3=[6,8). Move 2 after 3: four moves of 2 -> 7.
	res, err := svc.MoveSection(context.Background(), "f1", 2, 3, model.PositionAfter)
	require.NoError(t, err)
	require.True(t, res.Applied)

	require.Len(t, fake.batches, 1)
	reqs := fake.batches[0].Requests
	require.Len(t, reqs, 4)
	for _, r := range reqs {
		require.Equal(t, int64(2), r.MoveItem.OriginalLocation.Index)
		require.Equal(t, int64(7), r.MoveItem.NewLocation.Index)
	}
}

func TestApply_SectionNavigationIsRejected(t *testing.T) {
	fake := &fakeForms{}
	c := newTestClient(t, fake)

	brk := model.Item{Title: "Details", Body: model.SectionBreakBody{GoToAction: "SUBMIT_FORM"}}
	_, err := c.Apply(context.Background(), "f1", model.Batch{Ops: []model.Op{model.UpdateItem(2, "p1", brk, "pageBreakItem")}})
	require.ErrorIs(t, err, model.ErrInvalidArgument)

	_, err = c.Apply(context.Background(), "f1", model.Batch{Ops: []model.Op{model.CreateItem(2, brk)}})
	require.ErrorIs(t, err, model.ErrInvalidArgument)

	// Through the engine the user sees the rejection, not a no-op success.
	svc := formsvc.New(c, c, formsvc.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	action := "SUBMIT_FORM"
	_, err = svc.UpdateSection(context.Background(), "f1", 2, mutate.SectionPatch{GoToAction: &action})
	require.ErrorIs(t, err, model.ErrInvalidArgument)
	require.NotErrorIs(t, err, model.ErrRemoteFailure)

	require.Empty(t, fake.batches)
}

func TestApply_TitleEditLeavesUnwritableBodyAlone(t *testing.T) {
	fake := &fakeForms{}
	c := newTestClient(t, fake)

	stars := model.Item{ID: "q9", Title: "Stars out of five", Body: model.QuestionBody{Type: model.QuestionUnknown}}
	_, err := c.Apply(context.Background(), "f1", model.Batch{Ops: []model.Op{model.UpdateItem(3, "q9", stars, "title")}})
	require.NoError(t, err)

	require.Len(t, fake.batches, 1)
	upd := fake.batches[0].Requests[0].UpdateItem
	require.NotNil(t, upd)
	require.Equal(t, "title", upd.UpdateMask)
	require.Equal(t, "q9", upd.Item.ItemId)
	require.Equal(t, "Stars out of five", upd.Item.Title)
	require.Nil(t, upd.Item.QuestionItem)
}
