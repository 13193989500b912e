// Package testsupport builds form item arrays for tests from a compact
// notation: "Q:a B:b Q:c O:d" is a question a, a section break b, a question c
// and an other item d. A token without a prefix is a question.
package testsupport

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"formctl/internal/model"
)

func Q(id string) model.Item {
	return model.Item{ID: id, Title: "Question " + id, Body: model.QuestionBody{Type: model.QuestionText}}
}

func Break(id string) model.Item {
	return model.Item{ID: id, Title: "Section " + id, Body: model.SectionBreakBody{}}
}

func Other(id string) model.Item {
	return model.Item{ID: id, Title: "Text " + id, Body: model.OtherBody{Type: "text"}}
}

// Items parses the compact notation. It panics on malformed input so fixture
// tables stay one line each.
func Items(spec string) []model.Item {
	out := []model.Item{}
	for _, tok := range strings.Fields(spec) {
		kind, id, ok := strings.Cut(tok, ":")
		if !ok {
			out = append(out, Q(tok))
			continue
		}
		switch strings.ToUpper(kind) {
		case "Q":
			out = append(out, Q(id))
		case "B":
			out = append(out, Break(id))
		case "O":
			out = append(out, Other(id))
		default:
			panic(fmt.Sprintf("testsupport: unknown item kind %q in %q", kind, tok))
		}
	}
	return out
}

// IDs projects items to their ids, the identity used by ordering assertions.
func IDs(items []model.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

// Spec renders items back into the compact notation.
func Spec(items []model.Item) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		prefix := "O"
		switch it.Kind() {
		case model.KindQuestion:
			prefix = "Q"
		case model.KindSectionBreak:
			prefix = "B"
		case model.KindOther:
		}
		parts = append(parts, prefix+":"+it.ID)
	}
	return strings.Join(parts, " ")
}

// RequireOrder fails the test when items are not exactly the ids in want.
func RequireOrder(t *testing.T, want string, items []model.Item) {
	t.Helper()
	if diff := cmp.Diff(strings.Fields(want), IDs(items)); diff != "" {
		t.Fatalf("item order mismatch (-want +got):\n%s", diff)
	}
}
