package docs

import (
	"strings"
	"testing"
)

func TestTopics(t *testing.T) {
	got := strings.Join(Topics(), ",")
	if got != "config,fixtures,overview,positions,sections" {
		t.Fatalf("topics: %s", got)
	}
}

func TestGet(t *testing.T) {
	body, ok := Get(" Positions ")
	if !ok || !strings.Contains(body, "form-end") {
		t.Fatalf("positions topic missing or incomplete")
	}
	if _, ok := Get("../docs"); ok {
		t.Fatalf("path traversal should not resolve")
	}
	if _, ok := Get("nope"); ok {
		t.Fatalf("unknown topic resolved")
	}
}

func TestRender_Plain(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("FORMCTL_MD_STYLE", "plain")
	body, _ := Get("overview")
	out := Render(body, 80)
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("plain style emitted escapes")
	}
	if !strings.Contains(out, "Addressing") || !strings.Contains(out, "Commands") {
		t.Fatalf("rendered text lost content:\n%s", out)
	}
}
