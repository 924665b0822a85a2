package query

import (
	"strings"
	"testing"
)

func TestBuildPrompt_IncludesContexts(t *testing.T) {
	ctxs := []ContextSnippet{
		{DocID: 7, Page: 2, Snippet: "alpha snippet"},
		{DocID: 9, Page: 5, Snippet: "  beta snippet\x00  "},
	}
	sysMsg, userMsg := buildPrompt("what is alpha?", ctxs)

	if !strings.Contains(sysMsg, "alpha snippet") {
		t.Fatalf("system message missing first snippet: %q", sysMsg)
	}
	if !strings.Contains(sysMsg, "(doc_id=9, page=5)") {
		t.Fatalf("system message missing second snippet tag: %q", sysMsg)
	}
	if strings.Contains(sysMsg, "\x00") {
		t.Fatalf("system message contains NUL byte")
	}
	if !strings.Contains(sysMsg, NoEvidenceAnswer) {
		t.Fatalf("system message missing refusal instruction")
	}
	if !strings.Contains(userMsg, "what is alpha?") {
		t.Fatalf("user message missing question: %q", userMsg)
	}
}

func TestSanitize(t *testing.T) {
	if got := sanitize("  a\x00b  "); got != "ab" {
		t.Fatalf("sanitize = %q, want %q", got, "ab")
	}
}
