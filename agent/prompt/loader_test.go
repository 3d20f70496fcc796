package prompt

import (
	"errors"
	"strings"
	"testing"

	contractx "github.com/tanpawarit/research-assistant/agent/contract"
)

func TestLoadPromptSetIsValid(t *testing.T) {
	t.Parallel()

	set := LoadPromptSet()
	if err := set.Validate(); err != nil {
		t.Fatalf("embedded prompts invalid: %v", err)
	}
}

func TestSummarizePrompt(t *testing.T) {
	t.Parallel()

	got := LoadPromptSet().SummarizePrompt("Quantum entanglement links particles.")
	want := "Summarize this research text in 3-4 concise sentences:\nQuantum entanglement links particles."
	if got != want {
		t.Fatalf("SummarizePrompt() = %q, want %q", got, want)
	}
}

func TestFactCheckPromptKeepsUserBraces(t *testing.T) {
	t.Parallel()

	got := LoadPromptSet().FactCheckPrompt("the {evidence} is strong", "snippet one\nsnippet two")
	if !strings.Contains(got, "'the {evidence} is strong'") {
		t.Fatalf("statement altered: %q", got)
	}
	if !strings.Contains(got, "sources:\nsnippet one\nsnippet two\n") {
		t.Fatalf("evidence block missing: %q", got)
	}
	if !strings.HasSuffix(got, "Provide True/False and a short explanation.") {
		t.Fatalf("verdict instruction missing: %q", got)
	}
}

func TestFactCheckPromptEmptyEvidence(t *testing.T) {
	t.Parallel()

	got := LoadPromptSet().FactCheckPrompt("water is wet", "")
	if !strings.Contains(got, "sources:\n\nProvide True/False") {
		t.Fatalf("unexpected prompt: %q", got)
	}
}

func TestCodePrompt(t *testing.T) {
	t.Parallel()

	got := LoadPromptSet().CodePrompt("reverse a string")
	if got != "Generate code for the following task:\nreverse a string" {
		t.Fatalf("CodePrompt() = %q", got)
	}
}

func TestValidateMissingPlaceholder(t *testing.T) {
	t.Parallel()

	set := LoadPromptSet()
	set.FactCheck = "Fact-check {statement}"
	if err := set.Validate(); !errors.Is(err, contractx.ErrPromptMissing) {
		t.Fatalf("expected ErrPromptMissing, got %v", err)
	}

	set = LoadPromptSet()
	set.Code = ""
	if err := set.Validate(); !errors.Is(err, contractx.ErrPromptMissing) {
		t.Fatalf("expected ErrPromptMissing, got %v", err)
	}
}
