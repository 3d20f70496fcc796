package prompt

import (
	_ "embed"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/research-assistant/agent/contract"
)

var (
	//go:embed template/summarize.txt
	summarizeRaw string

	//go:embed template/factcheck.txt
	factCheckRaw string

	//go:embed template/code.txt
	codeRaw string
)

// PromptSet holds loaded prompt templates.
type PromptSet struct {
	Summarize string
	FactCheck string
	Code      string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Summarize: strings.TrimSpace(summarizeRaw),
		FactCheck: strings.TrimSpace(factCheckRaw),
		Code:      strings.TrimSpace(codeRaw),
	}
}

// Validate reports templates that are empty or missing their placeholder.
func (p PromptSet) Validate() error {
	checks := []struct {
		name, tmpl string
		keys       []string
	}{
		{"summarize", p.Summarize, []string{"{text}"}},
		{"factcheck", p.FactCheck, []string{"{statement}", "{evidence}"}},
		{"code", p.Code, []string{"{task}"}},
	}
	for _, c := range checks {
		if c.tmpl == "" {
			return fmt.Errorf("%w: %s template is empty", contractx.ErrPromptMissing, c.name)
		}
		for _, k := range c.keys {
			if !strings.Contains(c.tmpl, k) {
				return fmt.Errorf("%w: %s template lacks %s", contractx.ErrPromptMissing, c.name, k)
			}
		}
	}
	return nil
}

// Placeholders are substituted in a single pass, so user text containing
// "{evidence}" or similar is never expanded a second time.

func (p PromptSet) SummarizePrompt(text string) string {
	return strings.NewReplacer("{text}", text).Replace(p.Summarize)
}

func (p PromptSet) FactCheckPrompt(statement, evidence string) string {
	return strings.NewReplacer("{statement}", statement, "{evidence}", evidence).Replace(p.FactCheck)
}

func (p PromptSet) CodePrompt(task string) string {
	return strings.NewReplacer("{task}", task).Replace(p.Code)
}
