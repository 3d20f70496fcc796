package specialist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/research-assistant/agent/contract"
	promptx "github.com/tanpawarit/research-assistant/agent/prompt"
)

// EvidenceLimit is how many search snippets back one fact-check.
const EvidenceLimit = 3

var _ contractx.Agent = (*FactChecker)(nil)

// FactChecker verifies a statement against web search snippets. Search
// always completes before the prompt is built.
type FactChecker struct {
	gen      contractx.Generator
	searcher contractx.Searcher
	prompts  promptx.PromptSet
}

func NewFactChecker(gen contractx.Generator, searcher contractx.Searcher, prompts promptx.PromptSet) *FactChecker {
	return &FactChecker{gen: gen, searcher: searcher, prompts: prompts}
}

func (f *FactChecker) Run(ctx context.Context, statement string) (string, error) {
	snippets, err := f.searcher.Search(ctx, statement, EvidenceLimit)
	if err != nil {
		if !errors.Is(err, contractx.ErrSearch) {
			err = fmt.Errorf("%w: %v", contractx.ErrSearch, err)
		}
		return "", err
	}

	log.Debug().Int("snippets", len(snippets)).Msg("fact-check evidence collected")

	// An empty evidence block still goes to the model.
	evidence := strings.Join(snippets, "\n")
	out, err := f.gen.Generate(ctx, f.prompts.FactCheckPrompt(statement, evidence), contractx.ModelText)
	if err != nil {
		return "", asGenerationError(err)
	}
	return out, nil
}

// FactCheckText runs agent and never fails: any error becomes the fixed
// fact-check failure text. It is kept for compatibility with callers that
// only consume text; the coordinator reports failures through Result.Failed
// instead.
func FactCheckText(ctx context.Context, agent contractx.Agent, statement string) string {
	out, err := agent.Run(ctx, statement)
	if err != nil {
		log.Error().Err(err).Msg("fact-check failed")
		return contractx.FailureMessage(contractx.ModeFactCheck)
	}
	return out
}
