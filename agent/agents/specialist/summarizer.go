package specialist

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/tanpawarit/research-assistant/agent/contract"
	promptx "github.com/tanpawarit/research-assistant/agent/prompt"
)

var _ contractx.Agent = (*Summarizer)(nil)

// Summarizer condenses research text into a few sentences.
type Summarizer struct {
	gen     contractx.Generator
	prompts promptx.PromptSet
}

func NewSummarizer(gen contractx.Generator, prompts promptx.PromptSet) *Summarizer {
	return &Summarizer{gen: gen, prompts: prompts}
}

func (s *Summarizer) Run(ctx context.Context, input string) (string, error) {
	out, err := s.gen.Generate(ctx, s.prompts.SummarizePrompt(input), contractx.ModelText)
	if err != nil {
		return "", asGenerationError(err)
	}
	return out, nil
}

// asGenerationError keeps the ErrGeneration classification for generators
// that return bare errors.
func asGenerationError(err error) error {
	if errors.Is(err, contractx.ErrGeneration) {
		return err
	}
	return fmt.Errorf("%w: %v", contractx.ErrGeneration, err)
}
