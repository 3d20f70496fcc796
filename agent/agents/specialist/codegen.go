package specialist

import (
	"context"

	contractx "github.com/tanpawarit/research-assistant/agent/contract"
	promptx "github.com/tanpawarit/research-assistant/agent/prompt"
)

var _ contractx.Agent = (*CodeGenerator)(nil)

type CodeGenerator struct {
	gen     contractx.Generator
	prompts promptx.PromptSet
}

func NewCodeGenerator(gen contractx.Generator, prompts promptx.PromptSet) *CodeGenerator {
	return &CodeGenerator{gen: gen, prompts: prompts}
}

// Run asks the code model for an implementation of the task description.
func (c *CodeGenerator) Run(ctx context.Context, input string) (string, error) {
	out, err := c.gen.Generate(ctx, c.prompts.CodePrompt(input), contractx.ModelCode)
	if err != nil {
		return "", asGenerationError(err)
	}
	return out, nil
}
