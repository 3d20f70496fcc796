package specialist

import (
	"errors"

	contractx "github.com/tanpawarit/research-assistant/agent/contract"
	promptx "github.com/tanpawarit/research-assistant/agent/prompt"
)

type registryImpl struct {
	summarizer    contractx.Agent
	factChecker   contractx.Agent
	codeGenerator contractx.Agent
}

func (r *registryImpl) Summarizer() contractx.Agent {
	return r.summarizer
}

func (r *registryImpl) FactChecker() contractx.Agent {
	return r.factChecker
}

func (r *registryImpl) CodeGenerator() contractx.Agent {
	return r.codeGenerator
}

func NewRegistry(gen contractx.Generator, searcher contractx.Searcher) (contractx.Registry, error) {
	if gen == nil {
		return nil, errors.New("generator is required")
	}
	if searcher == nil {
		return nil, errors.New("searcher is required")
	}

	prompts := promptx.LoadPromptSet()
	if err := prompts.Validate(); err != nil {
		return nil, err
	}

	return &registryImpl{
		summarizer:    NewSummarizer(gen, prompts),
		factChecker:   NewFactChecker(gen, searcher, prompts),
		codeGenerator: NewCodeGenerator(gen, prompts),
	}, nil
}

// ForMode returns the agent that serves m. ok is false for ModeInvalid.
func ForMode(r contractx.Registry, m contractx.Mode) (agent contractx.Agent, ok bool) {
	switch m {
	case contractx.ModeSummarize:
		return r.Summarizer(), true
	case contractx.ModeFactCheck:
		return r.FactChecker(), true
	case contractx.ModeGenerateCode:
		return r.CodeGenerator(), true
	default:
		return nil, false
	}
}
