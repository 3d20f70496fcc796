// Package llm adapts text-generation providers to contract.Generator.
package llm

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	contractx "github.com/tanpawarit/research-assistant/agent/contract"
	geminix "github.com/tanpawarit/research-assistant/pkg/gemini"
	openrouterx "github.com/tanpawarit/research-assistant/pkg/openrouter"
)

// NewGenerator builds the generator selected by cfg.Provider.
func NewGenerator(ctx context.Context, cfg Config) (contractx.Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.provider() {
	case ProviderOpenAI:
		clientCfg := cfg.OpenRouterFor(contractx.ModelText)
		if clientCfg.BaseURL == "" {
			clientCfg.BaseURL = OpenAIBaseURL
		}
		client := openrouterx.NewClient(clientCfg)
		if client == nil {
			return nil, fmt.Errorf("%w: create openai client", contractx.ErrValidation)
		}
		return NewOpenAIGenerator(client, cfg)
	case ProviderGemini:
		client, err := geminix.NewClient(ctx, cfg.Gemini())
		if err != nil {
			return nil, err
		}
		return NewGeminiGenerator(client, cfg)
	default:
		models := make(map[contractx.ModelID]einomodel.BaseChatModel, 2)
		for _, id := range []contractx.ModelID{contractx.ModelText, contractx.ModelCode} {
			modelCfg := cfg.OpenRouterFor(id)
			m, err := modelCfg.New(ctx)
			if err != nil {
				return nil, fmt.Errorf("create %s model: %w", id, err)
			}
			models[id] = m
		}
		return NewEinoGenerator(ctx, models)
	}
}
