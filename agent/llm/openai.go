package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"
	contractx "github.com/tanpawarit/research-assistant/agent/contract"
)

var _ contractx.Generator = (*OpenAIGenerator)(nil)

// OpenAIGenerator calls chat completions directly through openai-go.
type OpenAIGenerator struct {
	client *openaisdk.Client
	cfg    Config
}

func NewOpenAIGenerator(client *openaisdk.Client, cfg Config) (*OpenAIGenerator, error) {
	if client == nil {
		return nil, errors.New("openai client is required")
	}
	return &OpenAIGenerator{client: client, cfg: cfg}, nil
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string, model contractx.ModelID) (string, error) {
	modelName := g.cfg.ModelName(model)
	if modelName == "" {
		return "", fmt.Errorf("%w: no model configured for %s", contractx.ErrGeneration, model)
	}

	params := openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(modelName),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.UserMessage(prompt),
		},
		Temperature: openaisdk.Float(float64(g.cfg.TemperatureFor(model))),
	}
	if g.cfg.MaxCompletionToken > 0 {
		params.MaxCompletionTokens = openaisdk.Int(int64(g.cfg.MaxCompletionToken))
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: model=%s chat completion: %v", contractx.ErrGeneration, modelName, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: model=%s returned no choices", contractx.ErrGeneration, modelName)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: model=%s returned empty text", contractx.ErrGeneration, modelName)
	}
	return text, nil
}
