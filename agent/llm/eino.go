package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/research-assistant/agent/contract"
)

var _ contractx.Generator = (*EinoGenerator)(nil)

// EinoGenerator runs one compiled prompt->model graph per logical model.
type EinoGenerator struct {
	runners map[contractx.ModelID]compose.Runnable[map[string]any, *schema.Message]
}

func NewEinoGenerator(ctx context.Context, models map[contractx.ModelID]einomodel.BaseChatModel) (*EinoGenerator, error) {
	if len(models) == 0 {
		return nil, errors.New("at least one chat model is required")
	}

	runners := make(map[contractx.ModelID]compose.Runnable[map[string]any, *schema.Message], len(models))
	for id, chatModel := range models {
		if chatModel == nil {
			return nil, fmt.Errorf("chat model for %s is nil", id)
		}
		runner, err := compileGenerationGraph(ctx, chatModel, "generation."+string(id))
		if err != nil {
			return nil, err
		}
		runners[id] = runner
	}
	return &EinoGenerator{runners: runners}, nil
}

func (g *EinoGenerator) Generate(ctx context.Context, prompt string, model contractx.ModelID) (string, error) {
	runner, ok := g.runners[model]
	if !ok {
		return "", fmt.Errorf("%w: no chat model configured for %s", contractx.ErrGeneration, model)
	}

	msg, err := runner.Invoke(ctx, map[string]any{
		"prompt": prompt,
	})
	if err != nil {
		return "", fmt.Errorf("%w: model=%s invoke: %v", contractx.ErrGeneration, model, err)
	}
	if msg == nil {
		return "", fmt.Errorf("%w: model=%s returned no message", contractx.ErrGeneration, model)
	}

	text := strings.TrimSpace(msg.Content)
	if text == "" {
		return "", fmt.Errorf("%w: model=%s returned empty text", contractx.ErrGeneration, model)
	}
	return text, nil
}

func compileGenerationGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	graphName string,
) (compose.Runnable[map[string]any, *schema.Message], error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.UserMessage("{prompt}"),
	)

	graph := compose.NewGraph[map[string]any, *schema.Message]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add generation prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add generation model node: %w", err)
	}
	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add generation edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add generation edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add generation edge model->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName(graphName))
	if err != nil {
		return nil, fmt.Errorf("compile generation graph: %w", err)
	}
	return runner, nil
}
