package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/googleapis/gax-go/v2/apierror"
	contractx "github.com/tanpawarit/research-assistant/agent/contract"
	"google.golang.org/genai"
)

var _ contractx.Generator = (*GeminiGenerator)(nil)

// contentGenerator is the part of *genai.Models the generator needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiGenerator struct {
	models contentGenerator
	cfg    Config
}

func NewGeminiGenerator(client *genai.Client, cfg Config) (*GeminiGenerator, error) {
	if client == nil || client.Models == nil {
		return nil, errors.New("gemini client is required")
	}
	return &GeminiGenerator{models: client.Models, cfg: cfg}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string, model contractx.ModelID) (string, error) {
	// Model names must not start with "models/".
	modelName := strings.TrimPrefix(g.cfg.ModelName(model), "models/")
	if modelName == "" {
		return "", fmt.Errorf("%w: no model configured for %s", contractx.ErrGeneration, model)
	}

	temperature := g.cfg.TemperatureFor(model)
	conf := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}
	if g.cfg.MaxCompletionToken > 0 {
		conf.MaxOutputTokens = int32(g.cfg.MaxCompletionToken)
	}

	resp, err := g.models.GenerateContent(ctx, modelName, genai.Text(prompt), conf)
	if err != nil {
		var apiErr *apierror.APIError
		if errors.As(err, &apiErr) {
			err = apiErr.Unwrap()
		}
		return "", fmt.Errorf("%w: model=%s generate content: %v", contractx.ErrGeneration, modelName, err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: model=%s returned no candidates", contractx.ErrGeneration, modelName)
	}

	cand := resp.Candidates[0]
	if cand.Content == nil {
		return "", fmt.Errorf("%w: model=%s returned empty content (finish=%s)", contractx.ErrGeneration, modelName, cand.FinishReason)
	}

	var sb strings.Builder
	for _, p := range cand.Content.Parts {
		if p != nil && p.Text != "" && !p.Thought {
			sb.WriteString(p.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("%w: model=%s returned empty text (finish=%s)", contractx.ErrGeneration, modelName, cand.FinishReason)
	}
	return text, nil
}
