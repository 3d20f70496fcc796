package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/research-assistant/agent/contract"
)

type fakeChatModel struct {
	reply  *schema.Message
	err    error
	inputs [][]*schema.Message
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	return f.reply, nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not implemented in fake model")
}

func TestEinoGeneratorRoutesByModel(t *testing.T) {
	t.Parallel()

	text := &fakeChatModel{reply: schema.AssistantMessage(" a summary ", nil)}
	code := &fakeChatModel{reply: schema.AssistantMessage("print('hi')", nil)}

	gen, err := NewEinoGenerator(context.Background(), map[contractx.ModelID]einomodel.BaseChatModel{
		contractx.ModelText: text,
		contractx.ModelCode: code,
	})
	if err != nil {
		t.Fatalf("NewEinoGenerator() error = %v", err)
	}

	out, err := gen.Generate(context.Background(), "Summarize {this}:\nbody", contractx.ModelText)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if out != "a summary" {
		t.Fatalf("unexpected output: %q", out)
	}
	if len(text.inputs) != 1 || len(code.inputs) != 0 {
		t.Fatalf("unexpected routing: text=%d code=%d", len(text.inputs), len(code.inputs))
	}

	msgs := text.inputs[0]
	if len(msgs) != 1 || msgs[0].Role != schema.User {
		t.Fatalf("unexpected messages: %#v", msgs)
	}
	if !strings.Contains(msgs[0].Content, "Summarize {this}:\nbody") {
		t.Fatalf("prompt not passed verbatim: %q", msgs[0].Content)
	}
}

func TestEinoGeneratorErrors(t *testing.T) {
	t.Parallel()

	failing := &fakeChatModel{err: errors.New("quota exceeded")}
	empty := &fakeChatModel{reply: schema.AssistantMessage("   ", nil)}

	gen, err := NewEinoGenerator(context.Background(), map[contractx.ModelID]einomodel.BaseChatModel{
		contractx.ModelText: failing,
		contractx.ModelCode: empty,
	})
	if err != nil {
		t.Fatalf("NewEinoGenerator() error = %v", err)
	}

	if _, err := gen.Generate(context.Background(), "x", contractx.ModelText); !errors.Is(err, contractx.ErrGeneration) {
		t.Fatalf("expected ErrGeneration on provider failure, got %v", err)
	}
	if _, err := gen.Generate(context.Background(), "x", contractx.ModelCode); !errors.Is(err, contractx.ErrGeneration) {
		t.Fatalf("expected ErrGeneration on empty text, got %v", err)
	}
	if _, err := gen.Generate(context.Background(), "x", contractx.ModelID("vision")); !errors.Is(err, contractx.ErrGeneration) {
		t.Fatalf("expected ErrGeneration for unknown model, got %v", err)
	}
}

func TestNewEinoGeneratorRequiresModels(t *testing.T) {
	t.Parallel()

	if _, err := NewEinoGenerator(context.Background(), nil); err == nil {
		t.Fatal("expected error without models")
	}
}
