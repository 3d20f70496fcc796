package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/research-assistant/agent/contract"
	geminix "github.com/tanpawarit/research-assistant/pkg/gemini"
	openrouterx "github.com/tanpawarit/research-assistant/pkg/openrouter"
)

const (
	ProviderOpenRouter = "openrouter"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"

	OpenAIBaseURL = "https://api.openai.com/v1"
)

var defaultModels = map[string]map[contractx.ModelID]string{
	ProviderOpenRouter: {
		contractx.ModelText: "google/gemini-2.5-flash",
		contractx.ModelCode: "qwen/qwen3-coder",
	},
	ProviderOpenAI: {
		contractx.ModelText: "gpt-4o-mini",
		contractx.ModelCode: "gpt-4.1",
	},
	ProviderGemini: {
		contractx.ModelText: "gemini-2.5-flash",
		contractx.ModelCode: "gemini-2.5-pro",
	},
}

type Config struct {
	Provider           string        `split_words:"true" default:"openrouter"`
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	MaxRetries         int           `envconfig:"MAX_RETRIES" split_words:"true" default:"2"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	TextModel       string  `envconfig:"TEXT_MODEL" split_words:"true"`
	CodeModel       string  `envconfig:"CODE_MODEL" split_words:"true"`
	CodeTemperature float32 `envconfig:"CODE_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: generation api key is required", contractx.ErrValidation)
	}
	if _, ok := defaultModels[c.provider()]; !ok {
		return fmt.Errorf("%w: unsupported llm provider=%q", contractx.ErrValidation, c.Provider)
	}
	if c.MaxCompletionToken <= 0 {
		return fmt.Errorf("%w: max completion token must be > 0", contractx.ErrValidation)
	}
	return nil
}

func (c Config) provider() string {
	p := strings.ToLower(strings.TrimSpace(c.Provider))
	if p == "" {
		return ProviderOpenRouter
	}
	return p
}

// ModelName resolves the provider model name behind a logical model id.
func (c Config) ModelName(id contractx.ModelID) string {
	switch id {
	case contractx.ModelCode:
		if v := strings.TrimSpace(c.CodeModel); v != "" {
			return v
		}
	default:
		if v := strings.TrimSpace(c.TextModel); v != "" {
			return v
		}
	}
	return defaultModels[c.provider()][id]
}

func (c Config) TemperatureFor(id contractx.ModelID) float32 {
	if id == contractx.ModelCode && c.CodeTemperature >= 0 {
		return c.CodeTemperature
	}
	return c.Temperature
}

func (c Config) OpenRouterFor(id contractx.ModelID) openrouterx.Config {
	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              c.ModelName(id),
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        c.TemperatureFor(id),
		Timeout:            c.Timeout,
		MaxRetries:         c.MaxRetries,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}

func (c Config) Gemini() geminix.Config {
	return geminix.Config{
		APIKey:  strings.TrimSpace(c.APIKey),
		BaseURL: strings.TrimSpace(c.BaseURL),
		Timeout: c.Timeout,
	}
}
