// Package googlesearch builds Google Custom Search JSON API clients.
package googlesearch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

type Config struct {
	APIKey   string        `split_words:"true" required:"true"`
	EngineID string        `split_words:"true" required:"true"`
	BaseURL  string        `split_words:"true"`
	Timeout  time.Duration `split_words:"true" default:"10s"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return errors.New("google search api key is required")
	}
	if strings.TrimSpace(c.EngineID) == "" {
		return errors.New("google search engine id is required")
	}
	return nil
}

// NewService creates the Custom Search service. Extra options are applied
// after the defaults, so tests can swap the HTTP client or endpoint.
func NewService(ctx context.Context, cfg Config, extra ...option.ClientOption) (*customsearch.Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	opts := []option.ClientOption{
		option.WithHTTPClient(&http.Client{
			Timeout:   timeout,
			Transport: &apiKeyTransport{key: strings.TrimSpace(cfg.APIKey), base: http.DefaultTransport},
		}),
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		opts = append(opts, option.WithEndpoint(strings.TrimRight(base, "/")+"/"))
	}
	opts = append(opts, extra...)

	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create custom search service: %w", err)
	}
	return svc, nil
}

func MustNew(ctx context.Context, cfg Config) *customsearch.Service {
	svc, err := NewService(ctx, cfg)
	if err != nil {
		panic(err)
	}
	return svc
}

// apiKeyTransport adds the key query parameter. option.WithAPIKey has no
// effect once a custom HTTP client is supplied.
type apiKeyTransport struct {
	key  string
	base http.RoundTripper
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	q := clone.URL.Query()
	q.Set("key", t.key)
	clone.URL.RawQuery = q.Encode()
	return t.base.RoundTrip(clone)
}
