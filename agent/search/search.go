// Package search adapts the Google Custom Search JSON API to contract.Searcher.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/googleapis/gax-go/v2/apierror"
	contractx "github.com/tanpawarit/research-assistant/agent/contract"
	"google.golang.org/api/customsearch/v1"
)

// maxPerRequest is the largest num the Custom Search API accepts.
const maxPerRequest = 10

var _ contractx.Searcher = (*Client)(nil)

type Client struct {
	svc      *customsearch.Service
	engineID string
}

func New(svc *customsearch.Service, engineID string) (*Client, error) {
	if svc == nil {
		return nil, errors.New("custom search service is required")
	}
	engineID = strings.TrimSpace(engineID)
	if engineID == "" {
		return nil, errors.New("search engine id is required")
	}
	return &Client{svc: svc, engineID: engineID}, nil
}

// Search returns up to limit snippets in provider ranking order. Items
// without a snippet are skipped.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: search limit must be > 0, got %d", contractx.ErrValidation, limit)
	}

	num := min(limit, maxPerRequest)
	resp, err := c.svc.Cse.List().
		Q(query).
		Cx(c.engineID).
		Num(int64(num)).
		Context(ctx).
		Do()
	if err != nil {
		var apiErr *apierror.APIError
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("%w: cse.list status=%d: %v", contractx.ErrSearch, apiErr.HTTPCode(), apiErr.Unwrap())
		}
		return nil, fmt.Errorf("%w: cse.list: %v", contractx.ErrSearch, err)
	}

	snippets := make([]string, 0, num)
	for _, item := range resp.Items {
		if item == nil || item.Snippet == "" {
			continue
		}
		snippets = append(snippets, item.Snippet)
		if len(snippets) == limit {
			break
		}
	}
	return snippets, nil
}
