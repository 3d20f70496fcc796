package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	contractx "github.com/tanpawarit/research-assistant/agent/contract"
)

const maxResponseSizeBytes = 2 << 20

var _ contractx.MemoryStore = (*UpstashStore)(nil)

type UpstashConfig struct {
	URL     string
	Token   string
	Timeout time.Duration
}

// UpstashStore keeps each user's log as a Redis list behind the Upstash
// REST API.
type UpstashStore struct {
	baseURL string
	token   string
	storeOptions
}

type redisRESTResponse struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

func NewUpstashStore(cfg UpstashConfig, opts ...StoreOption) (*UpstashStore, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, errors.New("upstash redis url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid redis rest url: %w", err)
	}

	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("upstash redis token is required")
	}

	options, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	if options.httpClient == nil {
		options.httpClient = &http.Client{Timeout: orDefault(cfg.Timeout, defaultRedisTimeout)}
	}

	return &UpstashStore{baseURL: baseURL, token: token, storeOptions: options}, nil
}

func (s *UpstashStore) Append(ctx context.Context, user string, rec contractx.Record) error {
	payload, err := json.Marshal(stamp(rec))
	if err != nil {
		return fmt.Errorf("marshal memory record: %w", err)
	}

	key := s.key(user)
	commands := [][]any{{"RPUSH", key, string(payload)}}
	if s.ttl > 0 {
		commands = append(commands, []any{"EXPIRE", key, ttlSeconds(s.ttl)})
	}

	if _, err := s.multiExec(ctx, commands); err != nil {
		return fmt.Errorf("append memory record: %w", err)
	}
	return nil
}

func (s *UpstashStore) Lookup(ctx context.Context, user string) ([]contractx.Record, error) {
	resp, err := s.exec(ctx, []any{"LRANGE", s.key(user), 0, -1})
	if err != nil {
		return nil, fmt.Errorf("read memory log: %w", err)
	}

	var raw []string
	if result := bytes.TrimSpace(resp.Result); len(result) > 0 && !bytes.Equal(result, []byte("null")) {
		if err := json.Unmarshal(result, &raw); err != nil {
			return nil, fmt.Errorf("decode memory log: %w", err)
		}
	}

	out := make([]contractx.Record, 0, len(raw))
	for i, item := range raw {
		var rec contractx.Record
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("decode memory record %d: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Reset deletes every log under the store's key prefix.
func (s *UpstashStore) Reset(ctx context.Context) error {
	cursor := "0"
	for {
		resp, err := s.exec(ctx, []any{"SCAN", cursor, "MATCH", s.keyPrefix + "*", "COUNT", scanBatch})
		if err != nil {
			return fmt.Errorf("scan memory logs: %w", err)
		}

		next, keys, err := decodeScan(resp.Result)
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			cmd := make([]any, 0, len(keys)+1)
			cmd = append(cmd, "DEL")
			for _, k := range keys {
				cmd = append(cmd, k)
			}
			if _, err := s.exec(ctx, cmd); err != nil {
				return fmt.Errorf("delete memory logs: %w", err)
			}
		}

		if next == "0" {
			return nil
		}
		cursor = next
	}
}

func (s *UpstashStore) Close() error {
	return nil
}

func decodeScan(result json.RawMessage) (string, []string, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(result, &parts); err != nil || len(parts) != 2 {
		return "", nil, fmt.Errorf("decode scan reply: %s", string(result))
	}

	var cursor string
	if err := json.Unmarshal(parts[0], &cursor); err != nil {
		// Some proxies send the cursor as a number.
		var n int64
		if err := json.Unmarshal(parts[0], &n); err != nil {
			return "", nil, fmt.Errorf("decode scan cursor: %w", err)
		}
		cursor = strconv.FormatInt(n, 10)
	}

	var keys []string
	if err := json.Unmarshal(parts[1], &keys); err != nil {
		return "", nil, fmt.Errorf("decode scan keys: %w", err)
	}
	return cursor, keys, nil
}

func (s *UpstashStore) exec(ctx context.Context, command []any) (*redisRESTResponse, error) {
	if len(command) == 0 {
		return nil, errors.New("empty redis command")
	}

	raw, err := s.post(ctx, s.baseURL, command)
	if err != nil {
		return nil, err
	}

	var parsed redisRESTResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode redis response: %w", err)
	}
	if parsed.Error != "" {
		return nil, errors.New(parsed.Error)
	}
	return &parsed, nil
}

// multiExec runs commands in one MULTI/EXEC transaction.
func (s *UpstashStore) multiExec(ctx context.Context, commands [][]any) ([]redisRESTResponse, error) {
	raw, err := s.post(ctx, s.baseURL+"/multi-exec", commands)
	if err != nil {
		return nil, err
	}

	var parsed []redisRESTResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		// A failed transaction comes back as a single error object.
		var single redisRESTResponse
		if jsonErr := json.Unmarshal(raw, &single); jsonErr == nil && single.Error != "" {
			return nil, errors.New(single.Error)
		}
		return nil, fmt.Errorf("decode redis transaction response: %w", err)
	}
	for _, r := range parsed {
		if r.Error != "" {
			return nil, errors.New(r.Error)
		}
	}
	return parsed, nil
}

func (s *UpstashStore) post(ctx context.Context, endpoint string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal redis command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build redis request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute redis request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read redis response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("redis http status=%d body=%s", resp.StatusCode, string(raw))
	}
	return raw, nil
}
