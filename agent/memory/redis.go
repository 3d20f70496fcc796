package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	contractx "github.com/tanpawarit/research-assistant/agent/contract"
)

const (
	defaultRedisTimeout = 5 * time.Second
	scanBatch           = 100
)

var _ contractx.MemoryStore = (*RedisStore)(nil)

type RedisConfig struct {
	URL            string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// RedisStore keeps each user's log as a Redis list of JSON records.
type RedisStore struct {
	client *redis.Client
	storeOptions
}

func NewRedisStore(ctx context.Context, cfg RedisConfig, opts ...StoreOption) (*RedisStore, error) {
	rawURL := strings.TrimSpace(cfg.URL)
	if rawURL == "" {
		return nil, errors.New("redis url is required")
	}

	redisOpts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	redisOpts.DialTimeout = orDefault(cfg.ConnectTimeout, defaultRedisTimeout)
	redisOpts.ReadTimeout = orDefault(cfg.ReadTimeout, defaultRedisTimeout)
	redisOpts.WriteTimeout = orDefault(cfg.WriteTimeout, defaultRedisTimeout)

	client := redis.NewClient(redisOpts)

	pingCtx, cancel := context.WithTimeout(ctx, redisOpts.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	options, err := applyOptions(opts)
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	return &RedisStore{client: client, storeOptions: options}, nil
}

func (s *RedisStore) Append(ctx context.Context, user string, rec contractx.Record) error {
	payload, err := json.Marshal(stamp(rec))
	if err != nil {
		return fmt.Errorf("marshal memory record: %w", err)
	}

	key := s.key(user)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, payload)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("append memory record: %w", err)
	}
	return nil
}

func (s *RedisStore) Lookup(ctx context.Context, user string) ([]contractx.Record, error) {
	raw, err := s.client.LRange(ctx, s.key(user), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read memory log: %w", err)
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
func (s *RedisStore) Reset(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, s.keyPrefix+"*", scanBatch).Iterator()

	keys := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == scanBatch {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("delete memory logs: %w", err)
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan memory logs: %w", err)
	}
	if len(keys) > 0 {
		if err := s.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("delete memory logs: %w", err)
		}
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
