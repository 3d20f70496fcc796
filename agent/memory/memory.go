// Package memory holds the per-user session and long-term logs.
package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/research-assistant/agent/contract"
)

const (
	BackendMemory  = "memory"
	BackendRedis   = "redis"
	BackendUpstash = "upstash"
)

type Config struct {
	LongTermBackend string        `split_words:"true" default:"memory"`
	RedisURL        string        `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	RedisTimeout    time.Duration `envconfig:"REDIS_TIMEOUT" default:"5s"`
	UpstashURL      string        `envconfig:"UPSTASH_URL"`
	UpstashToken    string        `envconfig:"UPSTASH_TOKEN"`
	KeyPrefix       string        `split_words:"true" default:"research:memory:"`
	TTL             time.Duration `envconfig:"TTL" default:"0s"`
}

func (c Config) Validate() error {
	switch c.backend() {
	case BackendMemory:
	case BackendRedis:
		if strings.TrimSpace(c.RedisURL) == "" {
			return fmt.Errorf("%w: redis url is required for the redis backend", contractx.ErrValidation)
		}
	case BackendUpstash:
		if strings.TrimSpace(c.UpstashURL) == "" || strings.TrimSpace(c.UpstashToken) == "" {
			return fmt.Errorf("%w: upstash url and token are required for the upstash backend", contractx.ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unsupported long-term memory backend=%q", contractx.ErrValidation, c.LongTermBackend)
	}
	if c.TTL < 0 {
		return fmt.Errorf("%w: memory ttl must be >= 0", contractx.ErrValidation)
	}
	return nil
}

func (c Config) backend() string {
	b := strings.ToLower(strings.TrimSpace(c.LongTermBackend))
	if b == "" {
		return BackendMemory
	}
	return b
}

// Manager owns the two stores. Session memory always lives in process;
// long-term memory follows Config.LongTermBackend.
type Manager struct {
	Session  contractx.MemoryStore
	LongTerm contractx.MemoryStore
}

func New(ctx context.Context, cfg Config) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	storeOpts := []StoreOption{
		WithKeyPrefix(cfg.KeyPrefix + "long_term:"),
		WithTTL(cfg.TTL),
	}

	var longTerm contractx.MemoryStore
	switch cfg.backend() {
	case BackendRedis:
		store, err := NewRedisStore(ctx,
			RedisConfig{
				URL:            cfg.RedisURL,
				ConnectTimeout: cfg.RedisTimeout,
				ReadTimeout:    cfg.RedisTimeout,
				WriteTimeout:   cfg.RedisTimeout,
			},
			storeOpts...,
		)
		if err != nil {
			return nil, err
		}
		longTerm = store
	case BackendUpstash:
		store, err := NewUpstashStore(
			UpstashConfig{URL: cfg.UpstashURL, Token: cfg.UpstashToken, Timeout: cfg.RedisTimeout},
			storeOpts...,
		)
		if err != nil {
			return nil, err
		}
		longTerm = store
	default:
		longTerm = NewInMemoryStore()
	}

	return NewManager(NewInMemoryStore(), longTerm), nil
}

func NewManager(session, longTerm contractx.MemoryStore) *Manager {
	return &Manager{Session: session, LongTerm: longTerm}
}

// Record appends rec to the session log, then the long-term log. Both
// stores receive the same record ID. Store failures are logged, not returned.
func (m *Manager) Record(ctx context.Context, user string, rec contractx.Record) {
	rec = stamp(rec)

	if err := m.Session.Append(ctx, user, rec); err != nil {
		log.Error().Err(err).Str("user", user).Str("store", "session").Msg("memory append failed")
	} else {
		log.Info().Str("user", user).Str("mode", rec.Mode).Msg("Session memory updated")
	}

	if err := m.LongTerm.Append(ctx, user, rec); err != nil {
		log.Error().Err(err).Str("user", user).Str("store", "long_term").Msg("memory append failed")
	} else {
		log.Info().Str("user", user).Str("mode", rec.Mode).Msg("Long-term memory updated")
	}
}

// Logs returns the user's session and long-term logs.
func (m *Manager) Logs(ctx context.Context, user string) (session, longTerm []contractx.Record, err error) {
	session, err = m.Session.Lookup(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("lookup session memory: %w", err)
	}
	longTerm, err = m.LongTerm.Lookup(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("lookup long-term memory: %w", err)
	}
	return session, longTerm, nil
}

func (m *Manager) Reset(ctx context.Context) error {
	return errors.Join(m.Session.Reset(ctx), m.LongTerm.Reset(ctx))
}

func (m *Manager) Close() error {
	return errors.Join(m.Session.Close(), m.LongTerm.Close())
}

func stamp(rec contractx.Record) contractx.Record {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	return rec
}
