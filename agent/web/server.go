package web

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	contractx "github.com/tanpawarit/research-assistant/agent/contract"
)

type Config struct {
	Addr         string        `default:":8080"`
	ReadTimeout  time.Duration `split_words:"true" default:"10s"`
	WriteTimeout time.Duration `split_words:"true" default:"120s"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: http addr is required", contractx.ErrValidation)
	}
	return nil
}

// NewServer wraps h in an http.Server. WriteTimeout must cover a full
// search plus generation round trip.
func NewServer(cfg Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              strings.TrimSpace(cfg.Addr),
		Handler:           h,
		ReadHeaderTimeout: cfg.ReadTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
}
