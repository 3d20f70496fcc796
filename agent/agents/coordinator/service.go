// Package coordinator routes a query to one agent by mode and records the
// exchange in both of the user's memory logs.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/research-assistant/agent/contract"
	nodex "github.com/tanpawarit/research-assistant/agent/nodes/coordinator"
)

type Coordinator struct {
	agents contractx.Registry
	memory nodex.MemoryRecorder

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	now func() time.Time
}

func New(agents contractx.Registry, memory nodex.MemoryRecorder) (*Coordinator, error) {
	if agents == nil {
		return nil, errors.New("agent registry is required")
	}
	if memory == nil {
		return nil, errors.New("memory recorder is required")
	}

	c := &Coordinator{
		agents: agents,
		memory: memory,
		now:    time.Now,
	}

	graphRunner, err := c.compileRunGraph(context.Background())
	if err != nil {
		return nil, err
	}
	c.graphRunner = graphRunner

	return c, nil
}

// Run executes one request end to end. It never fails: agent errors and
// invalid modes come back as user-visible text, and every call is recorded.
func (c *Coordinator) Run(ctx context.Context, user, query string, mode contractx.Mode) contractx.Result {
	return c.run(ctx, nodex.GraphInput{User: user, Query: query, Mode: mode})
}

// RunMode parses the raw mode token before running.
func (c *Coordinator) RunMode(ctx context.Context, user, query, rawMode string) contractx.Result {
	return c.run(ctx, nodex.GraphInput{
		User:    user,
		Query:   query,
		Mode:    contractx.ParseMode(rawMode),
		RawMode: rawMode,
	})
}

func (c *Coordinator) run(ctx context.Context, in nodex.GraphInput) contractx.Result {
	out, err := c.graphRunner.Invoke(ctx, in)
	if err == nil {
		return out.Result
	}

	// The graph errors on internal faults or when the request context ends
	// mid-run. The exchange is still recorded.
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = fmt.Errorf("%w: %w", ctxErr, err)
	}
	log.Error().Err(err).Str("user", in.User).Str("mode", in.Mode.String()).Msg("coordinator graph failed")
	res := nodex.Policy(in.Mode, "", fmt.Errorf("coordinator graph: %w", err))
	c.memory.Record(context.WithoutCancel(ctx), in.User, contractx.Record{
		Query:     in.Query,
		Output:    res.Output,
		Mode:      res.Mode,
		Failed:    res.Failed,
		CreatedAt: c.now().UTC(),
	})
	return res
}
