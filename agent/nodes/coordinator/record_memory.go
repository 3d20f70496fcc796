package coordinatornode

import (
	"context"

	contractx "github.com/tanpawarit/research-assistant/agent/contract"
)

// MemoryRecorder appends one record to both of a user's logs and never fails.
type MemoryRecorder interface {
	Record(ctx context.Context, user string, rec contractx.Record)
}

func RecordMemory(ctx context.Context, in *GraphState, memory MemoryRecorder) (*GraphState, error) {
	if in == nil {
		return nil, ErrNilState
	}

	memory.Record(ctx, in.User, contractx.Record{
		Query:     in.Query,
		Output:    in.Result.Output,
		Mode:      in.Result.Mode,
		Failed:    in.Result.Failed,
		CreatedAt: in.Now,
	})
	return in, nil
}
