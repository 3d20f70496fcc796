package contract

import "context"

type Generator interface {
	Generate(ctx context.Context, prompt string, model ModelID) (string, error)
}

type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]string, error)
}

// Agent turns one query into text with a single generation call.
type Agent interface {
	Run(ctx context.Context, input string) (string, error)
}

type Registry interface {
	Summarizer() Agent
	FactChecker() Agent
	CodeGenerator() Agent
}

// MemoryStore is an append-only log of records per user identity.
// Lookup of an unknown user returns an empty log, never an error.
type MemoryStore interface {
	Append(ctx context.Context, user string, rec Record) error
	Lookup(ctx context.Context, user string) ([]Record, error)
	Reset(ctx context.Context) error
	Close() error
}
