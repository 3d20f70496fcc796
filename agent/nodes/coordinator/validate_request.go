package coordinatornode

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/research-assistant/agent/contract"
)

var ErrNilState = errors.New("graph state is nil")

type GraphInput struct {
	User    string
	Query   string
	Mode    contractx.Mode
	RawMode string
}

type GraphOutput struct {
	Result contractx.Result
}

type GraphState struct {
	User    string
	Query   string
	Mode    contractx.Mode
	RawMode string
	Now     time.Time

	Output   string
	AgentErr error
	Result   contractx.Result
}

// ValidateRequest seeds the graph state. User and query pass through
// unchanged; emptiness is rejected by the interface layer, not here.
func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	rawMode := in.RawMode
	if rawMode == "" {
		rawMode = in.Mode.String()
	}

	if in.Mode == contractx.ModeInvalid {
		log.Warn().Str("user", in.User).Str("mode", rawMode).Msg("invalid mode selected")
	}

	return &GraphState{
		User:    in.User,
		Query:   in.Query,
		Mode:    in.Mode,
		RawMode: rawMode,
		Now:     nowFn().UTC(),
	}, nil
}
