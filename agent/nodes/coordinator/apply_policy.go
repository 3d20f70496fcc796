package coordinatornode

import (
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/research-assistant/agent/contract"
)

// ApplyPolicy is the single place where agent failures turn into
// user-visible text. The same rule covers every mode.
func ApplyPolicy(in *GraphState) (*GraphState, error) {
	if in == nil {
		return nil, ErrNilState
	}

	in.Result = Policy(in.Mode, in.Output, in.AgentErr)
	if in.Result.Failed {
		log.Error().
			Err(in.AgentErr).
			Str("user", in.User).
			Str("mode", in.Result.Mode).
			Str("error_kind", string(in.Result.ErrorKind)).
			Msg("agent failed")
	}
	return in, nil
}

func Policy(mode contractx.Mode, output string, err error) contractx.Result {
	if err != nil {
		return contractx.Result{
			Mode:      mode.String(),
			Output:    contractx.FailureMessage(mode),
			Failed:    true,
			ErrorKind: contractx.KindOf(err),
		}
	}
	if mode == contractx.ModeInvalid {
		output = contractx.InvalidModeMessage
	}
	return contractx.Result{
		Mode:   mode.String(),
		Output: output,
	}
}
