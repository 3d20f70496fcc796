package coordinatornode

import (
	"context"

	specialistx "github.com/tanpawarit/research-assistant/agent/agents/specialist"
	contractx "github.com/tanpawarit/research-assistant/agent/contract"
)

// DispatchAgent runs the agent registered for the request mode. Agent
// errors are kept on the state for ApplyPolicy; they never abort the graph.
func DispatchAgent(ctx context.Context, in *GraphState, agents contractx.Registry) (*GraphState, error) {
	if in == nil {
		return nil, ErrNilState
	}

	agent, ok := specialistx.ForMode(agents, in.Mode)
	if !ok {
		in.Output = contractx.InvalidModeMessage
		return in, nil
	}

	in.Output, in.AgentErr = agent.Run(ctx, in.Query)
	return in, nil
}
