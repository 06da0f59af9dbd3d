package orchestratornode

import (
	statex "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/state"
)

// DecideRoute maps a classified intent to one execution path. The clauses
// apply in order: a combined data+support need takes the sequential path
// even when the query is also multi-step, since the data stage runs every
// decomposed sub-task before support begins.
func DecideRoute(intent statex.Intent) statex.Phase {
	switch {
	case intent.RequiresData && intent.RequiresSupport:
		return statex.PhaseDataThenSupport
	case intent.IsMultiStep:
		return statex.PhaseMultiStep
	case intent.RequiresData:
		return statex.PhaseDataOnly
	default:
		return statex.PhaseSupportOnly
	}
}

func Route(in *GraphState) (*GraphState, error) {
	if in == nil || in.Context == nil {
		return nil, ErrNilRun
	}

	in.Context.EnterPhase(statex.PhaseRouting)
	in.Route = DecideRoute(in.Context.Intent)
	in.Log.Append(statex.AgentOrchestrator, "", "routing to "+string(in.Route))
	return in, nil
}
