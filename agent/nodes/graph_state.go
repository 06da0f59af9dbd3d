package orchestratornode

import (
	"errors"
	"strings"

	statex "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/state"
)

var (
	ErrEmptyQuery = errors.New("query is empty")
	ErrNilRun     = errors.New("run context or log is nil")
)

// GraphInput carries the run objects the service created before invoking
// the graph. Keeping them caller-owned means a failed run still hands back
// the partial log and context.
type GraphInput struct {
	Context *statex.SharedContext
	Log     *statex.CommunicationLog
}

type GraphOutput struct {
	Response string
	Context  *statex.SharedContext
	Log      *statex.CommunicationLog
}

// GraphState flows between nodes. Route is set by the routing node and read
// by the branch condition.
type GraphState struct {
	Context *statex.SharedContext
	Log     *statex.CommunicationLog
	Route   statex.Phase
}

func ValidateRequest(in GraphInput) (*GraphState, error) {
	if in.Context == nil || in.Log == nil {
		return nil, ErrNilRun
	}
	if strings.TrimSpace(in.Context.Query) == "" {
		return nil, ErrEmptyQuery
	}

	in.Log.Append(statex.AgentOrchestrator, "", "run started: "+in.Context.Query)
	return &GraphState{Context: in.Context, Log: in.Log}, nil
}
