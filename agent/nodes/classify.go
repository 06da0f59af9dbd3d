package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/contract"
	statex "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/state"
)

func Classify(ctx context.Context, in *GraphState, classifier contractx.Classifier) (*GraphState, error) {
	if in == nil || in.Context == nil {
		return nil, ErrNilRun
	}

	sc := in.Context
	sc.EnterPhase(statex.PhaseClassifying)
	in.Log.Append(statex.AgentOrchestrator, statex.AgentClassifier, "classification requested")

	intent, err := classifier.Classify(ctx, sc.Query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrClassification, err)
	}
	if err := sc.SetIntent(intent); err != nil {
		return nil, err
	}

	in.Log.Append(statex.AgentClassifier, statex.AgentOrchestrator, describeIntent(sc.Intent))
	return in, nil
}

func describeIntent(intent statex.Intent) string {
	return fmt.Sprintf(
		"intent: category=%s data=%t support=%t multi_step=%t urgency=%s ids=%v",
		intent.PrimaryCategory, intent.RequiresData, intent.RequiresSupport,
		intent.IsMultiStep, intent.Urgency, intent.ReferencedIDs)
}
