package specialist

import (
	"context"
	"fmt"

	classifierx "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/agents/classifier"
	contractx "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/contract"
	promptx "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/prompt"
	"github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/pkg/openrouter"
)

type registryImpl struct {
	classifier contractx.Classifier
	data       contractx.Specialist
	support    contractx.Specialist
}

func (r *registryImpl) Classifier() contractx.Classifier {
	return r.classifier
}

func (r *registryImpl) Data() contractx.Specialist {
	return r.data
}

func (r *registryImpl) Support() contractx.Specialist {
	return r.support
}

// NewRegistry wires one classifier and the two workers over a shared tool
// gateway. Without model credentials the classifier is the deterministic
// rule engine; every other agent is model-free either way.
func NewRegistry(ctx context.Context, cfg openrouter.Config, tools contractx.ToolGateway) (contractx.Registry, error) {
	var (
		cls contractx.Classifier
		err error
	)
	if cfg.Enabled() {
		model, merr := cfg.New(ctx)
		if merr != nil {
			return nil, fmt.Errorf("%w: create classifier model: %v", contractx.ErrModelInvoke, merr)
		}
		prompts := promptx.LoadPromptSet()
		cls, err = classifierx.New(ctx, model, prompts.Classifier)
		if err != nil {
			return nil, err
		}
	} else {
		cls = classifierx.NewRule()
	}

	data, err := NewData(tools)
	if err != nil {
		return nil, err
	}

	return &registryImpl{
		classifier: cls,
		data:       data,
		support:    NewSupport(),
	}, nil
}
