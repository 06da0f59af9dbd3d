// Package classifier maps raw query text to a structured Intent. The
// primary backend is an LLM returning strict JSON; a deterministic rule
// pass both replaces it on failure and always runs afterwards to
// strengthen the result. Classify never fails a run.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog"

	contractx "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/contract"
	statex "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/state"
	logx "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/pkg/logger"
)

type llmClassifier struct {
	runner compose.Runnable[map[string]any, classifierLLMOutput]
	log    zerolog.Logger
}

type classifierLLMOutput struct {
	PrimaryCategory string  `json:"primary_category"`
	RequiresData    bool    `json:"requires_data"`
	RequiresSupport bool    `json:"requires_support"`
	ReferencedIDs   []int64 `json:"referenced_ids,omitempty"`
	IsMultiStep     bool    `json:"is_multi_step"`
	Urgency         string  `json:"urgency"`
}

// New builds the LLM-backed classifier.
func New(ctx context.Context, chatModel einomodel.BaseChatModel, systemPrompt string) (contractx.Classifier, error) {
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, fmt.Errorf("%w: classifier prompt", contractx.ErrPromptMissing)
	}
	runner, err := compileClassifierGraph(ctx, chatModel, systemPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: compile classifier graph: %v", contractx.ErrModelInvoke, err)
	}
	return &llmClassifier{
		runner: runner,
		log:    logx.Component(string(contractx.AgentTypeClassifier)),
	}, nil
}

func (c *llmClassifier) Classify(ctx context.Context, query string) (statex.Intent, error) {
	intent, err := c.classifyPrimary(ctx, query)
	if err != nil {
		c.log.Warn().
			Err(err).
			Msg("primary classification failed, using rule fallback")
		intent = Rules(query)
	}
	return ApplyOverride(query, intent), nil
}

func (c *llmClassifier) classifyPrimary(ctx context.Context, query string) (statex.Intent, error) {
	payload, err := json.Marshal(map[string]any{"query": query})
	if err != nil {
		return statex.Intent{}, fmt.Errorf("%w: marshal classifier payload: %v", contractx.ErrClassification, err)
	}

	out, err := c.runner.Invoke(ctx, map[string]any{"input": string(payload)})
	if err != nil {
		return statex.Intent{}, fmt.Errorf("%w: classifier invoke: %v", contractx.ErrClassification, err)
	}

	intent := statex.Intent{
		PrimaryCategory: statex.PrimaryCategory(strings.TrimSpace(out.PrimaryCategory)),
		RequiresData:    out.RequiresData,
		RequiresSupport: out.RequiresSupport,
		ReferencedIDs:   out.ReferencedIDs,
		IsMultiStep:     out.IsMultiStep,
		Urgency:         statex.Urgency(strings.ToLower(strings.TrimSpace(out.Urgency))),
	}
	intent.Normalize()
	if err := intent.Validate(); err != nil {
		return statex.Intent{}, fmt.Errorf("%w: %v", contractx.ErrSchemaViolation, err)
	}
	return intent, nil
}

type ruleClassifier struct{}

// NewRule returns the rules-only classifier for deployments without an LLM
// backend. The override pass still runs so both variants share semantics.
func NewRule() contractx.Classifier {
	return ruleClassifier{}
}

func (ruleClassifier) Classify(_ context.Context, query string) (statex.Intent, error) {
	return ApplyOverride(query, Rules(query)), nil
}
