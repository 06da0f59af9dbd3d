package state

import (
	"errors"
	"fmt"
	"time"
)

// Phase is one state of the orchestrator run machine. Every run ends in
// PhaseDone or PhaseFailed; no other phase is terminal.
type Phase string

const (
	PhaseStart           Phase = "START"
	PhaseClassifying     Phase = "CLASSIFYING"
	PhaseRouting         Phase = "ROUTING"
	PhaseDataOnly        Phase = "DATA_ONLY"
	PhaseDataThenSupport Phase = "DATA_THEN_SUPPORT"
	PhaseMultiStep       Phase = "MULTI_STEP"
	PhaseSupportOnly     Phase = "SUPPORT_ONLY"
	PhaseSynthesizing    Phase = "SYNTHESIZING"
	PhaseDone            Phase = "DONE"
	PhaseFailed          Phase = "FAILED"
)

var (
	ErrIntentAlreadySet   = errors.New("intent already set")
	ErrResponseAlreadySet = errors.New("final response already set")
	ErrNilContext         = errors.New("shared context is nil")
)

// SharedContext is the mutable state threaded through one run. It is owned
// by the orchestrator and handed off exclusively to one specialist at a
// time; concurrent sub-tasks receive disjoint StepResults keys and their
// results are merged back by the orchestrator, never by shared mutation.
type SharedContext struct {
	RunID string `json:"run_id"`
	Query string `json:"query"`

	Intent    Intent `json:"intent"`
	intentSet bool

	CustomerRecord  *Customer        `json:"customer_record,omitempty"`
	CustomerHistory *CustomerHistory `json:"customer_history,omitempty"`

	PendingSteps []SubTask              `json:"pending_steps,omitempty"`
	StepResults  map[string]*StepResult `json:"step_results,omitempty"`

	FinalResponse string `json:"final_response,omitempty"`
	responseSet   bool

	Phase      Phase     `json:"phase"`
	PhaseTrail []Phase   `json:"phase_trail"`
	StartedAt  time.Time `json:"started_at"`
}

// NewSharedContext creates the context for one run. runID comes from the
// orchestrator (a fresh UUID per run).
func NewSharedContext(runID, query string, now time.Time) *SharedContext {
	sc := &SharedContext{
		RunID:       runID,
		Query:       query,
		StepResults: make(map[string]*StepResult, 4),
		StartedAt:   now.UTC(),
	}
	sc.EnterPhase(PhaseStart)
	return sc
}

// SetIntent attaches the classification result. It may be called exactly
// once; the intent is immutable afterwards.
func (sc *SharedContext) SetIntent(intent Intent) error {
	if sc == nil {
		return ErrNilContext
	}
	if sc.intentSet {
		return ErrIntentAlreadySet
	}
	intent.Normalize()
	if err := intent.Validate(); err != nil {
		return err
	}
	sc.Intent = intent
	sc.intentSet = true
	return nil
}

func (sc *SharedContext) IntentSet() bool {
	return sc != nil && sc.intentSet
}

// SetFinalResponse is called by the orchestrator alone, after all required
// specialists completed. A second call is an invariant breach.
func (sc *SharedContext) SetFinalResponse(response string) error {
	if sc == nil {
		return ErrNilContext
	}
	if sc.responseSet {
		return ErrResponseAlreadySet
	}
	sc.FinalResponse = response
	sc.responseSet = true
	return nil
}

// EnterPhase advances the state machine and records the transition on the
// trail so a finished run exposes its full path.
func (sc *SharedContext) EnterPhase(p Phase) {
	if sc == nil {
		return
	}
	sc.Phase = p
	sc.PhaseTrail = append(sc.PhaseTrail, p)
}

// QueueStep appends a sub-task to the pending queue. SupportWorker uses this
// to hand ticket creation to the DataWorker instead of mutating data itself.
func (sc *SharedContext) QueueStep(task SubTask) error {
	if sc == nil {
		return ErrNilContext
	}
	if err := task.Validate(); err != nil {
		return err
	}
	sc.PendingSteps = append(sc.PendingSteps, task)
	return nil
}

// TakePendingSteps drains and returns the pending queue.
func (sc *SharedContext) TakePendingSteps() []SubTask {
	if sc == nil || len(sc.PendingSteps) == 0 {
		return nil
	}
	steps := sc.PendingSteps
	sc.PendingSteps = nil
	return steps
}

// PutStepResult stores a completed step result. Overwriting an existing key
// is rejected: concurrent sub-tasks own disjoint keys by construction and a
// collision means the decomposition was wrong.
func (sc *SharedContext) PutStepResult(res *StepResult) error {
	if sc == nil {
		return ErrNilContext
	}
	if res == nil || res.StepID == "" {
		return errors.New("step result must carry a step id")
	}
	if sc.StepResults == nil {
		sc.StepResults = make(map[string]*StepResult, 4)
	}
	if _, exists := sc.StepResults[res.StepID]; exists {
		return fmt.Errorf("step result for %s already recorded", res.StepID)
	}
	sc.StepResults[res.StepID] = res
	return nil
}

// Fork returns a private view for one concurrent sub-task: same run
// identity and intent, read access to whatever was resolved so far, and an
// empty StepResults map of its own. Concurrent workers never touch the
// parent; the orchestrator merges each fork back with Absorb.
func (sc *SharedContext) Fork() *SharedContext {
	if sc == nil {
		return nil
	}
	fork := &SharedContext{
		RunID:           sc.RunID,
		Query:           sc.Query,
		Intent:          sc.Intent,
		intentSet:       sc.intentSet,
		CustomerRecord:  sc.CustomerRecord,
		CustomerHistory: sc.CustomerHistory,
		StepResults:     make(map[string]*StepResult, 2),
		Phase:           sc.Phase,
		StartedAt:       sc.StartedAt,
	}
	return fork
}

// Absorb merges a fork's step results and any newly resolved customer data
// back into the parent. Key collisions are rejected the same way
// PutStepResult rejects them.
func (sc *SharedContext) Absorb(fork *SharedContext) error {
	if sc == nil {
		return ErrNilContext
	}
	if fork == nil {
		return nil
	}
	for _, res := range fork.StepResults {
		if err := sc.PutStepResult(res); err != nil {
			return err
		}
	}
	if sc.CustomerRecord == nil {
		sc.CustomerRecord = fork.CustomerRecord
	}
	if sc.CustomerHistory == nil {
		sc.CustomerHistory = fork.CustomerHistory
	}
	sc.PendingSteps = append(sc.PendingSteps, fork.PendingSteps...)
	return nil
}

func (sc *SharedContext) StepResult(stepID string) (*StepResult, bool) {
	if sc == nil || sc.StepResults == nil {
		return nil, false
	}
	res, ok := sc.StepResults[stepID]
	return res, ok
}
