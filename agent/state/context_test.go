package state

import (
	"errors"
	"testing"
	"time"
)

func testIntent() Intent {
	return Intent{
		PrimaryCategory: CategoryAccountInfo,
		RequiresData:    true,
		ReferencedIDs:   []int64{5},
		Urgency:         UrgencyNormal,
	}
}

func TestSetIntentExactlyOnce(t *testing.T) {
	t.Parallel()

	sc := NewSharedContext("run-1", "get customer 5", time.Now())
	if sc.IntentSet() {
		t.Fatal("intent must not be set on a fresh context")
	}

	if err := sc.SetIntent(testIntent()); err != nil {
		t.Fatalf("SetIntent() error = %v", err)
	}
	if !sc.IntentSet() {
		t.Fatal("IntentSet() = false after SetIntent")
	}

	err := sc.SetIntent(testIntent())
	if !errors.Is(err, ErrIntentAlreadySet) {
		t.Fatalf("expected ErrIntentAlreadySet, got %v", err)
	}
}

func TestSetFinalResponseExactlyOnce(t *testing.T) {
	t.Parallel()

	sc := NewSharedContext("run-2", "q", time.Now())
	if err := sc.SetFinalResponse("done"); err != nil {
		t.Fatalf("SetFinalResponse() error = %v", err)
	}
	if err := sc.SetFinalResponse("again"); !errors.Is(err, ErrResponseAlreadySet) {
		t.Fatalf("expected ErrResponseAlreadySet, got %v", err)
	}
	if sc.FinalResponse != "done" {
		t.Fatalf("final response overwritten: %q", sc.FinalResponse)
	}
}

func TestPutStepResultRejectsCollision(t *testing.T) {
	t.Parallel()

	sc := NewSharedContext("run-3", "q", time.Now())
	if err := sc.PutStepResult(&StepResult{StepID: "step_1", Kind: TaskGetCustomer}); err != nil {
		t.Fatalf("PutStepResult() error = %v", err)
	}
	if err := sc.PutStepResult(&StepResult{StepID: "step_1", Kind: TaskGetCustomer}); err == nil {
		t.Fatal("expected collision error for duplicate step id")
	}
	if err := sc.PutStepResult(&StepResult{}); err == nil {
		t.Fatal("expected error for missing step id")
	}
}

func TestPhaseTrailRecordsTransitions(t *testing.T) {
	t.Parallel()

	sc := NewSharedContext("run-4", "q", time.Now())
	sc.EnterPhase(PhaseClassifying)
	sc.EnterPhase(PhaseRouting)
	sc.EnterPhase(PhaseDataOnly)

	want := []Phase{PhaseStart, PhaseClassifying, PhaseRouting, PhaseDataOnly}
	if len(sc.PhaseTrail) != len(want) {
		t.Fatalf("trail length = %d, want %d", len(sc.PhaseTrail), len(want))
	}
	for i, p := range want {
		if sc.PhaseTrail[i] != p {
			t.Fatalf("trail[%d] = %s, want %s", i, sc.PhaseTrail[i], p)
		}
	}
	if sc.Phase != PhaseDataOnly {
		t.Fatalf("current phase = %s, want %s", sc.Phase, PhaseDataOnly)
	}
}

func TestQueueAndTakePendingSteps(t *testing.T) {
	t.Parallel()

	sc := NewSharedContext("run-5", "q", time.Now())
	if err := sc.QueueStep(SubTask{ID: "escalation_ticket", Kind: TaskCreateTicket, CustomerID: 3, Issue: "x", Priority: "high"}); err != nil {
		t.Fatalf("QueueStep() error = %v", err)
	}

	steps := sc.TakePendingSteps()
	if len(steps) != 1 || steps[0].ID != "escalation_ticket" {
		t.Fatalf("unexpected drained steps: %+v", steps)
	}
	if again := sc.TakePendingSteps(); again != nil {
		t.Fatalf("second drain must be empty, got %+v", again)
	}
}

func TestForkAndAbsorbMergeDisjointResults(t *testing.T) {
	t.Parallel()

	sc := NewSharedContext("run-6", "q", time.Now())
	if err := sc.SetIntent(testIntent()); err != nil {
		t.Fatalf("SetIntent() error = %v", err)
	}

	forkA := sc.Fork()
	forkB := sc.Fork()

	if err := forkA.PutStepResult(&StepResult{StepID: "step_1", Kind: TaskUpdateCustomer, Customer: &Customer{ID: 5, Name: "Emma Davis"}}); err != nil {
		t.Fatalf("fork A PutStepResult() error = %v", err)
	}
	if err := forkB.PutStepResult(&StepResult{StepID: "step_2", Kind: TaskCustomerHistory, History: &CustomerHistory{}}); err != nil {
		t.Fatalf("fork B PutStepResult() error = %v", err)
	}
	forkA.CustomerRecord = &Customer{ID: 5, Name: "Emma Davis"}

	if err := sc.Absorb(forkA); err != nil {
		t.Fatalf("Absorb(forkA) error = %v", err)
	}
	if err := sc.Absorb(forkB); err != nil {
		t.Fatalf("Absorb(forkB) error = %v", err)
	}

	if len(sc.StepResults) != 2 {
		t.Fatalf("expected 2 merged results, got %d", len(sc.StepResults))
	}
	if sc.CustomerRecord == nil || sc.CustomerRecord.ID != 5 {
		t.Fatalf("customer record not adopted from fork: %+v", sc.CustomerRecord)
	}

	// a fork colliding with an already-merged key is rejected
	forkC := sc.Fork()
	if err := forkC.PutStepResult(&StepResult{StepID: "step_1", Kind: TaskGetCustomer}); err != nil {
		t.Fatalf("fork C PutStepResult() error = %v", err)
	}
	if err := sc.Absorb(forkC); err == nil {
		t.Fatal("expected collision error when absorbing a duplicate step id")
	}
}
