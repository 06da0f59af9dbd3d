package orchestratornode

import (
	"testing"
	"time"

	statex "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/state"
)

func contextFor(t *testing.T, query string, intent statex.Intent) *statex.SharedContext {
	t.Helper()
	sc := statex.NewSharedContext("run-test", query, time.Now())
	if err := sc.SetIntent(intent); err != nil {
		t.Fatalf("SetIntent() error = %v", err)
	}
	return sc
}

func TestDecideRoute(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		intent statex.Intent
		want   statex.Phase
	}{
		{
			name:   "data only",
			intent: statex.Intent{RequiresData: true},
			want:   statex.PhaseDataOnly,
		},
		{
			name:   "data then support",
			intent: statex.Intent{RequiresData: true, RequiresSupport: true},
			want:   statex.PhaseDataThenSupport,
		},
		{
			name:   "data and support wins over multi step",
			intent: statex.Intent{RequiresData: true, RequiresSupport: true, IsMultiStep: true},
			want:   statex.PhaseDataThenSupport,
		},
		{
			name:   "multi step",
			intent: statex.Intent{RequiresData: true, IsMultiStep: true},
			want:   statex.PhaseMultiStep,
		},
		{
			name:   "support only",
			intent: statex.Intent{RequiresSupport: true},
			want:   statex.PhaseSupportOnly,
		},
		{
			name:   "nothing detected degrades to support",
			intent: statex.Intent{},
			want:   statex.PhaseSupportOnly,
		},
	}

	for _, tc := range cases {
		if got := DecideRoute(tc.intent); got != tc.want {
			t.Fatalf("%s: DecideRoute() = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestDecomposeListWithTicketScan(t *testing.T) {
	t.Parallel()

	sc := contextFor(t, "List all active customers and check which ones have open tickets",
		statex.Intent{PrimaryCategory: statex.CategoryMultiIntent, RequiresData: true, IsMultiStep: true})

	steps := Decompose(sc)
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d: %+v", len(steps), steps)
	}
	if steps[0].Kind != statex.TaskListCustomers || steps[0].StatusFilter != "active" {
		t.Fatalf("step 1 wrong: %+v", steps[0])
	}
	if steps[1].Kind != statex.TaskTicketScan || !steps[1].DependsOnStep(steps[0].ID) {
		t.Fatalf("step 2 must scan depending on step 1: %+v", steps[1])
	}
}

func TestDecomposeIndependentUpdateAndHistory(t *testing.T) {
	t.Parallel()

	sc := contextFor(t, "Update my email to emma.d@newmail.com and show my ticket history, customer 5",
		statex.Intent{PrimaryCategory: statex.CategoryMultiIntent, RequiresData: true, IsMultiStep: true, ReferencedIDs: []int64{5}})

	steps := Decompose(sc)
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d: %+v", len(steps), steps)
	}

	if steps[0].Kind != statex.TaskUpdateCustomer || steps[0].CustomerID != 5 {
		t.Fatalf("update step wrong: %+v", steps[0])
	}
	if steps[0].Fields["email"] != "emma.d@newmail.com" {
		t.Fatalf("email not parsed from the query: %+v", steps[0].Fields)
	}
	if steps[1].Kind != statex.TaskCustomerHistory || steps[1].CustomerID != 5 {
		t.Fatalf("history step wrong: %+v", steps[1])
	}

	for _, s := range steps {
		if len(s.DependsOn) != 0 {
			t.Fatalf("steps must be independent, %s depends on %v", s.ID, s.DependsOn)
		}
	}
}

func TestDecomposePerReferencedID(t *testing.T) {
	t.Parallel()

	sc := contextFor(t, "compare customers 3 and 7",
		statex.Intent{PrimaryCategory: statex.CategoryAccountInfo, RequiresData: true, ReferencedIDs: []int64{3, 7}})

	steps := Decompose(sc)
	if len(steps) != 2 {
		t.Fatalf("expected one lookup per id, got %d", len(steps))
	}
	if steps[0].CustomerID != 3 || steps[1].CustomerID != 7 {
		t.Fatalf("ids out of order: %+v", steps)
	}
	for _, s := range steps {
		if s.Kind != statex.TaskGetCustomer {
			t.Fatalf("expected get_customer, got %s", s.Kind)
		}
	}
}

func TestDecomposeFallsBackToList(t *testing.T) {
	t.Parallel()

	sc := contextFor(t, "show me the disabled customers",
		statex.Intent{PrimaryCategory: statex.CategoryAccountInfo, RequiresData: true})

	steps := Decompose(sc)
	if len(steps) != 1 || steps[0].Kind != statex.TaskListCustomers {
		t.Fatalf("expected a single list step, got %+v", steps)
	}
	if steps[0].StatusFilter != "disabled" {
		t.Fatalf("status filter = %q, want disabled", steps[0].StatusFilter)
	}
}

func TestParseUpdateFieldsStatusAndName(t *testing.T) {
	t.Parallel()

	fields := parseUpdateFields(
		"please change my name to Emma Stone and deactivate the account",
		"please change my name to emma stone and deactivate the account")
	if fields["name"] != "Emma Stone" {
		t.Fatalf("name = %q, want Emma Stone", fields["name"])
	}
	if fields["status"] != "disabled" {
		t.Fatalf("status = %q, want disabled", fields["status"])
	}
}
