package orchestratornode

import (
	"strings"
	"testing"

	statex "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/state"
)

func TestSynthesizeOrdersStepsNumerically(t *testing.T) {
	t.Parallel()

	sc := contextFor(t, "look up customers 1 through 12", statex.Intent{
		PrimaryCategory: statex.CategoryAccountInfo,
		RequiresData:    true,
	})

	// step_10 must render after step_2 despite sorting first lexically
	for _, step := range []struct {
		id   string
		name string
	}{
		{"step_2", "Bob Smith"},
		{"step_10", "Jack Thompson"},
	} {
		err := sc.PutStepResult(&statex.StepResult{
			StepID: step.id,
			Kind:   statex.TaskGetCustomer,
			Customer: &statex.Customer{
				ID:     2,
				Name:   step.name,
				Email:  "x@example.com",
				Phone:  "555-0000",
				Status: "active",
			},
		})
		if err != nil {
			t.Fatalf("PutStepResult(%s) error = %v", step.id, err)
		}
	}

	log := statex.NewCommunicationLog()
	out, err := Synthesize(&GraphState{Context: sc, Log: log})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	first := strings.Index(out.Response, "Bob Smith")
	second := strings.Index(out.Response, "Jack Thompson")
	if first < 0 || second < 0 {
		t.Fatalf("response missing a rendered customer: %q", out.Response)
	}
	if first > second {
		t.Fatalf("step_10 rendered before step_2: %q", out.Response)
	}
}

func TestStepIDLess(t *testing.T) {
	t.Parallel()

	cases := []struct {
		a, b string
		want bool
	}{
		{"step_2", "step_10", true},
		{"step_10", "step_2", false},
		{"step_1", "step_1", false},
		{"escalation_ticket", "step_1", true},
		{"support", "step_1", false},
	}
	for _, tc := range cases {
		if got := stepIDLess(tc.a, tc.b); got != tc.want {
			t.Fatalf("stepIDLess(%q, %q) = %t, want %t", tc.a, tc.b, got, tc.want)
		}
	}
}
