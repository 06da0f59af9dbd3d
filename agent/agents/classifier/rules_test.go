package classifier

import (
	"context"
	"testing"

	statex "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/state"
)

func TestDetectIDsSkipsEmailAndPhoneDigits(t *testing.T) {
	t.Parallel()

	cases := []struct {
		query string
		want  []int64
	}{
		{"Get customer information for ID 5", []int64{5}},
		{"update my email to emma.d99@newmail.com, customer 5", []int64{5}},
		{"my phone is 081-234-5678 and my id is 12", []int64{12}},
		{"compare customers 3 and 7, then 3 again", []int64{3, 7}},
		{"no identifiers here", nil},
	}

	for _, tc := range cases {
		got := DetectIDs(tc.query)
		if len(got) != len(tc.want) {
			t.Fatalf("DetectIDs(%q) = %v, want %v", tc.query, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("DetectIDs(%q) = %v, want %v", tc.query, got, tc.want)
			}
		}
	}
}

func TestOverrideForcesRequiresDataOnReferencedID(t *testing.T) {
	t.Parallel()

	// primary classification claimed no data needed despite a visible id
	primary := statex.Intent{
		PrimaryCategory: statex.CategorySupportRequest,
		RequiresData:    false,
		RequiresSupport: true,
	}

	out := ApplyOverride("my account 42 is broken", primary)
	if !out.RequiresData {
		t.Fatal("override must force requires_data when an id is present")
	}
	if len(out.ReferencedIDs) != 1 || out.ReferencedIDs[0] != 42 {
		t.Fatalf("referenced ids not merged: %v", out.ReferencedIDs)
	}
	if !out.RequiresSupport {
		t.Fatal("override must not weaken requires_support")
	}
}

func TestOverrideOnlyStrengthens(t *testing.T) {
	t.Parallel()

	primary := statex.Intent{
		PrimaryCategory: statex.CategoryAccountInfo,
		RequiresData:    true,
		ReferencedIDs:   []int64{9},
		Urgency:         statex.UrgencyHigh,
	}

	out := ApplyOverride("tell me about my account", primary)
	if !out.RequiresData {
		t.Fatal("requires_data weakened by override")
	}
	if out.Urgency != statex.UrgencyHigh {
		t.Fatal("urgency lowered by override")
	}
	if len(out.ReferencedIDs) != 1 || out.ReferencedIDs[0] != 9 {
		t.Fatalf("primary ids dropped: %v", out.ReferencedIDs)
	}
}

func TestUrgencyLexicon(t *testing.T) {
	t.Parallel()

	urgent := []string{
		"I need this fixed immediately",
		"refund me please",
		"I was charged twice",
		"this is broken!!",
		"fix it ASAP",
	}
	for _, q := range urgent {
		if !DetectUrgency(q) {
			t.Fatalf("DetectUrgency(%q) = false, want true", q)
		}
	}

	if DetectUrgency("please update my email when you get a chance") {
		t.Fatal("calm query flagged urgent")
	}
}

func TestRulesClassification(t *testing.T) {
	t.Parallel()

	cases := []struct {
		query        string
		category     statex.PrimaryCategory
		requiresData bool
		support      bool
		multiStep    bool
		urgency      statex.Urgency
	}{
		{
			query:        "Get customer information for ID 5",
			category:     statex.CategoryAccountInfo,
			requiresData: true,
			urgency:      statex.UrgencyNormal,
		},
		{
			query:        "Update my email to new@email.com and show my ticket history, customer 5",
			category:     statex.CategoryMultiIntent,
			requiresData: true,
			multiStep:    true,
			urgency:      statex.UrgencyNormal,
		},
		{
			query:        "I was charged twice and need a refund immediately!! My customer ID is 3",
			category:     statex.CategorySupportRequest,
			requiresData: true,
			support:      true,
			urgency:      statex.UrgencyHigh,
		},
		{
			query:        "List all active customers and check which ones have open tickets",
			category:     statex.CategoryMultiIntent,
			requiresData: true,
			multiStep:    true,
			urgency:      statex.UrgencyNormal,
		},
		{
			query:    "I have a problem with the app",
			category: statex.CategorySupportRequest,
			support:  true,
			urgency:  statex.UrgencyNormal,
		},
	}

	for _, tc := range cases {
		got := Rules(tc.query)
		if got.PrimaryCategory != tc.category {
			t.Fatalf("Rules(%q) category = %s, want %s", tc.query, got.PrimaryCategory, tc.category)
		}
		if got.RequiresData != tc.requiresData {
			t.Fatalf("Rules(%q) requires_data = %t, want %t", tc.query, got.RequiresData, tc.requiresData)
		}
		if got.RequiresSupport != tc.support {
			t.Fatalf("Rules(%q) requires_support = %t, want %t", tc.query, got.RequiresSupport, tc.support)
		}
		if got.IsMultiStep != tc.multiStep {
			t.Fatalf("Rules(%q) is_multi_step = %t, want %t", tc.query, got.IsMultiStep, tc.multiStep)
		}
		if got.Urgency != tc.urgency {
			t.Fatalf("Rules(%q) urgency = %s, want %s", tc.query, got.Urgency, tc.urgency)
		}
	}
}

func TestRuleClassifierNeverFails(t *testing.T) {
	t.Parallel()

	cls := NewRule()
	intent, err := cls.Classify(context.Background(), "complete gibberish 77 qwerty")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if !intent.RequiresData {
		t.Fatal("id-bearing gibberish must still require data")
	}
	if len(intent.ReferencedIDs) != 1 || intent.ReferencedIDs[0] != 77 {
		t.Fatalf("unexpected referenced ids: %v", intent.ReferencedIDs)
	}
}

func TestFallbackMatchesRulesOutput(t *testing.T) {
	t.Parallel()

	query := "show my tickets, customer 8, this is urgent"
	fromRules := Rules(query)
	fromFallback := ApplyOverride(query, Rules(query))

	if fromRules.RequiresData != fromFallback.RequiresData ||
		fromRules.Urgency != fromFallback.Urgency {
		t.Fatalf("override over rules output changed it: %+v vs %+v", fromRules, fromFallback)
	}
}
