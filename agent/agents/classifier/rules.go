package classifier

import (
	"regexp"
	"strconv"
	"strings"

	statex "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/state"
)

var (
	// Customer ids are plain integers in query text. Email addresses and
	// phone-style tokens are stripped first so their digits do not match.
	idPattern    = regexp.MustCompile(`\b\d{1,9}\b`)
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\-\s]{6,}\d`)

	mutationVerbs = []string{"update", "change", "set ", "correct", "modify"}
	readVerbs     = []string{"show", "get", "list", "view", "look up", "lookup", "find", "check", "tell me", "what is", "give me"}
	supportWords  = []string{"help", "problem", "issue", "broken", "not working", "doesn't work", "error", "complain", "refund", "cancel", "support", "trouble"}

	urgencyLexicon = []string{
		"immediately", "urgent", "urgently", "asap", "right now", "right away",
		"refund", "charged twice", "double charge", "double-charged", "unacceptable",
	}
)

// DetectIDs returns the customer ids referenced in the query, in order of
// appearance, with duplicates removed.
func DetectIDs(query string) []int64 {
	cleaned := emailPattern.ReplaceAllString(query, " ")
	cleaned = phonePattern.ReplaceAllString(cleaned, " ")

	var ids []int64
	seen := make(map[int64]struct{}, 2)
	for _, raw := range idPattern.FindAllString(cleaned, -1) {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// DetectUrgency reports whether the query matches the urgency lexicon,
// including repeated exclamation marks.
func DetectUrgency(query string) bool {
	lower := strings.ToLower(query)
	for _, word := range urgencyLexicon {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return strings.Contains(query, "!!")
}

func containsAny(lower string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// detectMultiIntent reports whether the query carries two or more
// independent action verbs joined by a connective, or a list-then-check
// composition ("list active customers with open tickets").
func detectMultiIntent(query string) bool {
	lower := strings.ToLower(query)

	hasConnective := strings.Contains(lower, " and ") || strings.Contains(lower, " then ") || strings.Contains(lower, ", ")
	if hasConnective && containsAny(lower, mutationVerbs) && containsAny(lower, readVerbs) {
		return true
	}

	listLike := strings.Contains(lower, "list ") || strings.Contains(lower, "all customers") || strings.Contains(lower, "customers with")
	return listLike && strings.Contains(lower, "ticket")
}

// Rules is the deterministic fallback classification. It never fails and is
// also the source for the override pass that strengthens LLM output.
func Rules(query string) statex.Intent {
	lower := strings.ToLower(query)

	intent := statex.Intent{
		PrimaryCategory: statex.CategoryUnknown,
		ReferencedIDs:   DetectIDs(query),
		Urgency:         statex.UrgencyNormal,
	}

	multi := detectMultiIntent(query)
	mutation := containsAny(lower, mutationVerbs)
	read := containsAny(lower, readVerbs)
	support := containsAny(lower, supportWords)

	switch {
	case multi:
		intent.PrimaryCategory = statex.CategoryMultiIntent
		intent.IsMultiStep = true
		intent.RequiresData = true
	case mutation:
		intent.PrimaryCategory = statex.CategoryAccountUpdate
		intent.RequiresData = true
	case support:
		intent.PrimaryCategory = statex.CategorySupportRequest
		intent.RequiresSupport = true
	case read || len(intent.ReferencedIDs) > 0:
		intent.PrimaryCategory = statex.CategoryAccountInfo
		intent.RequiresData = true
	}

	if support && intent.PrimaryCategory != statex.CategorySupportRequest {
		intent.RequiresSupport = true
	}
	if len(intent.ReferencedIDs) > 0 {
		intent.RequiresData = true
	}
	if DetectUrgency(query) {
		intent.Urgency = statex.UrgencyHigh
	}

	intent.Normalize()
	return intent
}

// ApplyOverride is the deterministic validator pass that always runs after
// the primary classification. It may only strengthen: a textually present
// customer id forces requires_data regardless of what the primary produced,
// urgency is raised but never lowered, and multi-step detection is added
// when the rules see it. requires_support is deliberately left to the
// primary classification.
func ApplyOverride(query string, intent statex.Intent) statex.Intent {
	ids := DetectIDs(query)
	if len(ids) > 0 {
		intent.RequiresData = true
		intent.ReferencedIDs = mergeIDs(intent.ReferencedIDs, ids)
	}
	if DetectUrgency(query) {
		intent.Urgency = statex.UrgencyHigh
	}
	if detectMultiIntent(query) {
		intent.IsMultiStep = true
		intent.RequiresData = true
	}
	intent.Normalize()
	return intent
}

func mergeIDs(primary, detected []int64) []int64 {
	seen := make(map[int64]struct{}, len(primary)+len(detected))
	out := make([]int64, 0, len(primary)+len(detected))
	for _, id := range primary {
		if _, dup := seen[id]; dup || id <= 0 {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for _, id := range detected {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
