package state

import (
	"fmt"
	"strings"
)

// PrimaryCategory is the closed set of top-level classifications a query
// can receive. Anything the classifier cannot place lands in CategoryUnknown;
// the deterministic override pass may still mark it as data-bearing.
type PrimaryCategory string

const (
	CategoryAccountInfo    PrimaryCategory = "account_info"
	CategorySupportRequest PrimaryCategory = "support_request"
	CategoryAccountUpdate  PrimaryCategory = "account_update"
	CategoryMultiIntent    PrimaryCategory = "multi_intent"
	CategoryUnknown        PrimaryCategory = "unknown"
)

type Urgency string

const (
	UrgencyNormal Urgency = "normal"
	UrgencyHigh   Urgency = "high"
)

// Intent is the structured classification of one query. It is produced
// exactly once per run and never mutated after it is attached to a
// SharedContext.
type Intent struct {
	PrimaryCategory PrimaryCategory `json:"primary_category"`
	RequiresData    bool            `json:"requires_data"`
	RequiresSupport bool            `json:"requires_support"`
	ReferencedIDs   []int64         `json:"referenced_ids,omitempty"`
	IsMultiStep     bool            `json:"is_multi_step"`
	Urgency         Urgency         `json:"urgency"`
}

func (i Intent) HasReferencedIDs() bool {
	return len(i.ReferencedIDs) > 0
}

// FirstReferencedID returns the first customer id mentioned in the query,
// or 0 when none was detected.
func (i Intent) FirstReferencedID() int64 {
	if len(i.ReferencedIDs) == 0 {
		return 0
	}
	return i.ReferencedIDs[0]
}

// Normalize fills zero values with their defaults so an Intent coming off
// the classifier boundary is always well-formed.
func (i *Intent) Normalize() {
	if strings.TrimSpace(string(i.PrimaryCategory)) == "" {
		i.PrimaryCategory = CategoryUnknown
	}
	if i.Urgency == "" {
		i.Urgency = UrgencyNormal
	}
}

func (i Intent) Validate() error {
	switch i.PrimaryCategory {
	case CategoryAccountInfo, CategorySupportRequest, CategoryAccountUpdate, CategoryMultiIntent, CategoryUnknown:
	default:
		return fmt.Errorf("unsupported primary_category=%q", i.PrimaryCategory)
	}
	switch i.Urgency {
	case UrgencyNormal, UrgencyHigh:
	default:
		return fmt.Errorf("unsupported urgency=%q", i.Urgency)
	}
	for _, id := range i.ReferencedIDs {
		if id <= 0 {
			return fmt.Errorf("referenced id must be positive, got %d", id)
		}
	}
	return nil
}
