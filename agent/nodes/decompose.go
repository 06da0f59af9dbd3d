package orchestratornode

import (
	"fmt"
	"regexp"
	"strings"

	statex "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/state"
)

var (
	emailValuePattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phoneValuePattern = regexp.MustCompile(`\+?\d[\d\s\-()]{6,}\d`)
	nameValuePattern  = regexp.MustCompile(`(?i)name\s+to\s+([A-Za-z][A-Za-z'-]*(?:\s+[A-Za-z][A-Za-z'-]*)?)`)
)

// Decompose turns the classified query into an ordered sequence of data
// sub-tasks. Deterministic patterns only; anything unrecognized degrades to
// a per-referenced-id lookup. Tasks with no DependsOn are independent and
// may run concurrently.
func Decompose(sc *statex.SharedContext) []statex.SubTask {
	query := sc.Query
	q := strings.ToLower(query)
	intent := sc.Intent

	if wantsList(q) && mentionsTickets(q) {
		return []statex.SubTask{
			{ID: "step_1", Kind: statex.TaskListCustomers, StatusFilter: statusFilter(q)},
			{ID: "step_2", Kind: statex.TaskTicketScan, DependsOn: []string{"step_1"}},
		}
	}

	var tasks []statex.SubTask
	n := 0
	nextID := func() string {
		n++
		return fmt.Sprintf("step_%d", n)
	}

	primaryID := intent.FirstReferencedID()

	if wantsUpdate(q) && primaryID != 0 {
		if fields := parseUpdateFields(query, q); len(fields) > 0 {
			tasks = append(tasks, statex.SubTask{
				ID:         nextID(),
				Kind:       statex.TaskUpdateCustomer,
				CustomerID: primaryID,
				Fields:     fields,
			})
		}
	}

	if mentionsHistory(q) && primaryID != 0 {
		tasks = append(tasks, statex.SubTask{
			ID:         nextID(),
			Kind:       statex.TaskCustomerHistory,
			CustomerID: primaryID,
		})
	}

	if len(tasks) > 0 {
		return tasks
	}

	if wantsList(q) {
		return []statex.SubTask{{
			ID:           nextID(),
			Kind:         statex.TaskListCustomers,
			StatusFilter: statusFilter(q),
		}}
	}

	for _, id := range intent.ReferencedIDs {
		tasks = append(tasks, statex.SubTask{
			ID:         nextID(),
			Kind:       statex.TaskGetCustomer,
			CustomerID: id,
		})
	}
	if len(tasks) == 0 {
		tasks = append(tasks, statex.SubTask{
			ID:           nextID(),
			Kind:         statex.TaskListCustomers,
			StatusFilter: statusFilter(q),
		})
	}
	return tasks
}

func wantsList(q string) bool {
	return strings.Contains(q, "list") ||
		strings.Contains(q, "all customers") ||
		strings.Contains(q, "every customer") ||
		strings.Contains(q, "which customers")
}

func mentionsTickets(q string) bool {
	return strings.Contains(q, "ticket")
}

func mentionsHistory(q string) bool {
	return strings.Contains(q, "history") || strings.Contains(q, "ticket")
}

func wantsUpdate(q string) bool {
	for _, verb := range []string{"update", "change", "set ", "modify", "correct"} {
		if strings.Contains(q, verb) {
			return true
		}
	}
	return false
}

func statusFilter(q string) string {
	switch {
	case strings.Contains(q, "disabled") || strings.Contains(q, "inactive"):
		return "disabled"
	case strings.Contains(q, "active"):
		return "active"
	default:
		return ""
	}
}

// parseUpdateFields extracts field assignments from the raw query. Only the
// gateway's allowed fields are ever produced.
func parseUpdateFields(query, q string) map[string]string {
	fields := make(map[string]string, 2)

	if strings.Contains(q, "email") {
		if email := emailValuePattern.FindString(query); email != "" {
			fields["email"] = email
		}
	}
	if strings.Contains(q, "phone") || strings.Contains(q, "number") {
		if phone := phoneValuePattern.FindString(query); phone != "" {
			fields["phone"] = strings.TrimSpace(phone)
		}
	}
	if m := nameValuePattern.FindStringSubmatch(query); len(m) == 2 {
		fields["name"] = strings.TrimSpace(m[1])
	}
	switch {
	case strings.Contains(q, "disable") || strings.Contains(q, "deactivate"):
		fields["status"] = "disabled"
	case strings.Contains(q, "reactivate") || strings.Contains(q, "enable") || strings.Contains(q, "activate"):
		fields["status"] = "active"
	}

	return fields
}
