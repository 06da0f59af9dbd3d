package orchestratornode

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	statex "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/state"
)

// Synthesize composes the final response strictly from what the workers
// left on the shared context. No tool is ever invoked here.
func Synthesize(in *GraphState) (GraphOutput, error) {
	if in == nil || in.Context == nil {
		return GraphOutput{}, ErrNilRun
	}

	sc := in.Context
	sc.EnterPhase(statex.PhaseSynthesizing)

	response := composeResponse(sc)
	if err := sc.SetFinalResponse(response); err != nil {
		return GraphOutput{}, err
	}

	sc.EnterPhase(statex.PhaseDone)
	in.Log.Append(statex.AgentOrchestrator, "", "run complete")

	return GraphOutput{Response: response, Context: sc, Log: in.Log}, nil
}

func composeResponse(sc *statex.SharedContext) string {
	var parts []string

	for _, res := range orderedResults(sc) {
		if part := renderResult(res); part != "" {
			parts = append(parts, part)
		}
	}

	if len(parts) == 0 {
		if sc.CustomerRecord != nil {
			parts = append(parts, renderCustomer(sc.CustomerRecord))
		} else {
			parts = append(parts, "I could not find anything matching your request.")
		}
	}

	return strings.Join(parts, " ")
}

// orderedResults returns step results in step-id order so the synthesized
// text follows the declared sub-task sequence.
func orderedResults(sc *statex.SharedContext) []*statex.StepResult {
	results := make([]*statex.StepResult, 0, len(sc.StepResults))
	for _, res := range sc.StepResults {
		results = append(results, res)
	}
	sort.Slice(results, func(i, j int) bool {
		return stepIDLess(results[i].StepID, results[j].StepID)
	})
	return results
}

// stepIDLess orders generated step ids by their numeric suffix so step_10
// sorts after step_2; ids without a suffix fall back to plain comparison.
func stepIDLess(a, b string) bool {
	ap, an, aok := splitStepID(a)
	bp, bn, bok := splitStepID(b)
	if aok && bok && ap == bp {
		return an < bn
	}
	return a < b
}

func splitStepID(id string) (prefix string, n int, ok bool) {
	i := len(id)
	for i > 0 && id[i-1] >= '0' && id[i-1] <= '9' {
		i--
	}
	if i == len(id) {
		return id, 0, false
	}
	n, err := strconv.Atoi(id[i:])
	if err != nil {
		return id, 0, false
	}
	return id[:i], n, true
}

func renderResult(res *statex.StepResult) string {
	if res.NotFound {
		return res.Summary + "."
	}

	switch res.Kind {
	case statex.TaskGetCustomer, statex.TaskUpdateCustomer:
		if res.Customer == nil {
			return ""
		}
		if res.Kind == statex.TaskUpdateCustomer {
			return "Update applied. " + renderCustomer(res.Customer)
		}
		return renderCustomer(res.Customer)

	case statex.TaskCustomerHistory:
		if res.History == nil {
			return ""
		}
		return renderHistory(res.History)

	case statex.TaskListCustomers:
		if len(res.Customers) == 0 {
			return "No customers matched the filter."
		}
		names := make([]string, 0, len(res.Customers))
		for _, c := range res.Customers {
			names = append(names, fmt.Sprintf("%s (id %d)", c.Name, c.ID))
		}
		return fmt.Sprintf("Found %d customers: %s.", len(res.Customers), strings.Join(names, ", "))

	case statex.TaskTicketScan:
		return renderTicketScan(res.Histories)

	case statex.TaskCreateTicket:
		if res.Ticket == nil {
			return ""
		}
		return fmt.Sprintf("Opened ticket %d (priority %s) for customer %d.",
			res.Ticket.ID, res.Ticket.Priority, res.Ticket.CustomerID)

	case statex.TaskSupportAdvice:
		return res.Summary

	default:
		return res.Summary
	}
}

func renderCustomer(c *statex.Customer) string {
	return fmt.Sprintf("Customer %d: %s, email %s, phone %s, status %s.",
		c.ID, c.Name, c.Email, c.Phone, c.Status)
}

func renderHistory(h *statex.CustomerHistory) string {
	var b strings.Builder
	if h.Customer != nil {
		fmt.Fprintf(&b, "%s has %d tickets (%d open",
			h.Customer.Name, h.TicketCount, h.OpenTickets)
	} else {
		fmt.Fprintf(&b, "%d tickets (%d open", h.TicketCount, h.OpenTickets)
	}
	if h.HighPriorityTickets > 0 {
		fmt.Fprintf(&b, ", %d high priority", h.HighPriorityTickets)
	}
	b.WriteString(").")
	for i, t := range h.Tickets {
		if i == 3 {
			b.WriteString(" …")
			break
		}
		fmt.Fprintf(&b, " [%s/%s] %s.", t.Status, t.Priority, t.Issue)
	}
	return b.String()
}

// renderTicketScan reports the customers from the scan that actually have
// open tickets, so a "list X with open tickets" query answers with the
// intersection.
func renderTicketScan(histories map[int64]*statex.CustomerHistory) string {
	ids := make([]int64, 0, len(histories))
	for id, h := range histories {
		if h.OpenTickets > 0 {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return "None of them have open tickets."
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	descs := make([]string, 0, len(ids))
	for _, id := range ids {
		h := histories[id]
		name := fmt.Sprintf("customer %d", id)
		if h.Customer != nil {
			name = fmt.Sprintf("%s (id %d)", h.Customer.Name, id)
		}
		descs = append(descs, fmt.Sprintf("%s with %d open", name, h.OpenTickets))
	}
	return fmt.Sprintf("%d of them have open tickets: %s.", len(ids), strings.Join(descs, ", "))
}
