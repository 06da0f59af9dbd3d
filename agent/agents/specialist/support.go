package specialist

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	contractx "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/contract"
	statex "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/state"
	logx "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/pkg/logger"
)

// SupportWorker composes advisory guidance from whatever data context is
// already on the shared context. It never calls mutating tools itself: when
// urgency warrants a ticket it queues a create_ticket sub-task for the
// DataWorker to drain.
type SupportWorker struct {
	log zerolog.Logger
}

var _ contractx.Specialist = (*SupportWorker)(nil)

func NewSupport() *SupportWorker {
	return &SupportWorker{log: logx.Component(statex.AgentSupport)}
}

func (w *SupportWorker) Run(ctx context.Context, req contractx.SpecialistRequest) (contractx.SpecialistResponse, error) {
	sc := req.Context
	if sc == nil {
		return contractx.SpecialistResponse{}, statex.ErrNilContext
	}

	if sc.Intent.RequiresData && !hasDataResult(sc) {
		return contractx.SpecialistResponse{}, fmt.Errorf(
			"%w: support invoked before data retrieval for a data-dependent intent",
			contractx.ErrOrderingViolation)
	}

	advisory := w.compose(sc)

	stepID := req.Task.ID
	if stepID == "" {
		stepID = "support"
	}
	if err := sc.PutStepResult(&statex.StepResult{
		StepID:  stepID,
		Kind:    statex.TaskSupportAdvice,
		Summary: advisory,
	}); err != nil {
		return contractx.SpecialistResponse{}, fmt.Errorf("%w: %v", contractx.ErrValidation, err)
	}

	appendLog(req.Log, statex.AgentSupport, statex.AgentOrchestrator,
		fmt.Sprintf("advisory prepared (%d chars)", len(advisory)))

	if sc.Intent.Urgency == statex.UrgencyHigh {
		w.queueEscalation(sc, req.Log)
	}

	return contractx.SpecialistResponse{Context: sc}, nil
}

func hasDataResult(sc *statex.SharedContext) bool {
	if sc.CustomerRecord != nil || sc.CustomerHistory != nil {
		return true
	}
	for _, res := range sc.StepResults {
		if res.Kind != statex.TaskSupportAdvice {
			return true
		}
	}
	return false
}

// queueEscalation asks the DataWorker to open a high-priority ticket for the
// customer in context. Without a resolved customer there is nothing to
// attach the ticket to, so the escalation stays advisory-only.
func (w *SupportWorker) queueEscalation(sc *statex.SharedContext, log *statex.CommunicationLog) {
	var customerID int64
	if sc.CustomerRecord != nil {
		customerID = sc.CustomerRecord.ID
	} else if sc.CustomerHistory != nil && sc.CustomerHistory.Customer != nil {
		customerID = sc.CustomerHistory.Customer.ID
	}
	if customerID == 0 {
		w.log.Debug().Msg("high urgency without a resolved customer, skipping ticket escalation")
		return
	}

	sc.QueueStep(statex.SubTask{
		ID:         "escalation_ticket",
		Kind:       statex.TaskCreateTicket,
		CustomerID: customerID,
		Issue:      summarizeIssue(sc.Query),
		Priority:   "high",
	})
	appendLog(log, statex.AgentSupport, statex.AgentOrchestrator,
		fmt.Sprintf("queued high-priority ticket for customer %d", customerID))
}

func summarizeIssue(query string) string {
	issue := strings.TrimSpace(query)
	if len(issue) > 200 {
		issue = issue[:200]
	}
	if issue == "" {
		issue = "urgent support request"
	}
	return issue
}

func (w *SupportWorker) compose(sc *statex.SharedContext) string {
	var b strings.Builder

	topic := classifyTopic(sc.Query)
	switch topic {
	case topicBilling:
		b.WriteString("Billing concern noted. I have reviewed the account context and flagged the charge for review; ")
		b.WriteString("duplicate charges are reversed within 3-5 business days once confirmed.")
	case topicRefund:
		b.WriteString("Refund request noted. Eligible refunds are processed to the original payment method; ")
		b.WriteString("I have recorded the request against the account.")
	case topicTechnical:
		b.WriteString("Technical issue noted. Please try signing out and back in first; ")
		b.WriteString("if the problem persists the engineering queue will pick up the report.")
	default:
		b.WriteString("Support request noted. I have recorded the details and the team will follow up.")
	}

	if sc.CustomerRecord != nil {
		fmt.Fprintf(&b, " Account on file: %s (customer %d, status %s).",
			sc.CustomerRecord.Name, sc.CustomerRecord.ID, sc.CustomerRecord.Status)
	}
	if sc.CustomerHistory != nil {
		fmt.Fprintf(&b, " History shows %d tickets, %d currently open.",
			sc.CustomerHistory.TicketCount, sc.CustomerHistory.OpenTickets)
		if sc.CustomerHistory.HighPriorityTickets > 0 {
			fmt.Fprintf(&b, " %d are high priority.", sc.CustomerHistory.HighPriorityTickets)
		}
	}
	if sc.Intent.Urgency == statex.UrgencyHigh {
		b.WriteString(" This has been marked urgent.")
	}

	return b.String()
}

type supportTopic int

const (
	topicGeneral supportTopic = iota
	topicBilling
	topicRefund
	topicTechnical
)

func classifyTopic(query string) supportTopic {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "refund"):
		return topicRefund
	case strings.Contains(q, "charge") || strings.Contains(q, "billing") || strings.Contains(q, "invoice") || strings.Contains(q, "payment"):
		return topicBilling
	case strings.Contains(q, "error") || strings.Contains(q, "crash") || strings.Contains(q, "bug") || strings.Contains(q, "not working") || strings.Contains(q, "login") || strings.Contains(q, "log in"):
		return topicTechnical
	default:
		return topicGeneral
	}
}
