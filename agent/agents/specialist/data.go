package specialist

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	contractx "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/contract"
	statex "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/state"
	logx "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/pkg/logger"
)

// DataWorker executes one data sub-task against the tool gateway. A missing
// customer is recovered locally (absent field, log entry); validation and
// timeout errors propagate so the orchestrator can fail the run.
type DataWorker struct {
	tools contractx.ToolGateway
	log   zerolog.Logger
}

var _ contractx.Specialist = (*DataWorker)(nil)

func NewData(tools contractx.ToolGateway) (*DataWorker, error) {
	if tools == nil {
		return nil, errors.New("tool gateway is required")
	}
	return &DataWorker{
		tools: tools,
		log:   logx.Component(statex.AgentDataWorker),
	}, nil
}

func (w *DataWorker) Run(ctx context.Context, req contractx.SpecialistRequest) (contractx.SpecialistResponse, error) {
	sc := req.Context
	if sc == nil {
		return contractx.SpecialistResponse{}, statex.ErrNilContext
	}
	if err := req.Task.Validate(); err != nil {
		return contractx.SpecialistResponse{}, fmt.Errorf("%w: %v", contractx.ErrValidation, err)
	}

	result, err := w.execute(ctx, sc, req.Task, req.Log)
	if err != nil {
		w.log.Debug().Str("step", req.Task.ID).Str("kind", string(req.Task.Kind)).Err(err).Msg("sub-task failed")
		return contractx.SpecialistResponse{}, err
	}
	if err := sc.PutStepResult(result); err != nil {
		return contractx.SpecialistResponse{}, fmt.Errorf("%w: %v", contractx.ErrValidation, err)
	}

	if err := w.ensureReferencedLookup(ctx, sc, req.Log); err != nil {
		return contractx.SpecialistResponse{}, err
	}

	return contractx.SpecialistResponse{Context: sc}, nil
}

func (w *DataWorker) execute(
	ctx context.Context,
	sc *statex.SharedContext,
	task statex.SubTask,
	log *statex.CommunicationLog,
) (*statex.StepResult, error) {
	result := &statex.StepResult{StepID: task.ID, Kind: task.Kind}

	switch task.Kind {
	case statex.TaskGetCustomer:
		customer, err := w.tools.GetCustomer(ctx, task.CustomerID)
		if errors.Is(err, contractx.ErrToolNotFound) {
			sc.CustomerRecord = nil
			result.NotFound = true
			result.Summary = fmt.Sprintf("customer %d not found", task.CustomerID)
			appendLog(log, statex.AgentDataWorker, statex.AgentOrchestrator, result.Summary)
			return result, nil
		}
		if err != nil {
			return nil, err
		}
		sc.CustomerRecord = customer
		result.Customer = customer
		appendLog(log, statex.AgentDataWorker, statex.AgentOrchestrator,
			fmt.Sprintf("retrieved customer %d (%s)", customer.ID, customer.Name))

	case statex.TaskCustomerHistory:
		history, err := w.tools.GetCustomerHistory(ctx, task.CustomerID)
		if errors.Is(err, contractx.ErrToolNotFound) {
			result.NotFound = true
			result.Summary = fmt.Sprintf("customer %d not found", task.CustomerID)
			appendLog(log, statex.AgentDataWorker, statex.AgentOrchestrator, result.Summary)
			return result, nil
		}
		if err != nil {
			return nil, err
		}
		sc.CustomerHistory = history
		if sc.CustomerRecord == nil {
			sc.CustomerRecord = history.Customer
		}
		result.History = history
		appendLog(log, statex.AgentDataWorker, statex.AgentOrchestrator,
			fmt.Sprintf("retrieved history for customer %d: %d tickets (%d open)",
				task.CustomerID, history.TicketCount, history.OpenTickets))

	case statex.TaskListCustomers:
		customers, err := w.tools.ListCustomers(ctx, contractx.ListFilter{
			Status: task.StatusFilter,
			Limit:  task.Limit,
		})
		if err != nil {
			return nil, err
		}
		result.Customers = customers
		appendLog(log, statex.AgentDataWorker, statex.AgentOrchestrator,
			fmt.Sprintf("listed %d customers (status=%q)", len(customers), task.StatusFilter))

	case statex.TaskUpdateCustomer:
		customer, err := w.tools.UpdateCustomer(ctx, task.CustomerID, task.Fields)
		if errors.Is(err, contractx.ErrToolNotFound) {
			sc.CustomerRecord = nil
			result.NotFound = true
			result.Summary = fmt.Sprintf("customer %d not found", task.CustomerID)
			appendLog(log, statex.AgentDataWorker, statex.AgentOrchestrator, result.Summary)
			return result, nil
		}
		if err != nil {
			return nil, err
		}
		sc.CustomerRecord = customer
		result.Customer = customer
		appendLog(log, statex.AgentDataWorker, statex.AgentOrchestrator,
			fmt.Sprintf("updated customer %d (%d fields)", customer.ID, len(task.Fields)))

	case statex.TaskCreateTicket:
		ticket, err := w.tools.CreateTicket(ctx, contractx.TicketSpec{
			CustomerID: task.CustomerID,
			Issue:      task.Issue,
			Priority:   task.Priority,
		})
		if err != nil {
			return nil, err
		}
		result.Ticket = ticket
		appendLog(log, statex.AgentDataWorker, statex.AgentOrchestrator,
			fmt.Sprintf("created ticket %d for customer %d (priority=%s)",
				ticket.ID, ticket.CustomerID, ticket.Priority))

	case statex.TaskTicketScan:
		histories, err := w.ticketScan(ctx, sc, task)
		if err != nil {
			return nil, err
		}
		result.Histories = histories
		appendLog(log, statex.AgentDataWorker, statex.AgentOrchestrator,
			fmt.Sprintf("scanned tickets for %d customers", len(histories)))

	default:
		return nil, fmt.Errorf("%w: data worker cannot execute kind=%q", contractx.ErrValidation, task.Kind)
	}

	return result, nil
}

// ticketScan fetches the ticket history for every customer an earlier list
// step produced. The dependency is declared on the task, so the source
// result is guaranteed present; its absence is an ordering breach.
func (w *DataWorker) ticketScan(
	ctx context.Context,
	sc *statex.SharedContext,
	task statex.SubTask,
) (map[int64]*statex.CustomerHistory, error) {
	source, ok := sc.StepResult(task.DependsOn[0])
	if !ok {
		return nil, fmt.Errorf("%w: ticket scan before source step %s", contractx.ErrOrderingViolation, task.DependsOn[0])
	}

	histories := make(map[int64]*statex.CustomerHistory, len(source.Customers))
	for _, customer := range source.Customers {
		history, err := w.tools.GetCustomerHistory(ctx, customer.ID)
		if errors.Is(err, contractx.ErrToolNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		histories[customer.ID] = history
	}
	return histories, nil
}

// ensureReferencedLookup is the fallback mirror of the classifier override:
// a customer id textually present in the query is looked up before the
// worker returns, even when classification said requires_data=false.
func (w *DataWorker) ensureReferencedLookup(
	ctx context.Context,
	sc *statex.SharedContext,
	log *statex.CommunicationLog,
) error {
	id := sc.Intent.FirstReferencedID()
	if id == 0 || sc.CustomerRecord != nil {
		return nil
	}
	for _, res := range sc.StepResults {
		if res.NotFound || res.Customer != nil || res.History != nil {
			return nil
		}
	}

	customer, err := w.tools.GetCustomer(ctx, id)
	if errors.Is(err, contractx.ErrToolNotFound) {
		appendLog(log, statex.AgentDataWorker, statex.AgentOrchestrator,
			fmt.Sprintf("fallback lookup: customer %d not found", id))
		return nil
	}
	if err != nil {
		return err
	}
	sc.CustomerRecord = customer
	appendLog(log, statex.AgentDataWorker, statex.AgentOrchestrator,
		fmt.Sprintf("fallback lookup: retrieved customer %d (%s)", customer.ID, customer.Name))
	return nil
}

func appendLog(log *statex.CommunicationLog, source, destination, message string) {
	if log == nil {
		return
	}
	log.Append(source, destination, message)
}
