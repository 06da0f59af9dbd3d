package state

import (
	"fmt"
	"strings"
)

// TaskKind names one of the concrete operations a DataWorker sub-task can
// carry. The first five map one-to-one onto the tool gateway; ticket_scan is
// the multi-step fan-out that checks tickets for every customer an earlier
// list step produced.
type TaskKind string

const (
	TaskGetCustomer     TaskKind = "get_customer"
	TaskCustomerHistory TaskKind = "customer_history"
	TaskListCustomers   TaskKind = "list_customers"
	TaskUpdateCustomer  TaskKind = "update_customer"
	TaskCreateTicket    TaskKind = "create_ticket"
	TaskTicketScan      TaskKind = "ticket_scan"

	// TaskSupportAdvice is the SupportWorker step: no tool mutation, output
	// is advisory text (plus a queued create_ticket task on high urgency).
	TaskSupportAdvice TaskKind = "support_advice"
)

// SubTask is one unit of decomposed work. DependsOn references earlier step
// ids whose results the task reads from SharedContext.StepResults; tasks with
// no dependency edge between them may run concurrently.
type SubTask struct {
	ID        string   `json:"id"`
	Kind      TaskKind `json:"kind"`
	DependsOn []string `json:"depends_on,omitempty"`

	CustomerID   int64             `json:"customer_id,omitempty"`
	Fields       map[string]string `json:"fields,omitempty"`
	Issue        string            `json:"issue,omitempty"`
	Priority     string            `json:"priority,omitempty"`
	StatusFilter string            `json:"status_filter,omitempty"`
	Limit        int               `json:"limit,omitempty"`
}

func (t SubTask) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("sub-task id is empty")
	}
	switch t.Kind {
	case TaskGetCustomer, TaskCustomerHistory, TaskUpdateCustomer, TaskCreateTicket:
		if t.CustomerID <= 0 {
			return fmt.Errorf("sub-task %s kind=%s requires a customer id", t.ID, t.Kind)
		}
	case TaskListCustomers, TaskSupportAdvice:
	case TaskTicketScan:
		if len(t.DependsOn) == 0 {
			return fmt.Errorf("sub-task %s kind=%s requires a source list step", t.ID, t.Kind)
		}
	default:
		return fmt.Errorf("sub-task %s has unsupported kind=%q", t.ID, t.Kind)
	}
	return nil
}

// DependsOnStep reports whether the task declares a dependency on stepID.
func (t SubTask) DependsOnStep(stepID string) bool {
	for _, dep := range t.DependsOn {
		if dep == stepID {
			return true
		}
	}
	return false
}

// StepResult holds the outcome of one completed sub-task. Only the fields
// matching the task kind are populated.
type StepResult struct {
	StepID string   `json:"step_id"`
	Kind   TaskKind `json:"kind"`

	Customer  *Customer                  `json:"customer,omitempty"`
	Customers []Customer                 `json:"customers,omitempty"`
	History   *CustomerHistory           `json:"history,omitempty"`
	Histories map[int64]*CustomerHistory `json:"histories,omitempty"`
	Ticket    *Ticket                    `json:"ticket,omitempty"`

	NotFound bool   `json:"not_found,omitempty"`
	Summary  string `json:"summary,omitempty"`
}
