package contract

import (
	"context"

	statex "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/state"
)

// Classifier maps a raw query to a structured Intent. Implementations must
// never fail the run: on primary-backend failure they fall back to the
// deterministic rule pass, so a returned error is a programming bug.
type Classifier interface {
	Classify(ctx context.Context, query string) (statex.Intent, error)
}

type Specialist interface {
	Run(ctx context.Context, req SpecialistRequest) (SpecialistResponse, error)
}

type Registry interface {
	Classifier() Classifier
	Data() Specialist
	Support() Specialist
}

// ToolGateway is the typed facade over the five data operations. Every call
// honors the context deadline; a timeout surfaces as a tool failure to the
// calling specialist.
type ToolGateway interface {
	GetCustomer(ctx context.Context, id int64) (*statex.Customer, error)
	ListCustomers(ctx context.Context, filter ListFilter) ([]statex.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, fields map[string]string) (*statex.Customer, error)
	CreateTicket(ctx context.Context, spec TicketSpec) (*statex.Ticket, error)
	GetCustomerHistory(ctx context.Context, id int64) (*statex.CustomerHistory, error)
}

// Notifier publishes out-of-band alerts (high-priority ticket creation).
// Implementations are best-effort; failures are logged, never fatal.
type Notifier interface {
	NotifyTicket(ctx context.Context, ticket *statex.Ticket) error
}
