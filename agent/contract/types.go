package contract

import (
	statex "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/state"
)

type AgentType string

const (
	AgentTypeOrchestrator AgentType = "orchestrator"
	AgentTypeClassifier   AgentType = "classifier"
	AgentTypeData         AgentType = "data"
	AgentTypeSupport      AgentType = "support"
)

// SpecialistRequest hands the SharedContext (and the sub-task to execute)
// to one specialist. Ownership transfers with the request: the caller must
// not touch the context until the response hands it back.
type SpecialistRequest struct {
	Context *statex.SharedContext    `json:"context"`
	Task    statex.SubTask           `json:"task"`
	Log     *statex.CommunicationLog `json:"-"`
}

type SpecialistResponse struct {
	Context *statex.SharedContext `json:"context"`
}

// ListFilter narrows list_customers. The zero value means all customers
// with the default limit.
type ListFilter struct {
	Status string `json:"status,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// TicketSpec is the create_ticket input.
type TicketSpec struct {
	CustomerID int64  `json:"customer_id"`
	Issue      string `json:"issue"`
	Priority   string `json:"priority"`
}
