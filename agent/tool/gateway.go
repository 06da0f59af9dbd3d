// Package tool exposes the five data operations as a typed, stateless
// gateway. Every operation is total over its inputs: misses surface as
// ErrToolNotFound and bad input as ErrToolValidation, never as a generic
// fault.
package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	contractx "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/contract"
	statex "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/state"
	logx "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/pkg/logger"
	storagex "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/pkg/storage"
)

// Operation names as they appear in communication log entries.
const (
	OpGetCustomer        = "get_customer"
	OpListCustomers      = "list_customers"
	OpUpdateCustomer     = "update_customer"
	OpCreateTicket       = "create_ticket"
	OpGetCustomerHistory = "get_customer_history"
)

var (
	allowedUpdateFields = map[string]struct{}{
		"name":   {},
		"email":  {},
		"phone":  {},
		"status": {},
	}
	allowedPriorities = map[string]struct{}{
		"low":    {},
		"medium": {},
		"high":   {},
	}
	allowedStatuses = map[string]struct{}{
		"active":   {},
		"disabled": {},
	}
)

// Gateway implements contract.ToolGateway over the backing store.
type Gateway struct {
	store *storagex.Store
	log   zerolog.Logger
}

var _ contractx.ToolGateway = (*Gateway)(nil)

func NewGateway(store *storagex.Store) (*Gateway, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	return &Gateway{
		store: store,
		log:   logx.Component(statex.AgentToolGateway),
	}, nil
}

func (g *Gateway) GetCustomer(ctx context.Context, id int64) (*statex.Customer, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: customer id must be positive, got %d", contractx.ErrToolValidation, id)
	}

	g.log.Debug().Int64("customer_id", id).Str("op", OpGetCustomer).Msg("tool invoked")
	customer, err := g.store.GetCustomer(ctx, id)
	if err != nil {
		return nil, mapStoreError(OpGetCustomer, err)
	}
	return customer, nil
}

func (g *Gateway) ListCustomers(ctx context.Context, filter contractx.ListFilter) ([]statex.Customer, error) {
	status := strings.TrimSpace(filter.Status)
	if status != "" {
		if _, ok := allowedStatuses[status]; !ok {
			return nil, fmt.Errorf("%w: unsupported status filter %q", contractx.ErrToolValidation, status)
		}
	}

	g.log.Debug().Str("status", status).Int("limit", filter.Limit).Str("op", OpListCustomers).Msg("tool invoked")
	customers, err := g.store.ListCustomers(ctx, status, filter.Limit)
	if err != nil {
		return nil, mapStoreError(OpListCustomers, err)
	}
	return customers, nil
}

func (g *Gateway) UpdateCustomer(ctx context.Context, id int64, fields map[string]string) (*statex.Customer, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: customer id must be positive, got %d", contractx.ErrToolValidation, id)
	}

	filtered := make(map[string]string, len(fields))
	for field, value := range fields {
		key := strings.ToLower(strings.TrimSpace(field))
		if _, ok := allowedUpdateFields[key]; !ok {
			continue
		}
		if key == "status" {
			if _, ok := allowedStatuses[value]; !ok {
				return nil, fmt.Errorf("%w: unsupported status value %q", contractx.ErrToolValidation, value)
			}
		}
		filtered[key] = value
	}
	if len(filtered) == 0 {
		return nil, fmt.Errorf("%w: no valid fields to update", contractx.ErrToolValidation)
	}

	g.log.Debug().Int64("customer_id", id).Int("fields", len(filtered)).Str("op", OpUpdateCustomer).Msg("tool invoked")
	customer, err := g.store.UpdateCustomer(ctx, id, filtered)
	if err != nil {
		return nil, mapStoreError(OpUpdateCustomer, err)
	}
	return customer, nil
}

func (g *Gateway) CreateTicket(ctx context.Context, spec contractx.TicketSpec) (*statex.Ticket, error) {
	if spec.CustomerID <= 0 {
		return nil, fmt.Errorf("%w: customer id must be positive, got %d", contractx.ErrToolValidation, spec.CustomerID)
	}
	issue := strings.TrimSpace(spec.Issue)
	if issue == "" {
		return nil, fmt.Errorf("%w: ticket issue is required", contractx.ErrToolValidation)
	}
	priority := strings.TrimSpace(spec.Priority)
	if priority == "" {
		priority = "medium"
	}
	if _, ok := allowedPriorities[priority]; !ok {
		return nil, fmt.Errorf("%w: unsupported priority %q", contractx.ErrToolValidation, priority)
	}

	g.log.Debug().Int64("customer_id", spec.CustomerID).Str("priority", priority).Str("op", OpCreateTicket).Msg("tool invoked")
	ticket, err := g.store.CreateTicket(ctx, spec.CustomerID, issue, priority)
	if err != nil {
		return nil, mapStoreError(OpCreateTicket, err)
	}
	return ticket, nil
}

func (g *Gateway) GetCustomerHistory(ctx context.Context, id int64) (*statex.CustomerHistory, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: customer id must be positive, got %d", contractx.ErrToolValidation, id)
	}

	g.log.Debug().Int64("customer_id", id).Str("op", OpGetCustomerHistory).Msg("tool invoked")
	history, err := g.store.GetCustomerHistory(ctx, id)
	if err != nil {
		return nil, mapStoreError(OpGetCustomerHistory, err)
	}
	return history, nil
}

func mapStoreError(op string, err error) error {
	if errors.Is(err, storagex.ErrNotFound) {
		return fmt.Errorf("%w: %s: %v", contractx.ErrToolNotFound, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
