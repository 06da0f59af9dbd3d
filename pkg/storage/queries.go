package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	statex "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/state"
)

// DefaultListLimit caps list_customers when the caller does not set one.
const DefaultListLimit = 10

func (s *Store) GetCustomer(ctx context.Context, id int64) (*statex.Customer, error) {
	var row Customer
	err := s.db.NewSelect().Model(&row).Where("c.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: customer id=%d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get customer id=%d: %w", id, err)
	}
	return row.ToState(), nil
}

func (s *Store) ListCustomers(ctx context.Context, status string, limit int) ([]statex.Customer, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	var rows []Customer
	q := s.db.NewSelect().Model(&rows).Order("c.id ASC").Limit(limit)
	if status != "" {
		q = q.Where("c.status = ?", status)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customersToState(rows), nil
}

// UpdateCustomer applies the given fields and bumps updated_at. The caller
// has already validated the field names against the allowed set.
func (s *Store) UpdateCustomer(ctx context.Context, id int64, fields map[string]string) (*statex.Customer, error) {
	if len(fields) == 0 {
		return nil, errors.New("no fields to update")
	}

	q := s.db.NewUpdate().Model((*Customer)(nil)).Where("id = ?", id)
	for field, value := range fields {
		q = q.Set("? = ?", bun.Ident(field), value)
	}
	q = q.Set("updated_at = ?", time.Now().UTC())

	res, err := q.Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("update customer id=%d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update customer id=%d: rows affected: %w", id, err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: customer id=%d", ErrNotFound, id)
	}

	return s.GetCustomer(ctx, id)
}

func (s *Store) CreateTicket(ctx context.Context, customerID int64, issue, priority string) (*statex.Ticket, error) {
	if _, err := s.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	row := Ticket{
		CustomerID: customerID,
		Issue:      issue,
		Status:     "open",
		Priority:   priority,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return nil, fmt.Errorf("create ticket for customer id=%d: %w", customerID, err)
	}
	return row.ToState(), nil
}

func (s *Store) GetCustomerHistory(ctx context.Context, id int64) (*statex.CustomerHistory, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	tickets, err := s.TicketsByCriteria(ctx, "", "", []int64{id})
	if err != nil {
		return nil, fmt.Errorf("ticket history for customer id=%d: %w", id, err)
	}

	history := &statex.CustomerHistory{
		Customer: customer,
		Tickets:  tickets,
	}
	history.Recount()
	return history, nil
}

// TicketsByCriteria filters tickets by status, priority, and customer ids.
// Empty criteria are skipped.
func (s *Store) TicketsByCriteria(ctx context.Context, status, priority string, customerIDs []int64) ([]statex.Ticket, error) {
	var rows []Ticket
	q := s.db.NewSelect().Model(&rows).Order("t.created_at DESC").Order("t.id DESC")
	if status != "" {
		q = q.Where("t.status = ?", status)
	}
	if priority != "" {
		q = q.Where("t.priority = ?", priority)
	}
	if len(customerIDs) > 0 {
		q = q.Where("t.customer_id IN (?)", bun.In(customerIDs))
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("tickets by criteria: %w", err)
	}
	return ticketsToState(rows), nil
}

// Stats summarizes the store for the demo entrypoint.
type Stats struct {
	ActiveCustomers     int `json:"active_customers"`
	DisabledCustomers   int `json:"disabled_customers"`
	OpenTickets         int `json:"open_tickets"`
	InProgressTickets   int `json:"in_progress_tickets"`
	HighPriorityTickets int `json:"high_priority_tickets"`
}

func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	var err error

	if stats.ActiveCustomers, err = s.db.NewSelect().Model((*Customer)(nil)).Where("status = 'active'").Count(ctx); err != nil {
		return stats, fmt.Errorf("count active customers: %w", err)
	}
	if stats.DisabledCustomers, err = s.db.NewSelect().Model((*Customer)(nil)).Where("status = 'disabled'").Count(ctx); err != nil {
		return stats, fmt.Errorf("count disabled customers: %w", err)
	}
	if stats.OpenTickets, err = s.db.NewSelect().Model((*Ticket)(nil)).Where("status = 'open'").Count(ctx); err != nil {
		return stats, fmt.Errorf("count open tickets: %w", err)
	}
	if stats.InProgressTickets, err = s.db.NewSelect().Model((*Ticket)(nil)).Where("status = 'in_progress'").Count(ctx); err != nil {
		return stats, fmt.Errorf("count in-progress tickets: %w", err)
	}
	if stats.HighPriorityTickets, err = s.db.NewSelect().Model((*Ticket)(nil)).Where("priority = 'high'").Count(ctx); err != nil {
		return stats, fmt.Errorf("count high-priority tickets: %w", err)
	}

	return stats, nil
}
