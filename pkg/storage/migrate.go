package storage

import (
	"context"
	"fmt"
	"time"
)

const (
	customersDDL = `
		CREATE TABLE IF NOT EXISTS customers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT,
			phone TEXT,
			status TEXT DEFAULT 'active' CHECK(status IN ('active', 'disabled')),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`

	ticketsDDL = `
		CREATE TABLE IF NOT EXISTS tickets (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			customer_id INTEGER NOT NULL,
			issue TEXT NOT NULL,
			status TEXT DEFAULT 'open' CHECK(status IN ('open', 'in_progress', 'resolved')),
			priority TEXT DEFAULT 'medium' CHECK(priority IN ('low', 'medium', 'high')),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (customer_id) REFERENCES customers(id)
		)`
)

// CreateSchema creates the customers and tickets tables if missing.
// SQLite only; Postgres deployments manage migrations externally.
func (s *Store) CreateSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, customersDDL); err != nil {
		return fmt.Errorf("create customers table: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, ticketsDDL); err != nil {
		return fmt.Errorf("create tickets table: %w", err)
	}
	return nil
}

// CountCustomers reports how many customers exist; used to decide whether
// the demo seed should run.
func (s *Store) CountCustomers(ctx context.Context) (int, error) {
	return s.db.NewSelect().Model((*Customer)(nil)).Count(ctx)
}

type seedCustomer struct {
	name, email, phone, status string
}

type seedTicket struct {
	customerID int64
	issue      string
	status     string
	priority   string
}

var seedCustomers = []seedCustomer{
	{"Alice Johnson", "alice.johnson@email.com", "+1-555-0101", "active"},
	{"Bob Martinez", "bob.martinez@company.com", "+1-555-0202", "active"},
	{"Carol White", "carol.white@mail.com", "+1-555-0303", "active"},
	{"David Brown", "david.b@enterprise.com", "+1-555-0404", "active"},
	{"Emma Davis", "emma.davis@startup.io", "+1-555-0505", "active"},
	{"Frank Wilson", "frank.w@inactive.com", "+1-555-0606", "disabled"},
	{"Grace Lee", "grace.lee@premium.com", "+1-555-0707", "active"},
	{"Henry Chen", "henry.chen@tech.com", "+1-555-0808", "active"},
	{"Iris Rodriguez", "iris.r@finance.com", "+1-555-0909", "active"},
	{"Jack Taylor", "jack.taylor@small.biz", "+1-555-1010", "active"},
}

var seedTickets = []seedTicket{
	{1, "Product not working as expected", "open", "high"},
	{1, "Need help with account settings", "in_progress", "medium"},
	{1, "Billing question about last invoice", "resolved", "low"},
	{2, "System integration issues", "open", "high"},
	{2, "API documentation unclear", "resolved", "medium"},
	{3, "Password reset not working", "open", "medium"},
	{4, "Feature request: bulk export", "in_progress", "low"},
	{5, "Onboarding assistance needed", "open", "medium"},
	{7, "Premium support inquiry", "open", "high"},
	{8, "Performance issues with dashboard", "in_progress", "high"},
}

// Seed inserts the demo dataset: ten customers and their tickets.
func (s *Store) Seed(ctx context.Context) error {
	now := time.Now().UTC()

	customers := make([]Customer, 0, len(seedCustomers))
	for _, c := range seedCustomers {
		customers = append(customers, Customer{
			Name:      c.name,
			Email:     c.email,
			Phone:     c.phone,
			Status:    c.status,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if _, err := s.db.NewInsert().Model(&customers).Exec(ctx); err != nil {
		return fmt.Errorf("seed customers: %w", err)
	}

	tickets := make([]Ticket, 0, len(seedTickets))
	for _, t := range seedTickets {
		tickets = append(tickets, Ticket{
			CustomerID: t.customerID,
			Issue:      t.issue,
			Status:     t.status,
			Priority:   t.priority,
			CreatedAt:  now,
		})
	}
	if _, err := s.db.NewInsert().Model(&tickets).Exec(ctx); err != nil {
		return fmt.Errorf("seed tickets: %w", err)
	}

	return nil
}
