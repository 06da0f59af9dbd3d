package storage

import (
	"context"
	"errors"
	"testing"
)

func newSeededStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewSQLite(SQLiteConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("NewSQLite() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	if err := store.CreateSchema(ctx); err != nil {
		t.Fatalf("CreateSchema() error = %v", err)
	}
	if err := store.Seed(ctx); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	return store
}

func TestSchemaAndSeed(t *testing.T) {
	t.Parallel()

	store := newSeededStore(t)
	ctx := context.Background()

	n, err := store.CountCustomers(ctx)
	if err != nil {
		t.Fatalf("CountCustomers() error = %v", err)
	}
	if n != 10 {
		t.Fatalf("seeded %d customers, want 10", n)
	}

	emma, err := store.GetCustomer(ctx, 5)
	if err != nil {
		t.Fatalf("GetCustomer(5) error = %v", err)
	}
	if emma.Name != "Emma Davis" {
		t.Fatalf("customer 5 = %q, want Emma Davis", emma.Name)
	}

	// CreateSchema is idempotent
	if err := store.CreateSchema(ctx); err != nil {
		t.Fatalf("second CreateSchema() error = %v", err)
	}
}

func TestListCustomersDefaultLimitAndOrder(t *testing.T) {
	t.Parallel()

	store := newSeededStore(t)
	ctx := context.Background()

	customers, err := store.ListCustomers(ctx, "", 0)
	if err != nil {
		t.Fatalf("ListCustomers() error = %v", err)
	}
	if len(customers) != DefaultListLimit {
		t.Fatalf("default limit gave %d rows, want %d", len(customers), DefaultListLimit)
	}
	for i := 1; i < len(customers); i++ {
		if customers[i].ID <= customers[i-1].ID {
			t.Fatalf("not ordered by id: %d after %d", customers[i].ID, customers[i-1].ID)
		}
	}

	disabled, err := store.ListCustomers(ctx, "disabled", 0)
	if err != nil {
		t.Fatalf("ListCustomers(disabled) error = %v", err)
	}
	if len(disabled) != 1 || disabled[0].Name != "Frank Wilson" {
		t.Fatalf("disabled filter wrong: %+v", disabled)
	}
}

func TestUpdateCustomerBumpsUpdatedAt(t *testing.T) {
	t.Parallel()

	store := newSeededStore(t)
	ctx := context.Background()

	before, err := store.GetCustomer(ctx, 2)
	if err != nil {
		t.Fatalf("GetCustomer() error = %v", err)
	}

	updated, err := store.UpdateCustomer(ctx, 2, map[string]string{"phone": "+1-555-9999"})
	if err != nil {
		t.Fatalf("UpdateCustomer() error = %v", err)
	}
	if updated.Phone != "+1-555-9999" {
		t.Fatalf("phone = %q", updated.Phone)
	}
	if updated.UpdatedAt.Before(before.UpdatedAt) {
		t.Fatalf("updated_at went backwards: %v -> %v", before.UpdatedAt, updated.UpdatedAt)
	}

	_, err = store.UpdateCustomer(ctx, 9999, map[string]string{"phone": "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetCustomerHistoryOrdering(t *testing.T) {
	t.Parallel()

	store := newSeededStore(t)
	ctx := context.Background()

	history, err := store.GetCustomerHistory(ctx, 1)
	if err != nil {
		t.Fatalf("GetCustomerHistory() error = %v", err)
	}
	if history.TicketCount != 3 {
		t.Fatalf("customer 1 has %d tickets, want 3", history.TicketCount)
	}
	if history.OpenTickets != 1 || history.HighPriorityTickets != 1 {
		t.Fatalf("aggregates open=%d high=%d, want 1/1", history.OpenTickets, history.HighPriorityTickets)
	}
	for i := 1; i < len(history.Tickets); i++ {
		a, b := history.Tickets[i-1], history.Tickets[i]
		if a.CreatedAt.Before(b.CreatedAt) {
			t.Fatalf("tickets not in reverse creation order at %d", i)
		}
	}
}

func TestTicketsByCriteria(t *testing.T) {
	t.Parallel()

	store := newSeededStore(t)
	ctx := context.Background()

	openHigh, err := store.TicketsByCriteria(ctx, "open", "high", nil)
	if err != nil {
		t.Fatalf("TicketsByCriteria() error = %v", err)
	}
	if len(openHigh) != 3 {
		t.Fatalf("open+high tickets = %d, want 3", len(openHigh))
	}
	for _, tk := range openHigh {
		if tk.Status != "open" || tk.Priority != "high" {
			t.Fatalf("criteria leaked: %+v", tk)
		}
	}

	forOne, err := store.TicketsByCriteria(ctx, "", "", []int64{1})
	if err != nil {
		t.Fatalf("TicketsByCriteria(customer 1) error = %v", err)
	}
	if len(forOne) != 3 {
		t.Fatalf("customer 1 tickets = %d, want 3", len(forOne))
	}
}

func TestStats(t *testing.T) {
	t.Parallel()

	store := newSeededStore(t)

	stats, err := store.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.ActiveCustomers != 9 || stats.DisabledCustomers != 1 {
		t.Fatalf("customer counts %d/%d, want 9/1", stats.ActiveCustomers, stats.DisabledCustomers)
	}
	if stats.OpenTickets != 5 || stats.InProgressTickets != 3 {
		t.Fatalf("ticket counts open=%d in_progress=%d, want 5/3", stats.OpenTickets, stats.InProgressTickets)
	}
	if stats.HighPriorityTickets != 4 {
		t.Fatalf("high priority = %d, want 4", stats.HighPriorityTickets)
	}
}
