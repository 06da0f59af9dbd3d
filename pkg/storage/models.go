package storage

import (
	"time"

	"github.com/uptrace/bun"

	statex "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/state"
)

type Customer struct {
	bun.BaseModel `bun:"table:customers,alias:c"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Name      string    `bun:"name,notnull"`
	Email     string    `bun:"email"`
	Phone     string    `bun:"phone"`
	Status    string    `bun:"status,notnull,default:'active'"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

type Ticket struct {
	bun.BaseModel `bun:"table:tickets,alias:t"`

	ID         int64     `bun:"id,pk,autoincrement"`
	CustomerID int64     `bun:"customer_id,notnull"`
	Issue      string    `bun:"issue,notnull"`
	Status     string    `bun:"status,notnull,default:'open'"`
	Priority   string    `bun:"priority,notnull,default:'medium'"`
	CreatedAt  time.Time `bun:"created_at,notnull"`
}

func (c *Customer) ToState() *statex.Customer {
	if c == nil {
		return nil
	}
	return &statex.Customer{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (t *Ticket) ToState() *statex.Ticket {
	if t == nil {
		return nil
	}
	return &statex.Ticket{
		ID:         t.ID,
		CustomerID: t.CustomerID,
		Issue:      t.Issue,
		Status:     t.Status,
		Priority:   t.Priority,
		CreatedAt:  t.CreatedAt,
	}
}

func customersToState(rows []Customer) []statex.Customer {
	out := make([]statex.Customer, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToState())
	}
	return out
}

func ticketsToState(rows []Ticket) []statex.Ticket {
	out := make([]statex.Ticket, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToState())
	}
	return out
}
