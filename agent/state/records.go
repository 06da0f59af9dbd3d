package state

import "time"

// Customer mirrors one row of the customers table as it crosses the tool
// gateway boundary.
type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Ticket struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customer_id"`
	Issue      string    `json:"issue"`
	Status     string    `json:"status"`
	Priority   string    `json:"priority"`
	CreatedAt  time.Time `json:"created_at"`
}

// CustomerHistory is the get_customer_history payload: the profile plus all
// tickets in reverse creation order, with the aggregate counters the support
// flow reads.
type CustomerHistory struct {
	Customer            *Customer `json:"customer"`
	Tickets             []Ticket  `json:"tickets"`
	TicketCount         int       `json:"ticket_count"`
	OpenTickets         int       `json:"open_tickets"`
	HighPriorityTickets int       `json:"high_priority_tickets"`
}

// Recount refreshes the aggregate counters from the ticket slice.
func (h *CustomerHistory) Recount() {
	h.TicketCount = len(h.Tickets)
	h.OpenTickets = 0
	h.HighPriorityTickets = 0
	for _, t := range h.Tickets {
		if t.Status == "open" {
			h.OpenTickets++
		}
		if t.Priority == "high" {
			h.HighPriorityTickets++
		}
	}
}
