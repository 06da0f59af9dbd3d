package tool

import (
	"context"
	"time"

	contractx "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/contract"
	statex "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/state"
)

// TimeoutGateway bounds every tool call with a deadline. An expired deadline
// surfaces as the context error, which callers treat as a tool failure.
type TimeoutGateway struct {
	inner   contractx.ToolGateway
	timeout time.Duration
}

// WithTimeout wraps gw so each operation runs under its own deadline. A
// non-positive timeout returns gw unchanged.
func WithTimeout(gw contractx.ToolGateway, timeout time.Duration) contractx.ToolGateway {
	if timeout <= 0 {
		return gw
	}
	return &TimeoutGateway{inner: gw, timeout: timeout}
}

func (g *TimeoutGateway) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, g.timeout)
}

func (g *TimeoutGateway) GetCustomer(ctx context.Context, id int64) (*statex.Customer, error) {
	ctx, cancel := g.bound(ctx)
	defer cancel()
	return g.inner.GetCustomer(ctx, id)
}

func (g *TimeoutGateway) ListCustomers(ctx context.Context, filter contractx.ListFilter) ([]statex.Customer, error) {
	ctx, cancel := g.bound(ctx)
	defer cancel()
	return g.inner.ListCustomers(ctx, filter)
}

func (g *TimeoutGateway) UpdateCustomer(ctx context.Context, id int64, fields map[string]string) (*statex.Customer, error) {
	ctx, cancel := g.bound(ctx)
	defer cancel()
	return g.inner.UpdateCustomer(ctx, id, fields)
}

func (g *TimeoutGateway) CreateTicket(ctx context.Context, spec contractx.TicketSpec) (*statex.Ticket, error) {
	ctx, cancel := g.bound(ctx)
	defer cancel()
	return g.inner.CreateTicket(ctx, spec)
}

func (g *TimeoutGateway) GetCustomerHistory(ctx context.Context, id int64) (*statex.CustomerHistory, error) {
	ctx, cancel := g.bound(ctx)
	defer cancel()
	return g.inner.GetCustomerHistory(ctx, id)
}
