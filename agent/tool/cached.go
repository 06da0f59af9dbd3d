package tool

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	contractx "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/contract"
	statex "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/state"
	cachex "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/pkg/cache"
	logx "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/pkg/logger"
)

// CachedGateway decorates a ToolGateway with a read-through record cache on
// the idempotent get_customer path. Updates invalidate; every other
// operation passes through. Cache failures degrade to the backing store.
type CachedGateway struct {
	contractx.ToolGateway

	cache *cachex.Client
	log   zerolog.Logger
}

func NewCachedGateway(inner contractx.ToolGateway, cache *cachex.Client) (*CachedGateway, error) {
	if inner == nil {
		return nil, errors.New("inner gateway is required")
	}
	if cache == nil {
		return nil, errors.New("cache client is required")
	}
	return &CachedGateway{
		ToolGateway: inner,
		cache:       cache,
		log:         logx.Component("record_cache"),
	}, nil
}

func (c *CachedGateway) GetCustomer(ctx context.Context, id int64) (*statex.Customer, error) {
	cached, err := c.cache.GetCustomer(ctx, id)
	if err == nil {
		c.log.Debug().Int64("customer_id", id).Msg("cache hit")
		return cached, nil
	}
	if !errors.Is(err, cachex.ErrCacheMiss) {
		c.log.Warn().Err(err).Int64("customer_id", id).Msg("cache read failed")
	}

	customer, err := c.ToolGateway.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	if setErr := c.cache.SetCustomer(ctx, customer); setErr != nil {
		c.log.Warn().Err(setErr).Int64("customer_id", id).Msg("cache write failed")
	}
	return customer, nil
}

func (c *CachedGateway) UpdateCustomer(ctx context.Context, id int64, fields map[string]string) (*statex.Customer, error) {
	customer, err := c.ToolGateway.UpdateCustomer(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if invErr := c.cache.Invalidate(ctx, id); invErr != nil {
		c.log.Warn().Err(invErr).Int64("customer_id", id).Msg("cache invalidation failed")
	}
	return customer, nil
}
