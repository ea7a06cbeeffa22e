package repository

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dshills/orderkit/pkg/types"
)

// Cached is an OrderRepository that keeps recently used orders in an LRU
// cache in front of another repository. Entries are private clones, so
// callers never share an aggregate with the cache or with each other.
//
// Create and Update refresh the entry after the wrapped repository
// succeeds; a failed Update evicts it. FindAll always reads through.
//
// Every write bumps a generation counter. A Find that missed the cache only
// stores what it loaded if no write happened while it was loading, so a
// slow read can never replace the entry of a newer write.
type Cached struct {
	next   OrderRepository
	orders *lru.Cache[string, *types.Order]

	mu         sync.Mutex
	generation uint64
}

var _ OrderRepository = (*Cached)(nil)

// NewCached wraps next with an LRU cache holding up to size orders.
func NewCached(next OrderRepository, size int) (*Cached, error) {
	orders, err := lru.New[string, *types.Order](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create order cache: %w", err)
	}
	return &Cached{next: next, orders: orders}, nil
}

// Create implements OrderRepository
func (c *Cached) Create(ctx context.Context, order *types.Order) error {
	if err := c.next.Create(ctx, order); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.orders.Add(order.ID(), order.Clone())
	return nil
}

// Update implements OrderRepository
func (c *Cached) Update(ctx context.Context, order *types.Order) error {
	err := c.next.Update(ctx, order)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	if err != nil {
		if order != nil {
			c.orders.Remove(order.ID())
		}
		return err
	}
	c.orders.Add(order.ID(), order.Clone())
	return nil
}

// Find implements OrderRepository
func (c *Cached) Find(ctx context.Context, id string) (*types.Order, error) {
	if order, ok := c.orders.Get(id); ok {
		return order.Clone(), nil
	}

	c.mu.Lock()
	generation := c.generation
	c.mu.Unlock()

	order, err := c.next.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.generation == generation {
		c.orders.Add(id, order.Clone())
	}
	c.mu.Unlock()
	return order, nil
}

// FindAll implements OrderRepository
func (c *Cached) FindAll(ctx context.Context) ([]*types.Order, error) {
	return c.next.FindAll(ctx)
}

// Len returns the number of cached orders.
func (c *Cached) Len() int {
	return c.orders.Len()
}

// Purge drops every cached order.
func (c *Cached) Purge() {
	c.orders.Purge()
}
