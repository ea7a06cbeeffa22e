package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/dshills/orderkit/internal/storage"
	"github.com/dshills/orderkit/pkg/types"
)

// ErrOrderNotFound is returned when no order exists for the requested id.
// It wraps storage.ErrNotFound so callers may test for either.
var ErrOrderNotFound = fmt.Errorf("order %w", storage.ErrNotFound)

// OrderRepository persists order aggregates.
type OrderRepository interface {
	// Create stores a new order header and all of its items atomically.
	Create(ctx context.Context, order *types.Order) error
	// Update replaces the stored items and header of an existing order
	// atomically.
	Update(ctx context.Context, order *types.Order) error
	// Find loads one order with its items in insertion order.
	Find(ctx context.Context, id string) (*types.Order, error)
	// FindAll loads every stored order with its items.
	FindAll(ctx context.Context) ([]*types.Order, error)
}

// Repository implements OrderRepository on top of a storage.Storage.
type Repository struct {
	store storage.Storage
}

var _ OrderRepository = (*Repository)(nil)

// New creates a repository backed by store.
func New(store storage.Storage) *Repository {
	return &Repository{store: store}
}

// Create writes the order header and then its items inside one transaction.
// A failure at any step leaves nothing behind.
func (r *Repository) Create(ctx context.Context, order *types.Order) error {
	if err := validate(order); err != nil {
		return err
	}

	tx, err := r.store.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := tx.InsertOrder(ctx, toOrderRow(order)); err != nil {
		return fmt.Errorf("create order %s: %w", order.ID(), err)
	}
	if err := tx.InsertOrderItems(ctx, toItemRows(order)); err != nil {
		return fmt.Errorf("create order %s: %w", order.ID(), err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Update deletes the stored items, inserts the current ones and rewrites the
// header, all in one transaction. Updating an order that was never created
// returns ErrOrderNotFound and changes nothing.
func (r *Repository) Update(ctx context.Context, order *types.Order) error {
	if err := validate(order); err != nil {
		return err
	}

	tx, err := r.store.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.DeleteOrderItems(ctx, order.ID()); err != nil {
		return fmt.Errorf("update order %s: %w", order.ID(), err)
	}
	if err := tx.InsertOrderItems(ctx, toItemRows(order)); err != nil {
		// items of an unknown order fail the foreign key check; report
		// that as a missing order rather than a constraint error
		if _, getErr := tx.GetOrder(ctx, order.ID()); errors.Is(getErr, storage.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrOrderNotFound, order.ID())
		}
		return fmt.Errorf("update order %s: %w", order.ID(), err)
	}
	if err := tx.UpdateOrder(ctx, toOrderRow(order)); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrOrderNotFound, order.ID())
		}
		return fmt.Errorf("update order %s: %w", order.ID(), err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Find loads the header and items of one order from a single snapshot.
func (r *Repository) Find(ctx context.Context, id string) (*types.Order, error) {
	tx, err := r.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row, err := tx.GetOrder(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("find order %s: %w", id, err)
	}

	itemRows, err := tx.ListOrderItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find order %s: %w", id, err)
	}

	return toOrder(row, itemRows)
}

// FindAll loads every order. Items are read with one query and grouped by
// order rather than queried per order.
func (r *Repository) FindAll(ctx context.Context) ([]*types.Order, error) {
	tx, err := r.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("find all orders: %w", err)
	}
	itemsByOrder, err := tx.ListAllOrderItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("find all orders: %w", err)
	}

	orders := make([]*types.Order, 0, len(rows))
	for _, row := range rows {
		order, err := toOrder(row, itemsByOrder[row.ID])
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// validate rejects nil orders and orders that break an invariant, which can
// only be built as zero values outside NewOrder.
func validate(order *types.Order) error {
	if order == nil {
		return fmt.Errorf("%w: nil order", types.ErrInvalidOrder)
	}
	return order.Validate()
}
