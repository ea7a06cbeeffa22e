package ordering

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dshills/orderkit/internal/events"
	"github.com/dshills/orderkit/internal/repository"
	"github.com/dshills/orderkit/pkg/types"
)

// ErrNotifyFailed is returned when the change was stored but at least one
// event handler failed. The handler errors are joined behind it.
var ErrNotifyFailed = errors.New("order stored but event handlers failed")

// Publisher delivers events to interested handlers. *events.Dispatcher
// implements it.
type Publisher interface {
	Notify(ctx context.Context, event events.Event) error
}

// Service applies order changes. Every change is persisted through the
// repository first; events are published only after the write committed.
type Service struct {
	repo      repository.OrderRepository
	publisher Publisher
	logger    *slog.Logger
}

// Option configures a Service
type Option func(*Service)

// WithLogger sets the service logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Service
func New(repo repository.OrderRepository, publisher Publisher, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		publisher: publisher,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceOrder stores a new order and publishes OrderPlaced.
func (s *Service) PlaceOrder(ctx context.Context, order *types.Order) error {
	if err := s.repo.Create(ctx, order); err != nil {
		return fmt.Errorf("failed to place order: %w", err)
	}
	s.logger.DebugContext(ctx, "order placed", "order_id", order.ID())
	return s.publish(ctx, events.NewOrderPlaced(order))
}

// ChangeCustomer reassigns a stored order and publishes OrderCustomerChanged.
// A rejected customer id leaves the stored order untouched.
func (s *Service) ChangeCustomer(ctx context.Context, orderID, customerID string) (*types.Order, error) {
	order, err := s.repo.Find(ctx, orderID)
	if err != nil {
		return nil, err
	}

	previous := order.CustomerID()
	if err := order.ChangeCustomer(customerID); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to change customer: %w", err)
	}
	s.logger.DebugContext(ctx, "order customer changed",
		"order_id", orderID, "from", previous, "to", customerID)

	return order, s.publish(ctx, events.NewOrderCustomerChanged(previous, order))
}

// ReplaceItems swaps the whole item set of a stored order and publishes
// OrderItemsReplaced.
func (s *Service) ReplaceItems(ctx context.Context, orderID string, items []types.OrderItem) (*types.Order, error) {
	order, err := s.repo.Find(ctx, orderID)
	if err != nil {
		return nil, err
	}

	previousTotal := order.Total()
	if err := order.ChangeItems(items); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to replace items: %w", err)
	}
	s.logger.DebugContext(ctx, "order items replaced",
		"order_id", orderID, "items", order.ItemCount(), "total", order.Total().String())

	return order, s.publish(ctx, events.NewOrderItemsReplaced(previousTotal, order))
}

// Order loads one order.
func (s *Service) Order(ctx context.Context, orderID string) (*types.Order, error) {
	return s.repo.Find(ctx, orderID)
}

// Orders loads every order.
func (s *Service) Orders(ctx context.Context) ([]*types.Order, error) {
	return s.repo.FindAll(ctx)
}

func (s *Service) publish(ctx context.Context, event events.Event) error {
	if s.publisher == nil {
		return nil
	}
	if err := s.publisher.Notify(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "event handlers failed",
			"event_type", event.EventType(), "error", err)
		return fmt.Errorf("%w: %w", ErrNotifyFailed, err)
	}
	return nil
}
