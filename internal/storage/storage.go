package storage

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Storage defines the row-level operations on the order tables. It is the
// transactional handle handed to the order repository; BeginTx returns a Tx
// that performs the same operations inside one transaction.
type Storage interface {
	// Reference data owned by the customer and product services. Rows exist
	// here only so order rows can point at them.
	UpsertCustomer(ctx context.Context, customer *Customer) error
	UpsertProduct(ctx context.Context, product *Product) error

	// Order header operations
	InsertOrder(ctx context.Context, order *Order) error
	UpdateOrder(ctx context.Context, order *Order) error
	GetOrder(ctx context.Context, orderID string) (*Order, error)
	ListOrders(ctx context.Context) ([]*Order, error)
	CountOrders(ctx context.Context) (int, error)

	// Order item operations
	InsertOrderItems(ctx context.Context, items []*OrderItem) error
	DeleteOrderItems(ctx context.Context, orderID string) (deletedCount int, err error)
	ListOrderItems(ctx context.Context, orderID string) ([]*OrderItem, error)
	ListAllOrderItems(ctx context.Context) (map[string][]*OrderItem, error)
	CountOrderItems(ctx context.Context, orderID string) (int, error)

	// Database operations
	Close() error
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx represents a database transaction
type Tx interface {
	Commit() error
	Rollback() error
	Storage // Embed Storage interface for transaction operations
}

// Customer is the stored reference to a customer
type Customer struct {
	ID      string
	Name    string
	Address string
}

// Product is the stored reference to a product
type Product struct {
	ID    string
	Name  string
	Price decimal.Decimal
}

// Order is one row of the orders header table
type Order struct {
	ID         string
	CustomerID string
	Total      decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OrderItem is one row of the order_items child table
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Name      string
	Price     decimal.Decimal
	Quantity  int
	Position  int // index within the order, preserves item order on load
}
