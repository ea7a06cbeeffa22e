package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// OrderItem is one priced line of an order. It is a value: once constructed
// it never changes, and an order replaces its items wholesale instead of
// patching them.
//
// Quantity is deliberately not checked here; the owning Order enforces it.
type OrderItem struct {
	id        string
	productID string
	name      string
	price     decimal.Decimal
	quantity  int
}

// NewOrderItem creates an order line for the given product snapshot.
func NewOrderItem(id, productID, name string, price decimal.Decimal, quantity int) (OrderItem, error) {
	if id == "" {
		return OrderItem{}, ErrItemIDRequired
	}
	if productID == "" {
		return OrderItem{}, fmt.Errorf("item %s: %w", id, ErrProductIDRequired)
	}
	if price.IsNegative() {
		return OrderItem{}, fmt.Errorf("item %s: %w", id, ErrNegativePrice)
	}

	return OrderItem{
		id:        id,
		productID: productID,
		name:      name,
		price:     price,
		quantity:  quantity,
	}, nil
}

// ID returns the item id, unique within its order.
func (i OrderItem) ID() string { return i.id }

// ProductID returns the id of the ordered product.
func (i OrderItem) ProductID() string { return i.productID }

// Name returns the product name captured when the item was created.
func (i OrderItem) Name() string { return i.name }

// Price returns the unit price.
func (i OrderItem) Price() decimal.Decimal { return i.price }

// Quantity returns the number of units.
func (i OrderItem) Quantity() int { return i.quantity }

// Total returns price × quantity.
func (i OrderItem) Total() decimal.Decimal {
	return i.price.Mul(decimal.NewFromInt(int64(i.quantity)))
}

// Equal reports whether both items carry the same values. Prices are compared
// numerically, so 10 and 10.00 are equal.
func (i OrderItem) Equal(other OrderItem) bool {
	return i.id == other.id &&
		i.productID == other.productID &&
		i.name == other.name &&
		i.price.Equal(other.price) &&
		i.quantity == other.quantity
}

// String implements fmt.Stringer
func (i OrderItem) String() string {
	return fmt.Sprintf("%s(%s x%d @ %s)", i.id, i.productID, i.quantity, i.price.String())
}
