package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Order is the aggregate root for a customer order and its line items.
//
// An Order is never observably invalid: NewOrder refuses to build one that
// breaks an invariant, and a mutation that would break one is rolled back
// before the error is returned.
type Order struct {
	id         string
	customerID string
	items      []OrderItem
}

// NewOrder builds and validates an order. The items slice is copied.
func NewOrder(id, customerID string, items []OrderItem) (*Order, error) {
	o := &Order{
		id:         id,
		customerID: customerID,
		items:      cloneItems(items),
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// Validate checks the aggregate invariants and returns the first violation:
// id, customer id, non-empty items, positive quantities, then unique item ids.
func (o *Order) Validate() error {
	if o.id == "" {
		return ErrIDRequired
	}
	if o.customerID == "" {
		return ErrCustomerIDRequired
	}
	if len(o.items) == 0 {
		return ErrItemsRequired
	}
	for _, item := range o.items {
		if item.quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	seen := make(map[string]struct{}, len(o.items))
	for _, item := range o.items {
		if _, dup := seen[item.id]; dup {
			return fmt.Errorf("item %s: %w", item.id, ErrDuplicateItemID)
		}
		seen[item.id] = struct{}{}
	}
	return nil
}

// ID returns the order id.
func (o *Order) ID() string { return o.id }

// CustomerID returns the id of the customer the order belongs to.
func (o *Order) CustomerID() string { return o.customerID }

// ItemCount returns the number of order lines.
func (o *Order) ItemCount() int { return len(o.items) }

// Items returns a copy of the order lines in order.
func (o *Order) Items() []OrderItem {
	return cloneItems(o.items)
}

// Total sums price × quantity over all items. It is computed on every call.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.items {
		total = total.Add(item.Total())
	}
	return total
}

// ChangeCustomer reassigns the order to another customer.
func (o *Order) ChangeCustomer(customerID string) error {
	prev := o.customerID
	o.customerID = customerID
	if err := o.Validate(); err != nil {
		o.customerID = prev
		return err
	}
	return nil
}

// ChangeItems replaces the whole item collection.
func (o *Order) ChangeItems(items []OrderItem) error {
	prev := o.items
	o.items = cloneItems(items)
	if err := o.Validate(); err != nil {
		o.items = prev
		return err
	}
	return nil
}

// Clone returns an independent copy of the aggregate.
func (o *Order) Clone() *Order {
	return &Order{
		id:         o.id,
		customerID: o.customerID,
		items:      cloneItems(o.items),
	}
}

// Equal reports whether two orders have the same id, customer and items in
// the same order.
func (o *Order) Equal(other *Order) bool {
	if o == nil || other == nil {
		return o == other
	}
	if o.id != other.id || o.customerID != other.customerID || len(o.items) != len(other.items) {
		return false
	}
	for i := range o.items {
		if !o.items[i].Equal(other.items[i]) {
			return false
		}
	}
	return true
}

func cloneItems(items []OrderItem) []OrderItem {
	if items == nil {
		return nil
	}
	out := make([]OrderItem, len(items))
	copy(out, items)
	return out
}
