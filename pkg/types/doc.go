// Package types provides the order domain model shared by orderkit components.
//
// # Aggregate
//
// Order is the aggregate root. It owns an ordered, non-empty collection of
// OrderItem values and is the only validation gate before persistence:
//
//	item, err := types.NewOrderItem("1", "p-1", "Product 1", decimal.NewFromInt(10), 2)
//	if err != nil {
//	    return err
//	}
//	order, err := types.NewOrder("123", "c-1", []types.OrderItem{item})
//	if err != nil {
//	    return err // errors.Is(err, types.ErrInvalidOrder)
//	}
//	order.Total() // 20
//
// # Invariants
//
// Checked on construction and after every mutation, first failure wins:
//
//  1. id is non-empty (ErrIDRequired)
//  2. customer id is non-empty (ErrCustomerIDRequired)
//  3. at least one item (ErrItemsRequired)
//  4. every item quantity > 0 (ErrInvalidQuantity)
//  5. item ids are unique within the order (ErrDuplicateItemID)
//
// ChangeCustomer and ChangeItems restore the previous state when validation
// fails, so a caller that ignores the returned error still holds a valid
// order.
//
// # Items
//
// OrderItem is immutable. ChangeItems replaces the whole collection; there is
// no per-item patching. Items() hands out a copy.
//
// Prices are decimal.Decimal values; totals are recomputed from the items on
// every call and never cached.
package types
