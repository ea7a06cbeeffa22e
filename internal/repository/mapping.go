package repository

import (
	"fmt"

	"github.com/dshills/orderkit/internal/storage"
	"github.com/dshills/orderkit/pkg/types"
)

func toOrderRow(order *types.Order) *storage.Order {
	return &storage.Order{
		ID:         order.ID(),
		CustomerID: order.CustomerID(),
		Total:      order.Total(),
	}
}

func toItemRows(order *types.Order) []*storage.OrderItem {
	items := order.Items()
	rows := make([]*storage.OrderItem, len(items))
	for i, item := range items {
		rows[i] = &storage.OrderItem{
			ID:        item.ID(),
			OrderID:   order.ID(),
			ProductID: item.ProductID(),
			Name:      item.Name(),
			Price:     item.Price(),
			Quantity:  item.Quantity(),
			Position:  i,
		}
	}
	return rows
}

// toOrder rebuilds the aggregate from stored rows. Rows that no longer
// satisfy the aggregate invariants are reported rather than loaded.
func toOrder(row *storage.Order, itemRows []*storage.OrderItem) (*types.Order, error) {
	items := make([]types.OrderItem, 0, len(itemRows))
	for _, r := range itemRows {
		item, err := types.NewOrderItem(r.ID, r.ProductID, r.Name, r.Price, r.Quantity)
		if err != nil {
			return nil, fmt.Errorf("stored order %s item %s: %w", row.ID, r.ID, err)
		}
		items = append(items, item)
	}

	order, err := types.NewOrder(row.ID, row.CustomerID, items)
	if err != nil {
		return nil, fmt.Errorf("stored order %s: %w", row.ID, err)
	}
	return order, nil
}
