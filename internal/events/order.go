package events

import (
	"github.com/shopspring/decimal"

	"github.com/dshills/orderkit/pkg/types"
)

// Event type names for order events
const (
	OrderPlacedType          = "OrderPlacedEvent"
	OrderCustomerChangedType = "OrderCustomerChangedEvent"
	OrderItemsReplacedType   = "OrderItemsReplacedEvent"
)

// OrderData is a snapshot of an order taken when the event was raised.
type OrderData struct {
	OrderID    string
	CustomerID string
	ItemCount  int
	Total      decimal.Decimal
}

// OrderSnapshot captures the event payload for an order.
func OrderSnapshot(order *types.Order) OrderData {
	return OrderData{
		OrderID:    order.ID(),
		CustomerID: order.CustomerID(),
		ItemCount:  order.ItemCount(),
		Total:      order.Total(),
	}
}

// OrderPlaced is published after a new order is stored.
type OrderPlaced struct {
	Metadata
	Data OrderData
}

// NewOrderPlaced stamps a new OrderPlaced event.
func NewOrderPlaced(order *types.Order) *OrderPlaced {
	return &OrderPlaced{Metadata: newMetadata(), Data: OrderSnapshot(order)}
}

func (e *OrderPlaced) EventType() string { return OrderPlacedType }
func (e *OrderPlaced) EventData() any    { return e.Data }

// OrderCustomerChanged is published after an order is reassigned and stored.
type OrderCustomerChanged struct {
	Metadata
	PreviousCustomerID string
	Data               OrderData
}

// NewOrderCustomerChanged stamps a new OrderCustomerChanged event.
func NewOrderCustomerChanged(previousCustomerID string, order *types.Order) *OrderCustomerChanged {
	return &OrderCustomerChanged{
		Metadata:           newMetadata(),
		PreviousCustomerID: previousCustomerID,
		Data:               OrderSnapshot(order),
	}
}

func (e *OrderCustomerChanged) EventType() string { return OrderCustomerChangedType }
func (e *OrderCustomerChanged) EventData() any    { return e.Data }

// OrderItemsReplaced is published after an order's items are replaced and stored.
type OrderItemsReplaced struct {
	Metadata
	PreviousTotal decimal.Decimal
	Data          OrderData
}

// NewOrderItemsReplaced stamps a new OrderItemsReplaced event.
func NewOrderItemsReplaced(previousTotal decimal.Decimal, order *types.Order) *OrderItemsReplaced {
	return &OrderItemsReplaced{
		Metadata:      newMetadata(),
		PreviousTotal: previousTotal,
		Data:          OrderSnapshot(order),
	}
}

func (e *OrderItemsReplaced) EventType() string { return OrderItemsReplacedType }
func (e *OrderItemsReplaced) EventData() any    { return e.Data }
