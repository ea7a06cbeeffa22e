package events

import "github.com/shopspring/decimal"

// ProductCreatedType is the event type name for ProductCreated.
const ProductCreatedType = "ProductCreatedEvent"

// ProductData is the payload of ProductCreated.
type ProductData struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
}

// ProductCreated is published after a product record is created.
type ProductCreated struct {
	Metadata
	Data ProductData
}

// NewProductCreated stamps a new ProductCreated event.
func NewProductCreated(data ProductData) *ProductCreated {
	return &ProductCreated{Metadata: newMetadata(), Data: data}
}

func (e *ProductCreated) EventType() string { return ProductCreatedType }
func (e *ProductCreated) EventData() any    { return e.Data }
