package types

import (
	"errors"
	"fmt"
)

// ErrInvalidOrder is wrapped by every aggregate validation error so callers can
// test for any validation failure with errors.Is.
var ErrInvalidOrder = errors.New("invalid order")

// Domain errors for order validation
var (
	// Order invariants, checked in this order
	ErrIDRequired         = fmt.Errorf("%w: id is required", ErrInvalidOrder)
	ErrCustomerIDRequired = fmt.Errorf("%w: customer id is required", ErrInvalidOrder)
	ErrItemsRequired      = fmt.Errorf("%w: items are required", ErrInvalidOrder)
	ErrInvalidQuantity    = fmt.Errorf("%w: quantity must be greater than 0", ErrInvalidOrder)
	ErrDuplicateItemID    = fmt.Errorf("%w: item ids must be unique within an order", ErrInvalidOrder)

	// Order item construction
	ErrItemIDRequired    = fmt.Errorf("%w: item id is required", ErrInvalidOrder)
	ErrProductIDRequired = fmt.Errorf("%w: product id is required", ErrInvalidOrder)
	ErrNegativePrice     = fmt.Errorf("%w: price must be greater than or equal to 0", ErrInvalidOrder)
)
