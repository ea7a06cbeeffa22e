package storage

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Monetary columns are TEXT holding the decimal string form, so values round
// trip without float rounding.
func parseDecimal(s string, dst *decimal.Decimal) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	*dst = d
	return nil
}
