package cart

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrVariantNotFound = errors.New("variant not found")
	ErrItemNotFound    = errors.New("cart item not found")
	ErrMissingCart     = errors.New("missing cart id")
	ErrMixedCurrency   = errors.New("cart contains multiple currencies")
)

type OutOfStockError struct {
	VariantID string
	Requested int
	Available int
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("out of stock: variant=%s requested=%d available=%d", e.VariantID, e.Requested, e.Available)
}
