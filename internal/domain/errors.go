package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrStockNotFound     = errors.New("stock_not_found")
	ErrInsufficientFunds = errors.New("insufficient_funds")
	ErrNoShortSelling    = errors.New("no_short_selling")
	ErrInvalidQuantity   = errors.New("invalid_quantity")
	ErrNoSelection       = errors.New("no_selection")
)

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
