package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrNoData             = errors.New("no_data")
	ErrProviderFailure    = errors.New("provider_failure")
	ErrPriceUnavailable   = errors.New("price_unavailable")
	ErrInsufficientFunds  = errors.New("insufficient_funds")
	ErrInsufficientShares = errors.New("insufficient_shares")
	ErrNoPosition         = errors.New("no_position")
	ErrSymbolNotFound     = errors.New("symbol_not_found")
)

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
