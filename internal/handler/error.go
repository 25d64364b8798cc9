package handler

import (
	"errors"
	"net/http"

	"papertrader/internal/domain"
)

// mapDomainError maps domain errors to HTTP responses. Validation failures
// are 400, missing data 404, business rejections 409, and quote-provider
// failures 500; anything unclassified is a generic 500.
func mapDomainError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrNoData):
		WriteError(w, http.StatusNotFound, "no_data", "No data found for this symbol")
	case errors.Is(err, domain.ErrSymbolNotFound):
		WriteError(w, http.StatusNotFound, "symbol_not_found", err.Error())
	case errors.Is(err, domain.ErrInsufficientFunds):
		WriteError(w, http.StatusConflict, "insufficient_funds", "Insufficient funds")
	case errors.Is(err, domain.ErrInsufficientShares):
		WriteError(w, http.StatusConflict, "insufficient_shares", "Not enough shares to sell")
	case errors.Is(err, domain.ErrNoPosition):
		WriteError(w, http.StatusConflict, "no_position", "No shares to sell")
	case errors.Is(err, domain.ErrPriceUnavailable):
		WriteError(w, http.StatusInternalServerError, "price_unavailable", "Unable to get current price")
	case errors.Is(err, domain.ErrProviderFailure):
		WriteError(w, http.StatusInternalServerError, "provider_failure", "Market data provider failed")
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
