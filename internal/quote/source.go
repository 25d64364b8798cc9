// Package quote defines the market-data contract the simulator consumes
// and its Yahoo Finance implementation.
package quote

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"papertrader/internal/domain"
)

// Source supplies market data for a symbol. Implementations distinguish
// two failure kinds: domain.ErrNoData when the provider answered but had
// nothing for the symbol/range, and domain.ErrProviderFailure when the
// provider could not be reached or errored. CurrentPrice additionally
// reports domain.ErrPriceUnavailable when no positive price exists.
type Source interface {
	// CurrentPrice returns the latest market price for the symbol.
	CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error)

	// History returns the daily close series for [start, end], strictly
	// ascending by date. An empty range yields domain.ErrNoData.
	History(ctx context.Context, symbol string, start, end time.Time) (domain.PriceSeries, error)

	// Profile returns company fundamentals, with sentinel values for
	// fields the provider does not supply.
	Profile(ctx context.Context, symbol string) (domain.Profile, error)
}
