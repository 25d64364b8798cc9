package quote

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"
	finquote "github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"

	"papertrader/internal/domain"
)

// YahooSource implements Source against Yahoo Finance via finance-go.
type YahooSource struct {
	timeout time.Duration
}

// NewYahooSource creates a YahooSource. timeout bounds each provider call.
func NewYahooSource(timeout time.Duration) *YahooSource {
	return &YahooSource{timeout: timeout}
}

// CurrentPrice returns the regular market price for the symbol.
func (s *YahooSource) CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	price, err := call(ctx, s.timeout, func() (float64, error) {
		fq, err := finquote.Get(symbol)
		if err != nil {
			return 0, err
		}
		return fq.RegularMarketPrice, nil
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: quote %s: %v", domain.ErrProviderFailure, symbol, err)
	}

	if price <= 0 {
		return decimal.Zero, fmt.Errorf("%w: no positive price for %s", domain.ErrPriceUnavailable, symbol)
	}
	return decimal.NewFromFloat(price), nil
}

// History fetches daily bars for [start, end] and assembles them into a
// strictly ascending PriceSeries.
func (s *YahooSource) History(ctx context.Context, symbol string, start, end time.Time) (domain.PriceSeries, error) {
	candles, err := call(ctx, s.timeout, func() ([]domain.Candle, error) {
		params := &chart.Params{
			Symbol:   symbol,
			Start:    datetime.New(&start),
			End:      datetime.New(&end),
			Interval: datetime.OneDay,
		}

		iter := chart.Get(params)
		var bars []domain.Candle
		for iter.Next() {
			bar := iter.Bar()
			bars = append(bars, domain.Candle{
				Date:  time.Unix(int64(bar.Timestamp), 0),
				Close: domain.MoneyFloat(bar.Close),
			})
		}
		if err := iter.Err(); err != nil {
			return nil, err
		}
		return bars, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: history %s: %v", domain.ErrProviderFailure, symbol, err)
	}

	if len(candles) == 0 {
		return nil, fmt.Errorf("%w: no history for %s", domain.ErrNoData, symbol)
	}
	return domain.NewPriceSeries(candles), nil
}

// Profile fetches company fundamentals. Yahoo's quote API carries no
// sector, so that field is always the unknown sentinel from this source.
func (s *YahooSource) Profile(ctx context.Context, symbol string) (domain.Profile, error) {
	eq, err := call(ctx, s.timeout, func() (domain.Profile, error) {
		e, err := equity.Get(symbol)
		if err != nil {
			return domain.Profile{}, err
		}

		p := domain.UnknownProfile()
		if e.LongName != "" {
			p.Name = e.LongName
		} else if e.ShortName != "" {
			p.Name = e.ShortName
		}
		p.MarketCap = e.MarketCap
		p.PERatio = e.TrailingPE
		p.DividendYield = e.TrailingAnnualDividendYield
		return p, nil
	})
	if err != nil {
		return domain.Profile{}, fmt.Errorf("%w: profile %s: %v", domain.ErrProviderFailure, symbol, err)
	}
	return eq, nil
}

// call runs fn with a deadline. finance-go is not context-aware, so the
// fetch runs in its own goroutine and the caller stops waiting when the
// deadline passes.
func call[T any](ctx context.Context, timeout time.Duration, fn func() (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		value T
		err   error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn()
		ch <- result{value: v, err: err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case r := <-ch:
		return r.value, r.err
	}
}
