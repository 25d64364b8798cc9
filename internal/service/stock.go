package service

import (
	"context"
	"log/slog"
	"time"

	"papertrader/internal/domain"
	"papertrader/internal/indicator"
	"papertrader/internal/quote"
)

// StockResponse represents the response for GET /api/stock/{symbol}.
type StockResponse struct {
	Symbol       string
	Profile      domain.Profile
	CurrentPrice float64 // last close of the history window
	Points       []indicator.Point
}

// StockService serves historical price data annotated with indicators.
type StockService struct {
	source      quote.Source
	historyDays int
	logger      *slog.Logger
}

// NewStockService creates a new StockService. historyDays is the size of
// the trailing window fetched for the chart (180 by default).
func NewStockService(source quote.Source, historyDays int, logger *slog.Logger) *StockService {
	return &StockService{
		source:      source,
		historyDays: historyDays,
		logger:      logger,
	}
}

// GetStock fetches the symbol's trailing history, runs the indicator
// pipeline over it, and attaches the company profile. History failures
// propagate (domain.ErrNoData for an empty series); a profile failure
// degrades to sentinel values rather than failing the whole request.
func (s *StockService) GetStock(ctx context.Context, symbol string) (*StockResponse, error) {
	symbol, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}

	end := time.Now()
	start := end.AddDate(0, 0, -s.historyDays)

	series, err := s.source.History(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}

	profile, err := s.source.Profile(ctx, symbol)
	if err != nil {
		s.logger.Warn("profile lookup failed, serving sentinels",
			slog.String("symbol", symbol),
			slog.String("error", err.Error()),
		)
		profile = domain.UnknownProfile()
	}

	last, _ := series.Last()
	return &StockResponse{
		Symbol:       symbol,
		Profile:      profile,
		CurrentPrice: last.Close,
		Points:       indicator.Compute(series),
	}, nil
}
