package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"papertrader/internal/domain"
	"papertrader/internal/ledger"
	"papertrader/internal/quote"
)

// recentTransactionCount is how many transactions the portfolio overview
// returns.
const recentTransactionCount = 10

// ValuedPosition is a position annotated with its current market value.
// When the price lookup for the symbol failed, Stale is true and the
// current-value fields are nil; the rest of the valuation still proceeds.
type ValuedPosition struct {
	Position     domain.Position
	CurrentPrice *decimal.Decimal
	CurrentValue *decimal.Decimal
	GainLoss     *decimal.Decimal
	Stale        bool
}

// PortfolioOverview represents the response for GET /api/portfolio.
type PortfolioOverview struct {
	Cash         decimal.Decimal
	TotalValue   decimal.Decimal // cash + value of successfully priced positions
	Positions    []ValuedPosition
	Transactions []domain.Transaction
}

// PortfolioService fronts ledger queries and the balance/reset operations.
type PortfolioService struct {
	source quote.Source
	ledger *ledger.Ledger
	logger *slog.Logger
}

// NewPortfolioService creates a new PortfolioService.
func NewPortfolioService(source quote.Source, ledger *ledger.Ledger, logger *slog.Logger) *PortfolioService {
	return &PortfolioService{
		source: source,
		ledger: ledger,
		logger: logger,
	}
}

// Overview values every held position at its current market price. A
// failed lookup for one symbol marks that position stale and is excluded
// from the total; it never aborts valuation of the others.
func (s *PortfolioService) Overview(ctx context.Context) *PortfolioOverview {
	cash := s.ledger.Cash()
	positions := s.ledger.Positions()

	valued := make([]ValuedPosition, 0, len(positions))
	total := cash

	for symbol, pos := range positions {
		price, err := s.source.CurrentPrice(ctx, symbol)
		if err != nil {
			s.logger.Warn("valuation price lookup failed",
				slog.String("symbol", symbol),
				slog.String("error", err.Error()),
			)
			valued = append(valued, ValuedPosition{Position: pos, Stale: true})
			continue
		}

		value := price.Mul(decimal.NewFromInt(pos.Shares))
		gainLoss := value.Sub(pos.CostBasis())
		total = total.Add(value)

		valued = append(valued, ValuedPosition{
			Position:     pos,
			CurrentPrice: &price,
			CurrentValue: &value,
			GainLoss:     &gainLoss,
		})
	}

	return &PortfolioOverview{
		Cash:         cash,
		TotalValue:   total,
		Positions:    valued,
		Transactions: s.ledger.RecentTransactions(recentTransactionCount),
	}
}

// SetCashBalance validates and replaces the cash balance. It returns the
// new balance and a confirmation message.
func (s *PortfolioService) SetCashBalance(balance float64) (decimal.Decimal, string, error) {
	v, err := domain.ParseMoney(balance)
	if err != nil {
		return decimal.Zero, "", &domain.ValidationError{
			Message: fmt.Sprintf("invalid cash balance: %v", err),
		}
	}
	if err := s.ledger.SetCash(v); err != nil {
		return decimal.Zero, "", err
	}
	return v, fmt.Sprintf("Portfolio balance updated to $%s", v.StringFixed(2)), nil
}

// Reset restores the ledger to its initial state and returns the starting
// cash.
func (s *PortfolioService) Reset() (decimal.Decimal, string) {
	s.ledger.Reset()
	cash := s.ledger.Cash()
	return cash, fmt.Sprintf("Portfolio reset successfully to $%s", cash.StringFixed(2))
}
