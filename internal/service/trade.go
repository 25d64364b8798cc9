package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"papertrader/internal/domain"
	"papertrader/internal/ledger"
	"papertrader/internal/quote"
)

var symbolRegex = regexp.MustCompile(`^[A-Z.\-]{1,10}$`)

// ExecuteTradeRequest represents the input for a trade execution.
type ExecuteTradeRequest struct {
	Action string
	Symbol string
	Shares int64
}

// TradeResult represents the outcome of a successfully executed trade.
type TradeResult struct {
	Message     string
	Transaction domain.Transaction
}

// TradeService validates trade requests and applies them to the ledger at
// the quoted market price.
type TradeService struct {
	source quote.Source
	ledger *ledger.Ledger
}

// NewTradeService creates a new TradeService.
func NewTradeService(source quote.Source, ledger *ledger.Ledger) *TradeService {
	return &TradeService{
		source: source,
		ledger: ledger,
	}
}

// Execute validates the request, fetches the current price, and applies
// the trade atomically. The price is fetched once, before the ledger lock
// is taken, and that single price is used for both validation and the
// recorded transaction. A failed trade leaves the ledger untouched.
func (s *TradeService) Execute(ctx context.Context, req ExecuteTradeRequest) (*TradeResult, error) {
	action := domain.TradeAction(strings.ToLower(strings.TrimSpace(req.Action)))
	if !action.Valid() {
		return nil, &domain.ValidationError{
			Message: "action must be 'buy' or 'sell'",
		}
	}

	symbol, err := NormalizeSymbol(req.Symbol)
	if err != nil {
		return nil, err
	}

	if req.Shares <= 0 {
		return nil, &domain.ValidationError{
			Message: "shares must be a positive integer",
		}
	}

	price, err := s.source.CurrentPrice(ctx, symbol)
	if err != nil {
		return nil, err
	}

	var tx domain.Transaction
	if action == domain.TradeActionBuy {
		tx, err = s.ledger.Buy(symbol, req.Shares, price, time.Now())
	} else {
		tx, err = s.ledger.Sell(symbol, req.Shares, price, time.Now())
	}
	if err != nil {
		return nil, err
	}

	verb := strings.ToUpper(string(action[:1])) + string(action[1:])
	return &TradeResult{
		Message:     fmt.Sprintf("%s order executed successfully", verb),
		Transaction: tx,
	}, nil
}

// NormalizeSymbol uppercases and validates a ticker symbol.
func NormalizeSymbol(symbol string) (string, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if !symbolRegex.MatchString(symbol) {
		return "", &domain.ValidationError{
			Message: "symbol must be 1-10 characters of A-Z, '.', or '-'",
		}
	}
	return symbol, nil
}
