package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeAction indicates whether a trade buys or sells shares.
type TradeAction string

const (
	TradeActionBuy  TradeAction = "buy"
	TradeActionSell TradeAction = "sell"
)

// Valid reports whether the action is one of the two known trade actions.
func (a TradeAction) Valid() bool {
	return a == TradeActionBuy || a == TradeActionSell
}

// Position is the current holding in a single symbol. A position exists
// only while Shares > 0; selling down to zero removes it entirely.
type Position struct {
	Symbol   string
	Shares   int64
	AvgPrice decimal.Decimal // volume-weighted cost basis
}

// CostBasis returns Shares × AvgPrice, the total amount paid for the
// currently held shares.
func (p Position) CostBasis() decimal.Decimal {
	return p.AvgPrice.Mul(decimal.NewFromInt(p.Shares))
}

// Transaction is an immutable record of one executed trade. Transactions
// are append-only and ordered chronologically; only a full ledger reset
// discards them.
type Transaction struct {
	ID        string
	Timestamp time.Time
	Action    TradeAction
	Symbol    string
	Shares    int64
	Price     decimal.Decimal // execution price
	Total     decimal.Decimal // Shares × Price
}
