// Package ledger owns the simulator's portfolio aggregate: cash, open
// positions, and the append-only transaction log. Every mutation is atomic
// under a single ledger-wide lock, so a trade either fully applies or
// leaves the ledger untouched.
package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"papertrader/internal/domain"
)

// Ledger is the authoritative cash + positions + transaction aggregate for
// the single simulated user. Safe for concurrent use.
type Ledger struct {
	mu           sync.RWMutex
	cash         decimal.Decimal
	positions    map[string]domain.Position
	transactions []domain.Transaction
	startingCash decimal.Decimal
}

// New creates a ledger with the given starting cash, no positions, and an
// empty transaction log.
func New(startingCash decimal.Decimal) *Ledger {
	return &Ledger{
		cash:         startingCash,
		positions:    make(map[string]domain.Position),
		startingCash: startingCash,
	}
}

// Buy debits shares × price from cash and creates or grows the symbol's
// position, updating the volume-weighted cost basis. It returns
// domain.ErrInsufficientFunds when the cost exceeds cash (spending the
// entire balance is allowed). On failure the ledger is unchanged.
func (l *Ledger) Buy(symbol string, shares int64, price decimal.Decimal, now time.Time) (domain.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cost := price.Mul(decimal.NewFromInt(shares))
	if cost.GreaterThan(l.cash) {
		return domain.Transaction{}, fmt.Errorf("%w: cost %s exceeds cash %s",
			domain.ErrInsufficientFunds, cost, l.cash)
	}

	l.cash = l.cash.Sub(cost)

	if pos, ok := l.positions[symbol]; ok {
		totalShares := pos.Shares + shares
		newAvg := pos.CostBasis().Add(cost).Div(decimal.NewFromInt(totalShares))
		l.positions[symbol] = domain.Position{
			Symbol:   symbol,
			Shares:   totalShares,
			AvgPrice: newAvg,
		}
	} else {
		l.positions[symbol] = domain.Position{
			Symbol:   symbol,
			Shares:   shares,
			AvgPrice: price,
		}
	}

	return l.record(domain.TradeActionBuy, symbol, shares, price, now), nil
}

// Sell credits shares × price to cash and shrinks the symbol's position,
// leaving the cost basis unchanged. A position sold down to exactly zero
// shares is removed. It returns domain.ErrNoPosition when the symbol is
// not held and domain.ErrInsufficientShares when more shares are requested
// than held. On failure the ledger is unchanged.
func (l *Ledger) Sell(symbol string, shares int64, price decimal.Decimal, now time.Time) (domain.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pos, ok := l.positions[symbol]
	if !ok {
		return domain.Transaction{}, fmt.Errorf("%w: no shares of %s held", domain.ErrNoPosition, symbol)
	}
	if shares > pos.Shares {
		return domain.Transaction{}, fmt.Errorf("%w: requested %d, held %d",
			domain.ErrInsufficientShares, shares, pos.Shares)
	}

	proceeds := price.Mul(decimal.NewFromInt(shares))
	l.cash = l.cash.Add(proceeds)

	remaining := pos.Shares - shares
	if remaining == 0 {
		delete(l.positions, symbol)
	} else {
		pos.Shares = remaining
		l.positions[symbol] = pos
	}

	return l.record(domain.TradeActionSell, symbol, shares, price, now), nil
}

// record appends a transaction. Callers must hold l.mu.
func (l *Ledger) record(action domain.TradeAction, symbol string, shares int64, price decimal.Decimal, now time.Time) domain.Transaction {
	tx := domain.Transaction{
		ID:        uuid.New().String(),
		Timestamp: now,
		Action:    action,
		Symbol:    symbol,
		Shares:    shares,
		Price:     price,
		Total:     price.Mul(decimal.NewFromInt(shares)),
	}
	l.transactions = append(l.transactions, tx)
	return tx
}

// SetCash replaces the cash balance. Negative balances are rejected with a
// ValidationError; positions and transactions are untouched.
func (l *Ledger) SetCash(v decimal.Decimal) error {
	if v.IsNegative() {
		return &domain.ValidationError{Message: "cash balance must be >= 0"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.cash = v
	return nil
}

// Reset restores the initial state: starting cash, no positions, no
// transactions.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.cash = l.startingCash
	l.positions = make(map[string]domain.Position)
	l.transactions = nil
}

// Cash returns the current cash balance.
func (l *Ledger) Cash() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cash
}

// Positions returns a copy of the open positions keyed by symbol.
func (l *Ledger) Positions() map[string]domain.Position {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[string]domain.Position, len(l.positions))
	for sym, pos := range l.positions {
		out[sym] = pos
	}
	return out
}

// Position returns the position for a symbol, if held.
func (l *Ledger) Position(symbol string) (domain.Position, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	pos, ok := l.positions[symbol]
	return pos, ok
}

// RecentTransactions returns the last n transactions in chronological
// order (most recent last), fewer when the log is shorter. The returned
// slice is a copy.
func (l *Ledger) RecentTransactions(n int) []domain.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n > len(l.transactions) {
		n = len(l.transactions)
	}
	if n <= 0 {
		return []domain.Transaction{}
	}

	out := make([]domain.Transaction, n)
	copy(out, l.transactions[len(l.transactions)-n:])
	return out
}

// TransactionCount returns the total number of recorded transactions.
func (l *Ledger) TransactionCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.transactions)
}
