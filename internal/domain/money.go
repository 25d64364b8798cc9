package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ParseMoney converts a float64 dollar amount from a JSON payload into a
// decimal. It validates that the input is non-negative and carries at most
// 2 decimal places, so "12.345" is rejected before it reaches the ledger.
func ParseMoney(f float64) (decimal.Decimal, error) {
	d := decimal.NewFromFloat(f)
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("monetary values must be >= 0")
	}
	if !d.Equal(d.Round(2)) {
		return decimal.Zero, fmt.Errorf("monetary values must have at most 2 decimal places")
	}
	return d.Round(2), nil
}

// MoneyFloat converts a decimal back to the float64 the JSON surface uses.
func MoneyFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
