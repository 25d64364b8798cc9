package domain

import (
	"time"

	"github.com/google/btree"
)

// Candle is one daily close. Date carries day precision only.
type Candle struct {
	Date  time.Time
	Close float64
}

// PriceSeries is an ordered sequence of daily closes, strictly increasing
// by date with no duplicate dates. Build one with NewPriceSeries.
type PriceSeries []Candle

// candleLess orders candles by date ascending, so tree ascent yields the
// chronological series.
func candleLess(a, b Candle) bool {
	return a.Date.Before(b.Date)
}

// NewPriceSeries builds a PriceSeries from provider bars that may arrive
// unordered or with duplicate dates. Dates are truncated to the day;
// for duplicate dates the last bar wins. The result is strictly ascending.
func NewPriceSeries(candles []Candle) PriceSeries {
	tree := btree.NewG[Candle](2, candleLess)
	for _, c := range candles {
		c.Date = DayOf(c.Date)
		tree.ReplaceOrInsert(c)
	}

	series := make(PriceSeries, 0, tree.Len())
	tree.Ascend(func(c Candle) bool {
		series = append(series, c)
		return true
	})
	return series
}

// Closes returns the close values in series order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, c := range s {
		closes[i] = c.Close
	}
	return closes
}

// Last returns the final candle of the series and true, or a zero candle
// and false for an empty series.
func (s PriceSeries) Last() (Candle, bool) {
	if len(s) == 0 {
		return Candle{}, false
	}
	return s[len(s)-1], true
}

// DayOf truncates a timestamp to midnight UTC.
func DayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
