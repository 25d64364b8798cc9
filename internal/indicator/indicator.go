// Package indicator derives technical indicators from a daily price series.
// Computation is pure: the same series always produces the same output, and
// no state is kept between calls.
package indicator

import (
	"time"

	"papertrader/internal/domain"
)

const (
	// SMAShortWindow and SMALongWindow are the two moving-average windows
	// surfaced on the chart.
	SMAShortWindow = 20
	SMALongWindow  = 50

	// RSIPeriod is the lookback for the relative strength index.
	RSIPeriod = 14
)

// Point is one series entry annotated with indicators. Indicator fields
// are nil while the trailing window has insufficient history; a numeric
// placeholder is never used.
type Point struct {
	Date  time.Time
	Close float64
	SMA20 *float64
	SMA50 *float64
	RSI   *float64
}

// Compute annotates the series with SMA(20), SMA(50), and RSI(14), aligned
// to the input dates. The output has exactly one point per input candle.
func Compute(series domain.PriceSeries) []Point {
	closes := series.Closes()
	sma20 := sma(closes, SMAShortWindow)
	sma50 := sma(closes, SMALongWindow)
	rsi := rsi(closes, RSIPeriod)

	points := make([]Point, len(series))
	for i, c := range series {
		points[i] = Point{
			Date:  c.Date,
			Close: c.Close,
			SMA20: sma20[i],
			SMA50: sma50[i],
			RSI:   rsi[i],
		}
	}
	return points
}

// sma computes the simple moving average over the trailing window of n
// closes. Entries before index n-1 are nil: a mean over a short window is
// never taken.
func sma(closes []float64, n int) []*float64 {
	out := make([]*float64, len(closes))
	var sum float64
	for i, c := range closes {
		sum += c
		if i >= n {
			sum -= closes[i-n]
		}
		if i >= n-1 {
			mean := sum / float64(n)
			out[i] = &mean
		}
	}
	return out
}

// rsi computes the rolling-mean RSI over the trailing period deltas.
// Entries before index period are nil (the first delta exists at index 1,
// and a full window of period deltas is required). When the trailing loss
// is zero the ratio is unbounded, so RSI saturates to 100.
//
// Each window is summed directly rather than slid incrementally: a slid
// sum can hold float cancellation residue after a flat stretch, and the
// loss==0 branch must fire exactly when the window holds no losses.
func rsi(closes []float64, period int) []*float64 {
	out := make([]*float64, len(closes))
	for i := period; i < len(closes); i++ {
		var gainSum, lossSum float64
		for j := i - period + 1; j <= i; j++ {
			delta := closes[j] - closes[j-1]
			if delta > 0 {
				gainSum += delta
			} else {
				lossSum -= delta
			}
		}

		var value float64
		if lossSum == 0 {
			value = 100
		} else {
			rs := gainSum / lossSum
			value = 100 - 100/(1+rs)
		}
		out[i] = &value
	}
	return out
}
