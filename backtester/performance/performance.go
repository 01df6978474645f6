// Package performance derives return and risk figures from a series of daily
// portfolio valuations.
package performance

import (
	"fmt"
	"math"

	"github.com/dgunay/techalyzer/common"
	gctmath "github.com/dgunay/techalyzer/common/math"
	"github.com/dgunay/techalyzer/common/timeseries"
	"github.com/dgunay/techalyzer/trading"
)

// New builds a Performance from daily valuations. The first day's return is
// zero; later returns are v/prev - 1 and a zero previous valuation yields
// +Inf or NaN, which propagate into Volatility untouched.
func New(valuations *timeseries.Series[float64]) (*Performance, error) {
	if valuations.Len() == 0 {
		return nil, ErrNoValuations
	}
	returns := &timeseries.Series[float64]{}
	all := make([]float64, valuations.Len())
	for i := 0; i < valuations.Len(); i++ {
		e := valuations.At(i)
		if i > 0 {
			all[i] = gctmath.PercentChange(valuations.At(i-1).Value, e.Value)
		}
		returns.Set(e.Date, all[i])
	}
	return &Performance{
		Valuations:   valuations,
		DailyReturns: returns,
		Volatility:   gctmath.PopulationStandardDeviation(all),
	}, nil
}

// RangeReturn is the fractional change between the first and last valuations
// inside r
func (p *Performance) RangeReturn(r common.DateRange) (float64, error) {
	sub := p.Valuations.Slice(r)
	if sub.Len() < 2 {
		return 0, fmt.Errorf("%w: %d valuations in %s", ErrNotEnoughDataPoints, sub.Len(), r)
	}
	first, _ := sub.First()
	last, _ := sub.Last()
	return gctmath.PercentChange(first.Value, last.Value), nil
}

// TotalReturn is the fractional change between the first and last valuations
func (p *Performance) TotalReturn() (float64, error) {
	return p.RangeReturn(common.DateRange{})
}

// TradesAccuracy is the fraction of closed round trips that made money.
// Every explicit entry becomes the anchor, including a repeat of the current
// position. An exit from the anchor (going flat or reversing) scores
// value/anchorValue - 1 and clears it, so a position left flat is scored
// once. Hold is neither an entry nor an exit. Round trips that break even
// are not counted. With nothing counted the result is NaN.
func (p *Performance) TradesAccuracy(trades *trading.Trades) (float64, error) {
	var anchor trading.Position
	var anchorValue float64
	var counted, profitable int
	for i := 0; i < p.Valuations.Len(); i++ {
		e := p.Valuations.At(i)
		current, ok := trades.Get(e.Date)
		if !ok {
			return 0, fmt.Errorf("%w for %s", ErrNoTradeFound, common.FormatDate(e.Date))
		}
		if anchor.IsEntry() && current.IsExitFrom(anchor) {
			if profit := gctmath.PercentChange(anchorValue, e.Value); profit != 0 {
				counted++
				if profit > 0 {
					profitable++
				}
			}
			anchor = trading.Out()
		}
		if current.IsEntry() {
			anchor, anchorValue = current, e.Value
		}
	}
	if counted == 0 {
		return math.NaN(), nil
	}
	return float64(profitable) / float64(counted), nil
}

// SharpeRatio is the mean daily excess return over its sample standard
// deviation, excluding the first day
func (p *Performance) SharpeRatio(riskFreeRate float64) float64 {
	returns := p.DailyReturns.Values()
	if len(returns) > 0 {
		returns = returns[1:]
	}
	return gctmath.CalculateSharpeRatio(returns, riskFreeRate, gctmath.ArithmeticAverage(returns))
}

// MaxDrawdown is the largest peak to trough decline in valuation as a
// fraction of the peak
func (p *Performance) MaxDrawdown() float64 {
	return gctmath.MaxDrawdown(p.Valuations.Values())
}
