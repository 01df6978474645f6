// Package backtester simulates a model's trades against historical closes.
package backtester

import (
	"fmt"
	"time"

	"github.com/dgunay/techalyzer/backtester/performance"
	"github.com/dgunay/techalyzer/common"
	"github.com/dgunay/techalyzer/common/timeseries"
	"github.com/dgunay/techalyzer/log"
	"github.com/dgunay/techalyzer/marketdata"
	"github.com/dgunay/techalyzer/trading"
)

// New returns a BackTester once every price date is known to have a trade
func New(trades *trading.Trades, prices *marketdata.Prices, initialCash float64) (*BackTester, error) {
	if trades == nil {
		return nil, errNilTrades
	}
	if prices == nil {
		return nil, errNilPrices
	}
	for _, d := range prices.Dates() {
		if _, ok := trades.Get(d); !ok {
			return nil, fmt.Errorf("%w for %s", ErrNoPositionFound, common.FormatDate(d))
		}
	}
	return &BackTester{trades: trades, prices: prices, initialCash: initialCash}, nil
}

// Backtest runs the simulation. Each day the raw trade is resolved, the
// share count moves straight to the position's target at the close and the
// cash difference is booked; the portfolio is then valued as
// shares*close + cash.
func (b *BackTester) Backtest() (*performance.Performance, error) {
	valuations, err := b.Replay(nil)
	if err != nil {
		return nil, err
	}
	return performance.New(valuations)
}

// Replay runs the simulation and hands each day's state to fn when it is not
// nil
func (b *BackTester) Replay(fn func(date time.Time, state DayState)) (*timeseries.Series[float64], error) {
	valuations := &timeseries.Series[float64]{}
	state := DayState{Cash: b.initialCash}
	var prev trading.Position
	err := b.prices.Each(func(date time.Time, price float64) error {
		raw, ok := b.trades.Get(date)
		if !ok {
			return fmt.Errorf("%w for %s", ErrNoPositionFound, common.FormatDate(date))
		}
		resolved := trading.Resolve(raw, prev)
		if resolved != prev {
			log.Debugf(log.BackTester, "%s %s -> %s at %.4f", common.FormatDate(date), prev, resolved, price)
		}
		target := resolved.SignedShares()
		state.Cash -= float64(target-state.Shares) * price
		state.Shares = target
		state.Position = resolved
		state.Equity = float64(state.Shares) * price
		state.Valuation = state.Equity + state.Cash
		valuations.Set(date, state.Valuation)
		if fn != nil {
			fn(date, state)
		}
		prev = resolved
		return nil
	})
	if err != nil {
		return nil, err
	}
	return valuations, nil
}
