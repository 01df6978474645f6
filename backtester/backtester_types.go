package backtester

import (
	"errors"

	"github.com/dgunay/techalyzer/marketdata"
	"github.com/dgunay/techalyzer/trading"
)

var (
	// ErrNoPositionFound is returned when a price date has no trade
	ErrNoPositionFound = errors.New("no position found")
	errNilPrices       = errors.New("prices cannot be nil")
	errNilTrades       = errors.New("trades cannot be nil")
)

// BackTester replays a trade sequence against a price history, tracking cash
// and shares and valuing the portfolio at each day's close
type BackTester struct {
	trades      *trading.Trades
	prices      *marketdata.Prices
	initialCash float64
}

// DayState is the portfolio after acting on one trading day
type DayState struct {
	Position  trading.Position
	Shares    int64
	Cash      float64
	Equity    float64
	Valuation float64
}
