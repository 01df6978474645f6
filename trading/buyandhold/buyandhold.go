// Package buyandhold buys on the first trading day and never acts again.
package buyandhold

import (
	"errors"

	"github.com/dgunay/techalyzer/marketdata"
	"github.com/dgunay/techalyzer/trading"
)

// Name is the model's registered name
const Name = "buyandhold"

// DefaultShares is the position size when none is configured
const DefaultShares uint64 = 1000

// ErrNoFirstDay is returned for an empty price history
var ErrNoFirstDay = errors.New("no first day to buy on")

// Model goes long Shares on the first date and holds
type Model struct {
	Shares uint64
}

// New returns a buy and hold model. Zero shares selects DefaultShares.
func New(shares uint64) *Model {
	if shares == 0 {
		shares = DefaultShares
	}
	return &Model{Shares: shares}
}

// Name implements trading.Model
func (m *Model) Name() string {
	return Name
}

// GetTrades implements trading.Model
func (m *Model) GetTrades(prices *marketdata.Prices) (*trading.Trades, error) {
	first, ok := prices.First()
	if !ok {
		return nil, ErrNoFirstDay
	}
	trades := trading.NewTrades()
	for _, d := range prices.Dates() {
		trades.Set(d, trading.Hold())
	}
	trades.Set(first.Date, trading.Long(m.Shares))
	return trades, nil
}
