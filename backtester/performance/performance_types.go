package performance

import (
	"errors"

	"github.com/dgunay/techalyzer/common/timeseries"
)

var (
	// ErrNoValuations is returned when a Performance is built from nothing
	ErrNoValuations = errors.New("no portfolio valuations")
	// ErrNotEnoughDataPoints is returned when a range holds fewer than two
	// valuations
	ErrNotEnoughDataPoints = errors.New("not enough data points")
	// ErrNoTradeFound is returned when accuracy is asked for a valuation date
	// without a position
	ErrNoTradeFound = errors.New("no trade found")
)

// Performance summarises one backtest: the daily portfolio valuations, the
// daily returns derived from them and their volatility
type Performance struct {
	Valuations   *timeseries.Series[float64]
	DailyReturns *timeseries.Series[float64]
	Volatility   float64
}
