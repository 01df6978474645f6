package marketdata

import (
	"errors"

	"github.com/dgunay/techalyzer/common/timeseries"
)

// ErrEmptySymbol is returned when a series is created without a ticker
var ErrEmptySymbol = errors.New("symbol cannot be empty")

// Entry is a single closing price
type Entry = timeseries.Entry[float64]

// Prices is a ticker plus an ordered, date unique series of closing prices
type Prices struct {
	Symbol string
	series *timeseries.Series[float64]
}
