// Package marketdata holds the price history a trading model consumes.
package marketdata

import (
	"fmt"
	"strings"
	"time"

	"github.com/dgunay/techalyzer/common"
	"github.com/dgunay/techalyzer/common/timeseries"
)

// New builds a price series for symbol. Entries may arrive in any order but
// each date may appear once.
func New(symbol string, entries []Entry) (*Prices, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, ErrEmptySymbol
	}
	s, err := timeseries.FromEntries(entries)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", symbol, err)
	}
	return &Prices{Symbol: symbol, series: s}, nil
}

// FromMap is a convenience constructor for date keyed prices
func FromMap(symbol string, m map[time.Time]float64) (*Prices, error) {
	entries := make([]Entry, 0, len(m))
	for d, p := range m {
		entries = append(entries, Entry{Date: d, Value: p})
	}
	return New(symbol, entries)
}

// Len returns the number of trading days
func (p *Prices) Len() int {
	if p == nil {
		return 0
	}
	return p.series.Len()
}

// Get returns the close on date
func (p *Prices) Get(date time.Time) (float64, bool) {
	return p.series.Get(date)
}

// GetAfter returns the entry n trading days after an existing date
func (p *Prices) GetAfter(date time.Time, n int) (Entry, bool) {
	if n < 1 {
		return Entry{}, false
	}
	return p.series.Offset(date, n)
}

// GetBefore returns the entry n trading days before an existing date
func (p *Prices) GetBefore(date time.Time, n int) (Entry, bool) {
	if n < 1 {
		return Entry{}, false
	}
	return p.series.Offset(date, -n)
}

// DateRange returns a new series restricted to r, both ends inclusive
func (p *Prices) DateRange(r common.DateRange) *Prices {
	return &Prices{Symbol: p.Symbol, series: p.series.Slice(r)}
}

// DatesInRange lists the trading days within r
func (p *Prices) DatesInRange(r common.DateRange) []time.Time {
	return p.series.Slice(r).Dates()
}

// Dates lists every trading day in order
func (p *Prices) Dates() []time.Time {
	return p.series.Dates()
}

// Closes lists every closing price in date order
func (p *Prices) Closes() []float64 {
	return p.series.Values()
}

// Entries returns a copy of every entry in date order
func (p *Prices) Entries() []Entry {
	return p.series.Entries()
}

// First returns the earliest entry
func (p *Prices) First() (Entry, bool) {
	return p.series.First()
}

// Last returns the latest entry
func (p *Prices) Last() (Entry, bool) {
	return p.series.Last()
}

// Each calls fn for every entry in date order, stopping at the first error
func (p *Prices) Each(fn func(date time.Time, price float64) error) error {
	for i := 0; i < p.Len(); i++ {
		e := p.series.At(i)
		if err := fn(e.Date, e.Value); err != nil {
			return err
		}
	}
	return nil
}

// Range returns the span covered by the series
func (p *Prices) Range() common.DateRange {
	first, ok := p.First()
	if !ok {
		return common.DateRange{}
	}
	last, _ := p.Last()
	return common.DateRange{Start: first.Date, End: last.Date}
}
