package trading

import (
	"fmt"
	"time"

	"github.com/dgunay/techalyzer/common"
	"github.com/dgunay/techalyzer/common/timeseries"
	"github.com/dgunay/techalyzer/marketdata"
)

// NewTrades returns an empty trade sequence
func NewTrades() *Trades {
	return &Trades{}
}

// Set records the position for date, replacing any existing one
func (t *Trades) Set(date time.Time, p Position) {
	t.series.Set(date, p)
}

// Get returns the raw position for date
func (t *Trades) Get(date time.Time) (Position, bool) {
	return t.series.Get(date)
}

// Len returns the number of trading days covered
func (t *Trades) Len() int {
	if t == nil {
		return 0
	}
	return t.series.Len()
}

// Dates lists the covered trading days in order
func (t *Trades) Dates() []time.Time {
	return t.series.Dates()
}

// Entries returns every dated raw position in order
func (t *Trades) Entries() []timeseries.Entry[Position] {
	return t.series.Entries()
}

// Resolved returns a copy of the sequence with every Hold replaced by the
// position it holds
func (t *Trades) Resolved() *Trades {
	out := NewTrades()
	var prev Position
	for i := 0; i < t.Len(); i++ {
		e := t.series.At(i)
		prev = Resolve(e.Value, prev)
		out.series.Set(e.Date, prev)
	}
	return out
}

// Covers returns an error naming the first price date without a position
func (t *Trades) Covers(prices *marketdata.Prices) error {
	for _, d := range prices.Dates() {
		if _, ok := t.Get(d); !ok {
			return fmt.Errorf("%w for %s", ErrNoTrades, common.FormatDate(d))
		}
	}
	return nil
}

// MarshalJSON renders the sequence as an object keyed by date
func (t *Trades) MarshalJSON() ([]byte, error) {
	return t.series.MarshalJSON()
}

// UnmarshalJSON parses an object keyed by date
func (t *Trades) UnmarshalJSON(data []byte) error {
	return t.series.UnmarshalJSON(data)
}

// Suggest runs m over prices and returns the resolved position for the
// latest trading day
func Suggest(m Model, prices *marketdata.Prices) (Suggestion, error) {
	trades, err := m.GetTrades(prices)
	if err != nil {
		return Suggestion{}, err
	}
	last, ok := prices.Last()
	if !ok {
		return Suggestion{}, ErrNoTrades
	}
	raw, ok := trades.Get(last.Date)
	if !ok {
		return Suggestion{}, fmt.Errorf("%w for %s", ErrNoTrades, common.FormatDate(last.Date))
	}
	resolved, _ := trades.Resolved().Get(last.Date)
	return Suggestion{Date: last.Date, Position: resolved, Raw: raw}, nil
}
