package trading

import (
	"errors"
	"time"

	"github.com/dgunay/techalyzer/common/timeseries"
	"github.com/dgunay/techalyzer/marketdata"
)

// Side is the direction of a Position
type Side uint8

// Sides. The zero value is SideOut so an unset Position is flat.
const (
	SideOut Side = iota
	SideLong
	SideShort
	SideHold
)

var (
	// ErrNoTrades is returned when a model produces nothing to act on
	ErrNoTrades = errors.New("no trades")
	// ErrInvalidPosition is returned when text cannot be parsed as a Position
	ErrInvalidPosition = errors.New("invalid position")
)

// Position is the holding a model wants for a trading day. Long and Short
// carry a share count; Out and Hold never do.
type Position struct {
	Side   Side
	Shares uint64
}

// Trades maps each trading day to the raw Position a model emitted
type Trades struct {
	series timeseries.Series[Position]
}

// Model turns a price history into a Trades sequence covering every date in it
type Model interface {
	Name() string
	GetTrades(prices *marketdata.Prices) (*Trades, error)
}

// Suggestion is the resolved position a model proposes for the latest date
type Suggestion struct {
	Date     time.Time
	Position Position
	Raw      Position
}
