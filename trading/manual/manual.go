// Package manual trades on the average of several stock signal generators,
// optionally letting the market regime decide which of them vote.
package manual

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgunay/techalyzer/indicators"
	"github.com/dgunay/techalyzer/marketdata"
	"github.com/dgunay/techalyzer/signals"
	"github.com/dgunay/techalyzer/trading"
)

// Name is the model's registered name
const Name = "manual"

// Defaults
const (
	DefaultShares       uint64 = 1000
	DefaultRegimeWindow        = 75
)

var (
	errInvalidDeadZone    = errors.New("dead zone must be within [0, 1]")
	errInvalidDisposition = errors.New("disposition must be within [-1, 1]")
)

// Model averages RSI, Bollinger %B and MACD signals, shifts the average by
// Disposition and goes long above DeadZone, short below -DeadZone and flat
// in between
type Model struct {
	Shares      uint64
	DeadZone    signals.Signal
	Disposition signals.Signal

	// RegimeWindow enables regime weighting when positive
	RegimeWindow    int
	RegimeThreshold float64
}

// New returns a manual model. Zero shares selects DefaultShares.
func New(shares uint64, deadZone, disposition float64) (*Model, error) {
	if shares == 0 {
		shares = DefaultShares
	}
	if deadZone < 0 || deadZone > 1 {
		return nil, fmt.Errorf("%w: %v", errInvalidDeadZone, deadZone)
	}
	d, err := signals.New(disposition)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDisposition, err)
	}
	return &Model{Shares: shares, DeadZone: signals.Signal(deadZone), Disposition: d}, nil
}

// Name implements trading.Model
func (m *Model) Name() string {
	return Name
}

type voter struct {
	gen   signals.Generator
	trend bool
}

func (m *Model) voters() ([]voter, error) {
	kinds := []signals.Kind{signals.RSI, signals.BollingerBands, signals.MACD}
	if m.RegimeWindow > 0 {
		kinds = append(kinds, signals.SMACrossover)
	}
	out := make([]voter, len(kinds))
	for i := range kinds {
		cfg, err := signals.DefaultConfig(kinds[i])
		if err != nil {
			return nil, err
		}
		g, err := signals.NewGenerator(cfg)
		if err != nil {
			return nil, err
		}
		out[i] = voter{gen: g, trend: kinds[i] == signals.MACD || kinds[i] == signals.SMACrossover}
	}
	return out, nil
}

func votes(r indicators.Regime, trend bool) bool {
	switch r {
	case indicators.RegimeTrending:
		return trend
	case indicators.RegimeOscillating:
		return !trend
	}
	return true
}

// GetTrades implements trading.Model
func (m *Model) GetTrades(prices *marketdata.Prices) (*trading.Trades, error) {
	voters, err := m.voters()
	if err != nil {
		return nil, err
	}
	var detector *indicators.RegimeDetector
	if m.RegimeWindow > 0 {
		detector, err = indicators.NewRegimeDetector(m.RegimeWindow, m.RegimeThreshold)
		if err != nil {
			return nil, err
		}
	}

	trades := trading.NewTrades()
	err = prices.Each(func(date time.Time, price float64) error {
		regime := indicators.RegimeUnknown
		if detector != nil {
			regime = detector.Next(price)
		}
		var sum float64
		var n int
		for i := range voters {
			s, _ := voters[i].gen.Next(price)
			if votes(regime, voters[i].trend) {
				sum += s.Float()
				n++
			}
		}
		avg := sum/float64(n) + m.Disposition.Float()
		switch {
		case avg > m.DeadZone.Float():
			trades.Set(date, trading.Long(m.Shares))
		case avg < -m.DeadZone.Float():
			trades.Set(date, trading.Short(m.Shares))
		default:
			trades.Set(date, trading.Out())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return trades, nil
}
