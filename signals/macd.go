package signals

import (
	gctmath "github.com/dgunay/techalyzer/common/math"
	"github.com/dgunay/techalyzer/indicators"
)

const macdBias = 0.5

// MACDGenerator leans ±0.5 depending on which side of its signal line the
// MACD sits, nudged by the relative change of the MACD line
type MACDGenerator struct {
	cfg      Config
	macd     *indicators.MovingAverageConvergenceDivergence
	prevLine float64
}

// NewMACD returns a MACD generator
func NewMACD(fast, slow, signal int) (*MACDGenerator, error) {
	m, err := indicators.NewMovingAverageConvergenceDivergence(fast, slow, signal)
	if err != nil {
		return nil, err
	}
	return &MACDGenerator{
		cfg:  Config{Kind: MACD, Fast: fast, Slow: slow, Signal: signal},
		macd: m,
	}, nil
}

// Next implements Generator
func (m *MACDGenerator) Next(price float64) (Signal, Output) {
	o := m.macd.Next(price)

	var bias float64
	switch {
	case o.MACD > o.Signal:
		bias = macdBias
	case o.MACD < o.Signal:
		bias = -macdBias
	}

	var slope float64
	if m.prevLine != 0 {
		slope = (o.MACD - m.prevLine) / m.prevLine / 2
	}
	m.prevLine = o.MACD

	return bounded(gctmath.Clamp(slope, -macdBias, macdBias) + bias), Output{
		LabelMACD:      o.MACD,
		LabelSignal:    o.Signal,
		LabelHistogram: o.Histogram,
	}
}

// Reset implements Generator
func (m *MACDGenerator) Reset() {
	m.macd.Reset()
	m.prevLine = 0
}

// Config implements Generator
func (m *MACDGenerator) Config() Config {
	return m.cfg
}
