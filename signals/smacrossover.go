package signals

import (
	"fmt"
	"math"

	gctmath "github.com/dgunay/techalyzer/common/math"
	"github.com/dgunay/techalyzer/indicators"
)

const crossoverLean = 0.2

// SMACrossoverGenerator emits a full signal on the day a fast SMA crosses a
// slow SMA and otherwise leans toward the side the fast SMA sits on, scaled
// by its slope
type SMACrossoverGenerator struct {
	cfg      Config
	fast     *indicators.SimpleMovingAverage
	slow     *indicators.SimpleMovingAverage
	lastFast float64
	lastSlow float64
}

// NewSMACrossover returns a crossover generator. A slopeScale of zero selects
// DefaultCrossoverSlopeScale.
func NewSMACrossover(fast, slow int, slopeScale float64) (*SMACrossoverGenerator, error) {
	if fast == slow {
		return nil, fmt.Errorf("%w: %d", ErrEqualWindows, fast)
	}
	if slopeScale < 0 || math.IsNaN(slopeScale) || math.IsInf(slopeScale, 0) {
		return nil, fmt.Errorf("%w: slope scale %v", indicators.ErrInvalidParameter, slopeScale)
	}
	if slopeScale == 0 {
		slopeScale = DefaultCrossoverSlopeScale
	}
	f, err := indicators.NewSimpleMovingAverage(fast)
	if err != nil {
		return nil, err
	}
	s, err := indicators.NewSimpleMovingAverage(slow)
	if err != nil {
		return nil, err
	}
	return &SMACrossoverGenerator{
		cfg:  Config{Kind: SMACrossover, Fast: fast, Slow: slow, SlopeScale: slopeScale},
		fast: f,
		slow: s,
	}, nil
}

// Next implements Generator
func (c *SMACrossoverGenerator) Next(price float64) (Signal, Output) {
	fast := c.fast.Next(price)
	slow := c.slow.Next(price)
	out := Output{LabelFast: fast, LabelSlow: slow}

	var raw float64
	switch {
	case c.lastFast <= c.lastSlow && fast > slow:
		raw = 1
	case c.lastFast >= c.lastSlow && fast < slow:
		raw = -1
	default:
		slope := gctmath.Slope(fast-c.lastFast, 1) * c.cfg.SlopeScale
		switch {
		case fast > slow:
			raw = gctmath.Clamp(slope+crossoverLean, 0, 1)
		case fast < slow:
			raw = gctmath.Clamp(slope-crossoverLean, -1, 0)
		}
	}
	c.lastFast, c.lastSlow = fast, slow
	return bounded(raw), out
}

// Reset implements Generator
func (c *SMACrossoverGenerator) Reset() {
	c.fast.Reset()
	c.slow.Reset()
	c.lastFast, c.lastSlow = 0, 0
}

// Config implements Generator
func (c *SMACrossoverGenerator) Config() Config {
	return c.cfg
}
