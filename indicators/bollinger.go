package indicators

import (
	"fmt"
	"math"

	gctindicators "github.com/thrasher-corp/gct-ta/indicators"
)

// NewBollingerBands returns bands over period inputs, multiplier deviations
// wide
func NewBollingerBands(period int, multiplier float64) (*BollingerBands, error) {
	if period <= 0 {
		return nil, fmt.Errorf("%w: bollinger period %d", ErrInvalidParameter, period)
	}
	if multiplier <= 0 || math.IsNaN(multiplier) || math.IsInf(multiplier, 0) {
		return nil, fmt.Errorf("%w: bollinger multiplier %v", ErrInvalidParameter, multiplier)
	}
	return &BollingerBands{
		period:     period,
		multiplier: multiplier,
		window:     make([]float64, 0, period),
	}, nil
}

// Next consumes one input and returns the bands. Until period inputs have
// been seen the bands cover the inputs so far. A flat window has all three
// bands on the price.
func (b *BollingerBands) Next(v float64) BollingerBandsOutput {
	b.window = push(b.window, v, b.period)
	if flat(b.window) {
		return BollingerBandsOutput{Average: v, Upper: v, Lower: v}
	}
	n := len(b.window)
	upper, middle, lower := gctindicators.BBANDS(b.window, n, b.multiplier, b.multiplier, gctindicators.Sma)
	return BollingerBandsOutput{
		Average: middle[n-1],
		Upper:   upper[n-1],
		Lower:   lower[n-1],
	}
}

// Reset clears all history
func (b *BollingerBands) Reset() {
	b.window = b.window[:0]
}
