package indicators

import (
	"fmt"

	gctindicators "github.com/thrasher-corp/gct-ta/indicators"
)

// NewSimpleMovingAverage returns a streaming SMA over period inputs
func NewSimpleMovingAverage(period int) (*SimpleMovingAverage, error) {
	if period <= 0 {
		return nil, fmt.Errorf("%w: sma period %d", ErrInvalidParameter, period)
	}
	return &SimpleMovingAverage{period: period, window: make([]float64, 0, period)}, nil
}

// Next consumes one input and returns the current average
func (s *SimpleMovingAverage) Next(v float64) float64 {
	s.window = push(s.window, v, s.period)
	if flat(s.window) {
		return v
	}
	n := len(s.window)
	return gctindicators.SMA(s.window, n)[n-1]
}

// Reset clears all history
func (s *SimpleMovingAverage) Reset() {
	s.window = s.window[:0]
}

// Period returns the window length
func (s *SimpleMovingAverage) Period() int {
	return s.period
}
