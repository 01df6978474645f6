package indicators

import (
	"fmt"

	gctindicators "github.com/thrasher-corp/gct-ta/indicators"
)

// NewMovingAverageConvergenceDivergence returns a streaming MACD
func NewMovingAverageConvergenceDivergence(fast, slow, signal int) (*MovingAverageConvergenceDivergence, error) {
	if fast <= 0 || slow <= 0 || signal <= 0 {
		return nil, fmt.Errorf("%w: macd periods %d/%d/%d", ErrInvalidParameter, fast, slow, signal)
	}
	if fast >= slow {
		return nil, fmt.Errorf("%w: macd fast period %d must be shorter than slow period %d",
			ErrInvalidParameter, fast, slow)
	}
	return &MovingAverageConvergenceDivergence{fast: fast, slow: slow, signal: signal}, nil
}

// WarmUp is the number of inputs needed before the first non-zero reading
func (m *MovingAverageConvergenceDivergence) WarmUp() int {
	return m.slow + m.signal - 1
}

// Next consumes one input and returns the MACD line, its signal and the
// histogram between them. The output is zero until WarmUp inputs have been
// seen and while every input has been the same.
func (m *MovingAverageConvergenceDivergence) Next(v float64) MACDOutput {
	if n := len(m.closes); n > 0 && v != m.closes[n-1] {
		m.varied = true
	}
	m.closes = append(m.closes, v)
	n := len(m.closes)
	// a flat history has equal averages, which seeding can lose to rounding
	if n < m.WarmUp() || !m.varied {
		return MACDOutput{}
	}
	macd, signal, histogram := gctindicators.MACD(m.closes, m.fast, m.slow, m.signal)
	return MACDOutput{MACD: macd[n-1], Signal: signal[n-1], Histogram: histogram[n-1]}
}

// Reset clears all history
func (m *MovingAverageConvergenceDivergence) Reset() {
	m.closes = m.closes[:0]
	m.varied = false
}
