package indicators

import (
	"fmt"

	gctindicators "github.com/thrasher-corp/gct-ta/indicators"
)

// NeutralRSI is reported while there is no reading to take a side on
const NeutralRSI = 50

// NewRelativeStrengthIndex returns a streaming Wilder RSI over period changes
func NewRelativeStrengthIndex(period int) (*RelativeStrengthIndex, error) {
	if period < 2 {
		return nil, fmt.Errorf("%w: rsi period %d must be at least 2", ErrInvalidParameter, period)
	}
	return &RelativeStrengthIndex{period: period}, nil
}

// Next consumes one input and returns the RSI in [0, 100]. NeutralRSI is
// returned until period changes have been seen and whenever the smoothed
// movement has died out.
func (r *RelativeStrengthIndex) Next(v float64) float64 {
	if n := len(r.closes); n > 0 {
		switch prev := r.closes[n-1]; {
		case v > prev:
			r.gained = true
		case v < prev:
			r.lost = true
		}
	}
	r.closes = append(r.closes, v)
	if len(r.closes) <= r.period {
		return NeutralRSI
	}
	rsi := gctindicators.RSI(r.closes, r.period)
	last := rsi[len(rsi)-1]
	// gct-ta reports 0 both for an all-loss history and for no movement
	if last == 0 && (r.gained || !r.lost) {
		return NeutralRSI
	}
	return last
}

// Reset clears all history
func (r *RelativeStrengthIndex) Reset() {
	r.closes = r.closes[:0]
	r.gained, r.lost = false, false
}
