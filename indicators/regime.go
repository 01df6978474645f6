package indicators

import (
	"fmt"
	"math"

	gctmath "github.com/dgunay/techalyzer/common/math"
	gctindicators "github.com/thrasher-corp/gct-ta/indicators"
)

// DefaultRegimeThreshold is the normalised SMA slope at or above which the
// market is considered trending
const DefaultRegimeThreshold = 0.4

// NewRegimeDetector returns a detector comparing the last two SMA(window)
// readings. A threshold of zero selects DefaultRegimeThreshold.
func NewRegimeDetector(window int, threshold float64) (*RegimeDetector, error) {
	if window <= 0 {
		return nil, fmt.Errorf("%w: regime window %d", ErrInvalidParameter, window)
	}
	if threshold < 0 || threshold > 1 || math.IsNaN(threshold) {
		return nil, fmt.Errorf("%w: regime threshold %v", ErrInvalidParameter, threshold)
	}
	if threshold == 0 {
		threshold = DefaultRegimeThreshold
	}
	return &RegimeDetector{window: window, threshold: threshold}, nil
}

// Next consumes one close and returns the regime. RegimeUnknown is returned
// until window+1 closes have been seen.
func (r *RegimeDetector) Next(price float64) Regime {
	r.prices = push(r.prices, price, r.window+1)
	if len(r.prices) < r.window+1 {
		return RegimeUnknown
	}
	sma := gctindicators.SMA(r.prices, r.window)
	if len(sma) < 2 {
		return RegimeUnknown
	}
	prev, last := sma[len(sma)-2], sma[len(sma)-1]
	if prev == 0 {
		return RegimeUnknown
	}
	slope := gctmath.Slope(gctmath.PercentChange(prev, last)*100, 1)
	if math.Abs(slope) >= r.threshold {
		return RegimeTrending
	}
	return RegimeOscillating
}

// Reset clears all history
func (r *RegimeDetector) Reset() {
	r.prices = r.prices[:0]
}

// String implements fmt.Stringer
func (r Regime) String() string {
	switch r {
	case RegimeTrending:
		return "trending"
	case RegimeOscillating:
		return "oscillating"
	default:
		return "unknown"
	}
}
