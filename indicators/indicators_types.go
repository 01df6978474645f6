package indicators

import "errors"

// ErrInvalidParameter is returned when an indicator is built with a
// non-positive period or multiplier
var ErrInvalidParameter = errors.New("invalid indicator parameter")

// Regime classifies recent price action
type Regime uint8

// Market regimes reported by RegimeDetector
const (
	RegimeUnknown Regime = iota
	RegimeTrending
	RegimeOscillating
)

// SimpleMovingAverage is the unweighted mean of the last Period inputs. Until
// Period inputs have been seen the mean covers the inputs so far.
type SimpleMovingAverage struct {
	period int
	window []float64
}

// BollingerBands are an average band plus upper and lower bands Multiplier
// population standard deviations away
type BollingerBands struct {
	period     int
	multiplier float64
	window     []float64
}

// BollingerBandsOutput is one step of BollingerBands
type BollingerBandsOutput struct {
	Average float64
	Upper   float64
	Lower   float64
}

// RelativeStrengthIndex measures the ratio of smoothed gains to smoothed
// movement on a 0-100 scale. Wilder smoothing depends on every close, so the
// full history is kept.
type RelativeStrengthIndex struct {
	period int
	closes []float64
	gained bool
	lost   bool
}

// MovingAverageConvergenceDivergence tracks the spread between a fast and
// slow EMA and a signal EMA of that spread
type MovingAverageConvergenceDivergence struct {
	fast   int
	slow   int
	signal int
	closes []float64
	varied bool
}

// MACDOutput is one step of MovingAverageConvergenceDivergence
type MACDOutput struct {
	MACD      float64
	Signal    float64
	Histogram float64
}

// RegimeDetector decides whether recent prices are trending or oscillating
// from the slope of a simple moving average over a rolling window
type RegimeDetector struct {
	window    int
	threshold float64
	prices    []float64
}
