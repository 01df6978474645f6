package signals

import (
	"errors"
)

// Kind names a signal generator implementation
type Kind string

// Supported generator kinds
const (
	BollingerBands Kind = "bollingerbands"
	RSI            Kind = "rsi"
	MACD           Kind = "macd"
	SMACrossover   Kind = "smacrossover"
)

// Output labels
const (
	LabelUpper     = "upper"
	LabelLower     = "lower"
	LabelAverage   = "average"
	LabelRSI       = "rsi"
	LabelMACD      = "macd"
	LabelSignal    = "signal"
	LabelHistogram = "histogram"
	LabelFast      = "fast"
	LabelSlow      = "slow"
)

// Default generator parameters
const (
	DefaultBollingerPeriod     = 20
	DefaultBollingerMultiplier = 2.0
	DefaultRSIPeriod           = 14
	DefaultMACDFast            = 12
	DefaultMACDSlow            = 26
	DefaultMACDSignal          = 9
	DefaultCrossoverFast       = 50
	DefaultCrossoverSlow       = 200
	DefaultCrossoverSlopeScale = 5.0
)

var (
	// ErrOutOfRange is returned when a raw value lies outside [-1, 1]
	ErrOutOfRange = errors.New("signal out of range")
	// ErrUnknownGenerator is returned for an unrecognised Kind
	ErrUnknownGenerator = errors.New("unknown signal generator")
	// ErrEqualWindows is returned when a crossover uses the same window twice
	ErrEqualWindows = errors.New("fast and slow windows must differ")
)

// Signal is a trading opinion in [-1, 1]: -1 strong sell, 1 strong buy
type Signal float64

// Output is the per step indicator readings keyed by label
type Output map[string]float64

// Generator consumes one price per trading day and returns a signal plus the
// indicator readings it was derived from
type Generator interface {
	Next(price float64) (Signal, Output)
	Reset()
	Config() Config
}

// Config fully describes a generator so it can be rebuilt
type Config struct {
	Kind       Kind    `json:"kind" mapstructure:"kind"`
	Period     int     `json:"period,omitempty" mapstructure:"period"`
	Multiplier float64 `json:"multiplier,omitempty" mapstructure:"multiplier"`
	Fast       int     `json:"fast,omitempty" mapstructure:"fast"`
	Slow       int     `json:"slow,omitempty" mapstructure:"slow"`
	Signal     int     `json:"signal,omitempty" mapstructure:"signal"`
	SlopeScale float64 `json:"slope_scale,omitempty" mapstructure:"slopescale"`
}
