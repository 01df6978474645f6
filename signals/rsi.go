package signals

import (
	"github.com/dgunay/techalyzer/indicators"
)

// RSIGenerator maps RSI 0 to a strong buy and RSI 100 to a strong sell
type RSIGenerator struct {
	cfg Config
	rsi *indicators.RelativeStrengthIndex
}

// NewRSI returns an RSI generator
func NewRSI(period int) (*RSIGenerator, error) {
	rsi, err := indicators.NewRelativeStrengthIndex(period)
	if err != nil {
		return nil, err
	}
	return &RSIGenerator{cfg: Config{Kind: RSI, Period: period}, rsi: rsi}, nil
}

// Next implements Generator
func (r *RSIGenerator) Next(price float64) (Signal, Output) {
	v := r.rsi.Next(price)
	return bounded(-((v / 50) - 1)), Output{LabelRSI: v}
}

// Reset implements Generator
func (r *RSIGenerator) Reset() {
	r.rsi.Reset()
}

// Config implements Generator
func (r *RSIGenerator) Config() Config {
	return r.cfg
}
