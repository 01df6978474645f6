package signals

import (
	"github.com/dgunay/techalyzer/indicators"
)

// BollingerBandsGenerator signals on %B: a price at the lower band is a
// strong buy, at the upper band a strong sell
type BollingerBandsGenerator struct {
	cfg   Config
	bands *indicators.BollingerBands
}

// NewBollingerBands returns a %B generator
func NewBollingerBands(period int, multiplier float64) (*BollingerBandsGenerator, error) {
	bands, err := indicators.NewBollingerBands(period, multiplier)
	if err != nil {
		return nil, err
	}
	return &BollingerBandsGenerator{
		cfg:   Config{Kind: BollingerBands, Period: period, Multiplier: multiplier},
		bands: bands,
	}, nil
}

// Next implements Generator
func (b *BollingerBandsGenerator) Next(price float64) (Signal, Output) {
	o := b.bands.Next(price)
	var raw float64
	if width := o.Upper - o.Lower; width != 0 {
		percentB := (price - o.Lower) / width
		raw = -(2 * (percentB - 0.5))
	}
	return Clamp(raw), Output{
		LabelUpper:   o.Upper,
		LabelLower:   o.Lower,
		LabelAverage: o.Average,
	}
}

// Reset implements Generator
func (b *BollingerBandsGenerator) Reset() {
	b.bands.Reset()
}

// Config implements Generator
func (b *BollingerBandsGenerator) Config() Config {
	return b.cfg
}
