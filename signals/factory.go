package signals

import (
	"fmt"
	"strings"
)

// DefaultConfig returns the stock parameters for kind
func DefaultConfig(kind Kind) (Config, error) {
	switch kind {
	case BollingerBands:
		return Config{Kind: kind, Period: DefaultBollingerPeriod, Multiplier: DefaultBollingerMultiplier}, nil
	case RSI:
		return Config{Kind: kind, Period: DefaultRSIPeriod}, nil
	case MACD:
		return Config{Kind: kind, Fast: DefaultMACDFast, Slow: DefaultMACDSlow, Signal: DefaultMACDSignal}, nil
	case SMACrossover:
		return Config{Kind: kind, Fast: DefaultCrossoverFast, Slow: DefaultCrossoverSlow, SlopeScale: DefaultCrossoverSlopeScale}, nil
	}
	return Config{}, fmt.Errorf("%w %q", ErrUnknownGenerator, kind)
}

// ParseKind maps a user supplied name, including common aliases, to a Kind
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bollingerbands", "bollinger", "bb":
		return BollingerBands, nil
	case "rsi", "relativestrengthindex":
		return RSI, nil
	case "macd":
		return MACD, nil
	case "smacrossover", "sma", "crossover":
		return SMACrossover, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownGenerator, name)
}

// withDefaults fills zero parameters from DefaultConfig
func (c Config) withDefaults() (Config, error) {
	def, err := DefaultConfig(c.Kind)
	if err != nil {
		return Config{}, err
	}
	if c.Period == 0 {
		c.Period = def.Period
	}
	if c.Multiplier == 0 {
		c.Multiplier = def.Multiplier
	}
	if c.Fast == 0 {
		c.Fast = def.Fast
	}
	if c.Slow == 0 {
		c.Slow = def.Slow
	}
	if c.Signal == 0 {
		c.Signal = def.Signal
	}
	if c.SlopeScale == 0 {
		c.SlopeScale = def.SlopeScale
	}
	return c, nil
}

// NewGenerator builds a fresh generator from cfg. Zero parameters take the
// defaults for the kind.
func NewGenerator(cfg Config) (Generator, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	switch cfg.Kind {
	case BollingerBands:
		return NewBollingerBands(cfg.Period, cfg.Multiplier)
	case RSI:
		return NewRSI(cfg.Period)
	case MACD:
		return NewMACD(cfg.Fast, cfg.Slow, cfg.Signal)
	case SMACrossover:
		return NewSMACrossover(cfg.Fast, cfg.Slow, cfg.SlopeScale)
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownGenerator, cfg.Kind)
}

// NewGenerators builds one generator per config, in order
func NewGenerators(cfgs []Config) ([]Generator, error) {
	out := make([]Generator, len(cfgs))
	for i := range cfgs {
		g, err := NewGenerator(cfgs[i])
		if err != nil {
			return nil, fmt.Errorf("generator %d: %w", i, err)
		}
		out[i] = g
	}
	return out, nil
}

// Configs returns the config of every generator, in order
func Configs(gens []Generator) []Config {
	out := make([]Config, len(gens))
	for i := range gens {
		out[i] = gens[i].Config()
	}
	return out
}

// ResetAll resets every generator
func ResetAll(gens []Generator) {
	for i := range gens {
		gens[i].Reset()
	}
}
