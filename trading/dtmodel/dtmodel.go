// Package dtmodel learns from indicator signals whether prices tend to rise,
// fall or stay flat over a fixed horizon, and trades on that prediction.
package dtmodel

import (
	"fmt"
	"sort"
	"time"

	"github.com/dgunay/techalyzer/common"
	"github.com/dgunay/techalyzer/log"
	"github.com/dgunay/techalyzer/marketdata"
	"github.com/dgunay/techalyzer/ml/decisiontree"
	"github.com/dgunay/techalyzer/signals"
	"github.com/dgunay/techalyzer/trading"
)

// DefaultGenerators lists the generator configs used when none are supplied
func DefaultGenerators() []signals.Config {
	out := make([]signals.Config, 0, 3)
	for _, k := range []signals.Kind{signals.MACD, signals.RSI, signals.BollingerBands} {
		cfg, _ := signals.DefaultConfig(k)
		out = append(out, cfg)
	}
	return out
}

// New returns an untrained model. Zero shares selects DefaultShares.
func New(generators []signals.Generator, shares uint64, params decisiontree.Hyperparameters) (*Model, error) {
	if len(generators) == 0 {
		return nil, ErrNoSignalGenerators
	}
	if shares == 0 {
		shares = DefaultShares
	}
	return &Model{generators: generators, shares: shares, params: params}, nil
}

// NewFromConfigs builds the generators from configs and returns an untrained
// model
func NewFromConfigs(cfgs []signals.Config, shares uint64, params decisiontree.Hyperparameters) (*Model, error) {
	if len(cfgs) == 0 {
		return nil, ErrNoSignalGenerators
	}
	gens, err := signals.NewGenerators(cfgs)
	if err != nil {
		return nil, err
	}
	return New(gens, shares, params)
}

// label classifies the forward return from price to future
func label(price, future, threshold float64) float64 {
	ret := future/price - 1
	switch {
	case ret >= threshold:
		return classLong
	case ret <= -threshold:
		return classShort
	}
	return classOut
}

func features(gens []signals.Generator, price float64) []float64 {
	row := make([]float64, len(gens))
	for i := range gens {
		s, _ := gens[i].Next(price)
		row[i] = s.Float()
	}
	return row
}

// Train builds one sample per training date: the generators' signals on that
// date as features and, as the label, whether the close horizon trading days
// later is up by at least threshold, down by at least threshold or neither.
// Generators are reset first so training is repeatable.
func (m *Model) Train(prices *marketdata.Prices, dates []time.Time, horizon int, threshold float64) (*TrainedModel, error) {
	if horizon < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHorizon, horizon)
	}
	ordered := make([]time.Time, len(dates))
	copy(ordered, dates)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Before(ordered[j]) })

	signals.ResetAll(m.generators)
	x := make([][]float64, 0, len(ordered))
	y := make([]float64, 0, len(ordered))
	for _, d := range ordered {
		price, ok := prices.Get(d)
		if !ok {
			return nil, fmt.Errorf("%w on %s", ErrNoPriceFound, common.FormatDate(d))
		}
		future, ok := prices.GetAfter(d, horizon)
		if !ok {
			return nil, fmt.Errorf("%w: %d days after %s", ErrNoLookAheadPriceData, horizon, common.FormatDate(d))
		}
		x = append(x, features(m.generators, price))
		y = append(y, label(price, future.Value, threshold))
	}

	clf := decisiontree.NewOneVsRest(m.params)
	if err := clf.Fit(x, y); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTraining, err)
	}
	log.Debugf(log.Trading, "%s trained on %d samples, %d features, classes %v",
		prices.Symbol, len(x), len(m.generators), clf.Classes)

	gens, err := signals.NewGenerators(signals.Configs(m.generators))
	if err != nil {
		return nil, err
	}
	return &TrainedModel{classifier: clf, generators: gens, shares: m.shares}, nil
}

// Name implements trading.Model
func (t *TrainedModel) Name() string {
	return Name
}

// Shares returns the position size
func (t *TrainedModel) Shares() uint64 {
	return t.shares
}

// Generators returns the ordered feature generator configs
func (t *TrainedModel) Generators() []signals.Config {
	return signals.Configs(t.generators)
}

// Classes returns the labels the classifier learned
func (t *TrainedModel) Classes() []float64 {
	return append([]float64(nil), t.classifier.Classes...)
}

func (t *TrainedModel) position(class float64) (trading.Position, error) {
	switch class {
	case classLong:
		return trading.Long(t.shares), nil
	case classShort:
		return trading.Short(t.shares), nil
	case classOut:
		return trading.Out(), nil
	}
	return trading.Position{}, fmt.Errorf("%w: class %v", ErrInvalidPrediction, class)
}

// GetTrades implements trading.Model. Generators are reset first so trades
// never depend on earlier use of the model.
func (t *TrainedModel) GetTrades(prices *marketdata.Prices) (*trading.Trades, error) {
	signals.ResetAll(t.generators)
	trades := trading.NewTrades()
	err := prices.Each(func(date time.Time, price float64) error {
		class, err := t.classifier.PredictRow(features(t.generators, price))
		if err != nil {
			return fmt.Errorf("%w on %s: %w", ErrPrediction, common.FormatDate(date), err)
		}
		p, err := t.position(class)
		if err != nil {
			return err
		}
		trades.Set(date, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return trades, nil
}
