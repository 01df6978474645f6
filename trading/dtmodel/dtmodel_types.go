package dtmodel

import (
	"errors"

	"github.com/dgunay/techalyzer/ml/decisiontree"
	"github.com/dgunay/techalyzer/signals"
)

// Name is the model's registered name
const Name = "decisiontree"

// Defaults
const (
	DefaultShares            uint64  = 1000
	DefaultHorizon                   = 10
	DefaultDecisionThreshold float64 = 0.03

	persistVersion = 1
)

// Class labels the classifier learns
const (
	classShort = -1.0
	classOut   = 0.0
	classLong  = 1.0
)

var (
	// ErrNoSignalGenerators is returned when a model has no features
	ErrNoSignalGenerators = errors.New("at least one signal generator is required")
	// ErrInvalidHorizon is returned for a look ahead of less than one day
	ErrInvalidHorizon = errors.New("horizon must be at least one trading day")
	// ErrNoPriceFound is returned when a training date has no price
	ErrNoPriceFound = errors.New("no price found")
	// ErrNoLookAheadPriceData is returned when a training date has no price
	// horizon trading days later
	ErrNoLookAheadPriceData = errors.New("no look ahead price data")
	// ErrTraining wraps classifier training failures
	ErrTraining = errors.New("training failed")
	// ErrPrediction wraps classifier prediction failures
	ErrPrediction = errors.New("prediction failed")
	// ErrInvalidPrediction is returned when the classifier yields an unknown class
	ErrInvalidPrediction = errors.New("invalid prediction")
	// ErrInvalidModelFile is returned when persisted state is inconsistent
	ErrInvalidModelFile = errors.New("invalid model file")
)

// Model is an untrained decision tree trading model. Its ordered generators
// define the feature vector.
type Model struct {
	generators []signals.Generator
	shares     uint64
	params     decisiontree.Hyperparameters
}

// TrainedModel is a fitted classifier plus the generators and share count it
// was trained with. It is the only form that can produce trades.
type TrainedModel struct {
	classifier *decisiontree.OneVsRest
	generators []signals.Generator
	shares     uint64
}

// persisted is the on disk form of a TrainedModel
type persisted struct {
	Version    int                     `json:"version"`
	Shares     uint64                  `json:"shares"`
	Generators []signals.Config        `json:"generators"`
	Classifier *decisiontree.OneVsRest `json:"classifier"`
}
