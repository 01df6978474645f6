package engine

import (
	"errors"

	"github.com/dgunay/techalyzer/config"
	"github.com/dgunay/techalyzer/database"
	"github.com/dgunay/techalyzer/datasource"
)

var (
	// ErrUnknownModel is returned for a trading model name that is not registered
	ErrUnknownModel = errors.New("unknown trading model")
	// ErrNoModelPath is returned when a decision tree backtest has no model file
	ErrNoModelPath = errors.New("a trained model file is required")
	// ErrNoTrainingDates is returned when no training date has look ahead data
	ErrNoTrainingDates = errors.New("no usable training dates")
	// ErrDatabaseDisabled is returned when run history is requested without a database
	ErrDatabaseDisabled = errors.New("database is not enabled")
	errNilConfig        = errors.New("engine: config is nil")
	errNilEngine        = errors.New("engine instance is nil")
)

// Engine wires configuration, the price source, the trading models and the
// optional run store together
type Engine struct {
	Config *config.Config
	Source datasource.Source
	DB     *database.DB
}
