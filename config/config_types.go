package config

import (
	"errors"

	"github.com/dgunay/techalyzer/database"
	"github.com/dgunay/techalyzer/datasource"
	"github.com/dgunay/techalyzer/log"
	"github.com/dgunay/techalyzer/ml/decisiontree"
	"github.com/dgunay/techalyzer/signals"
)

// Constants declared here are environment and file defaults
const (
	EnvPrefix             = "TECHALYZER"
	DefaultInitialCash    = 10000.0
	DefaultDeadZone       = 0.1
	DefaultModelFile      = "model.json"
	DefaultSQLiteDatabase = "techalyzer.db"
)

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid config")

// Config is the full application configuration
type Config struct {
	Symbol     string            `json:"symbol" mapstructure:"symbol"`
	StartDate  string            `json:"startDate" mapstructure:"startdate"`
	EndDate    string            `json:"endDate" mapstructure:"enddate"`
	DataSource datasource.Config `json:"dataSource" mapstructure:"datasource"`
	Backtest   BacktestConfig    `json:"backtest" mapstructure:"backtest"`
	Training   TrainingConfig    `json:"training" mapstructure:"training"`
	Logging    log.Config        `json:"logging" mapstructure:"logging"`
	Database   database.Config   `json:"database" mapstructure:"database"`
}

// BacktestConfig selects the trading model under test and its starting cash
type BacktestConfig struct {
	Model           string  `json:"model" mapstructure:"model"`
	InitialCash     float64 `json:"initialCash" mapstructure:"initialcash"`
	Shares          uint64  `json:"shares" mapstructure:"shares"`
	DeadZone        float64 `json:"deadZone" mapstructure:"deadzone"`
	Disposition     float64 `json:"disposition" mapstructure:"disposition"`
	RegimeWindow    int     `json:"regimeWindow" mapstructure:"regimewindow"`
	RegimeThreshold float64 `json:"regimeThreshold" mapstructure:"regimethreshold"`
	ModelPath       string  `json:"modelPath" mapstructure:"modelpath"`
	Output          string  `json:"output" mapstructure:"output"`
	Notes           string  `json:"notes" mapstructure:"notes"`
}

// TrainingConfig controls decision tree training
type TrainingConfig struct {
	StartDate  string           `json:"startDate" mapstructure:"startdate"`
	EndDate    string           `json:"endDate" mapstructure:"enddate"`
	Horizon    int              `json:"horizon" mapstructure:"horizon"`
	Threshold  float64          `json:"threshold" mapstructure:"threshold"`
	Shares     uint64           `json:"shares" mapstructure:"shares"`
	Generators []signals.Config `json:"generators" mapstructure:"generators"`
	Output     string           `json:"output" mapstructure:"output"`

	decisiontree.Hyperparameters `mapstructure:",squash"`
}
