package database

import (
	"database/sql"
	"errors"
	"time"

	"github.com/gofrs/uuid"
	"github.com/volatiletech/null"
)

// Supported drivers
const (
	DBSQLite3  = "sqlite3"
	DBPostgres = "postgres"
)

var (
	// ErrUnsupportedDriver is returned for a driver other than sqlite3 or postgres
	ErrUnsupportedDriver = errors.New("unsupported database driver")
	// ErrNoDSN is returned when no data source name is configured
	ErrNoDSN = errors.New("database dsn is required")
	// ErrRunNotFound is returned when no run has the requested id
	ErrRunNotFound = errors.New("backtest run not found")
	errNilDB       = errors.New("nil database")
	errNilRun      = errors.New("nil run")
)

// Config selects the database backing run history
type Config struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Driver  string `json:"driver" mapstructure:"driver"`
	DSN     string `json:"dsn" mapstructure:"dsn"`
}

// DB is an open run store
type DB struct {
	SQL    *sql.DB
	driver string
}

// Run is one stored backtest. Figures that were not finite are stored as
// NULL.
type Run struct {
	ID          uuid.UUID
	Symbol      string
	Model       string
	Start       time.Time
	End         time.Time
	InitialCash float64
	TotalReturn null.Float64
	Volatility  null.Float64
	Accuracy    null.Float64
	SharpeRatio null.Float64
	MaxDrawdown null.Float64
	ModelPath   null.String
	Notes       null.String
	CreatedAt   time.Time
}

// Valuation is the portfolio value and position held on one day of a run
type Valuation struct {
	Date     time.Time
	Value    float64
	Position string
}
