// Package config loads techalyzer settings from a file and TECHALYZER_
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgunay/techalyzer/common"
	"github.com/dgunay/techalyzer/database"
	"github.com/dgunay/techalyzer/datasource"
	"github.com/dgunay/techalyzer/log"
	"github.com/dgunay/techalyzer/trading/buyandhold"
	"github.com/dgunay/techalyzer/trading/dtmodel"
	"github.com/dgunay/techalyzer/trading/manual"
	"github.com/kat-co/vala"
	"github.com/spf13/viper"
)

// Models lists the trading model names a backtest may select
var Models = []string{buyandhold.Name, manual.Name, dtmodel.Name}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("symbol", "")
	v.SetDefault("startdate", "")
	v.SetDefault("enddate", "")

	v.SetDefault("datasource.kind", "")
	v.SetDefault("datasource.path", "")
	v.SetDefault("datasource.apikey", "")
	v.SetDefault("datasource.baseurl", datasource.DefaultAlphaVantageURL)
	v.SetDefault("datasource.requestsperminute", datasource.DefaultRequestsPerMinute)
	v.SetDefault("datasource.cachesize", datasource.DefaultCacheSize)

	v.SetDefault("backtest.model", buyandhold.Name)
	v.SetDefault("backtest.initialcash", DefaultInitialCash)
	v.SetDefault("backtest.shares", manual.DefaultShares)
	v.SetDefault("backtest.deadzone", DefaultDeadZone)
	v.SetDefault("backtest.disposition", 0.0)
	v.SetDefault("backtest.regimewindow", 0)
	v.SetDefault("backtest.regimethreshold", 0.0)
	v.SetDefault("backtest.modelpath", "")
	v.SetDefault("backtest.output", "")
	v.SetDefault("backtest.notes", "")

	v.SetDefault("training.startdate", "")
	v.SetDefault("training.enddate", "")
	v.SetDefault("training.horizon", dtmodel.DefaultHorizon)
	v.SetDefault("training.threshold", dtmodel.DefaultDecisionThreshold)
	v.SetDefault("training.shares", dtmodel.DefaultShares)
	v.SetDefault("training.output", DefaultModelFile)
	v.SetDefault("training.maxdepth", 0)
	v.SetDefault("training.minsamplessplit", 2)
	v.SetDefault("training.minsamplesleaf", 1)

	v.SetDefault("logging.enabled", true)
	v.SetDefault("logging.level", "INFO|WARN|ERROR")
	v.SetDefault("logging.output", "console")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.driver", database.DBSQLite3)
	v.SetDefault("database.dsn", DefaultSQLiteDatabase)
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	c.CheckConfig()
	return c, nil
}

// Load reads the file at path, which may be JSON or YAML, over the defaults.
// An empty path uses the defaults and the environment only.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config %s: %w", path, err)
		}
		log.Debugf(log.ConfigMgr, "loaded %s", filepath.Base(path))
	}
	return decode(v)
}

// Read parses a config of the given format ("json", "yaml") from r
func Read(r io.Reader, format string) (*Config, error) {
	v := newViper()
	v.SetConfigType(format)
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config %w", err)
	}
	return decode(v)
}

// CheckConfig fills in values a config file may leave out
func (c *Config) CheckConfig() {
	if c.Logging.Enabled == nil || c.Logging.Output == "" {
		c.Logging = log.GenDefaultSettings()
	}
	if len(c.Training.Generators) == 0 {
		c.Training.Generators = dtmodel.DefaultGenerators()
	}
	if c.Database.Driver == "" {
		c.Database.Driver = database.DBSQLite3
	}
	if c.Database.DSN == "" && c.Database.Driver == database.DBSQLite3 {
		c.Database.DSN = DefaultSQLiteDatabase
	}
}

// SetupLogging applies the logging section to every sub logger
func (c *Config) SetupLogging() error {
	return log.SetupGlobalLogger(&c.Logging)
}

func parseRange(start, end string) (common.DateRange, error) {
	var r common.DateRange
	var err error
	if start != "" {
		if r.Start, err = common.ParseDate(start); err != nil {
			return r, err
		}
	}
	if end != "" {
		if r.End, err = common.ParseDate(end); err != nil {
			return r, err
		}
	}
	return r, r.Validate()
}

// DateRange is the span prices are loaded and backtested over
func (c *Config) DateRange() (common.DateRange, error) {
	return parseRange(c.StartDate, c.EndDate)
}

// DateRange is the span of training dates. Unset ends fall back to the
// top level range.
func (t *TrainingConfig) DateRange(fallback common.DateRange) (common.DateRange, error) {
	r, err := parseRange(t.StartDate, t.EndDate)
	if err != nil {
		return r, err
	}
	if r.Start.IsZero() {
		r.Start = fallback.Start
	}
	if r.End.IsZero() {
		r.End = fallback.End
	}
	return r, r.Validate()
}

func within(v, lower, upper float64, name string) vala.Checker {
	return func() (bool, string) {
		return v >= lower && v <= upper, fmt.Sprintf("%s must be within [%v, %v], got %v", name, lower, upper, v)
	}
}

func positive(v float64, name string) vala.Checker {
	return func() (bool, string) {
		return v > 0, fmt.Sprintf("%s must be positive, got %v", name, v)
	}
}

func oneOf(v string, allowed []string, name string) vala.Checker {
	return func() (bool, string) {
		for i := range allowed {
			if strings.EqualFold(v, allowed[i]) {
				return true, ""
			}
		}
		return false, fmt.Sprintf("%s must be one of %v, got %q", name, allowed, v)
	}
}

func check(ok bool, msg string) vala.Checker {
	return func() (bool, string) {
		return ok, msg
	}
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var errs error
	top, err := c.DateRange()
	if err != nil {
		errs = errors.Join(errs, err)
	}
	if _, err := c.Training.DateRange(top); err != nil {
		errs = errors.Join(errs, err)
	}
	if c.DataSource.Kind != "" {
		if _, err := datasource.ParseKind(string(c.DataSource.Kind)); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	err = vala.BeginValidation().Validate(
		vala.StringNotEmpty(c.Symbol, "symbol"),
		oneOf(c.Backtest.Model, Models, "backtest.model"),
		positive(c.Backtest.InitialCash, "backtest.initialcash"),
		within(c.Backtest.DeadZone, 0, 1, "backtest.deadzone"),
		within(c.Backtest.Disposition, -1, 1, "backtest.disposition"),
		vala.GreaterThan(c.Training.Horizon, 0, "training.horizon"),
		within(c.Training.Threshold, 0, 1, "training.threshold"),
		check(c.Backtest.RegimeWindow >= 0, "backtest.regimewindow must not be negative"),
		check(!c.Database.Enabled || c.Database.DSN != "", "database.dsn is required when the database is enabled"),
		oneOf(c.Database.Driver, []string{database.DBSQLite3, database.DBPostgres}, "database.driver"),
	).Check()
	if err != nil {
		errs = errors.Join(errs, err)
	}
	if errs != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errs)
	}
	return nil
}
