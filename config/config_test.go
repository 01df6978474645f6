package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dgunay/techalyzer/common"
	"github.com/dgunay/techalyzer/database"
	"github.com/dgunay/techalyzer/datasource"
	"github.com/dgunay/techalyzer/signals"
	"github.com/dgunay/techalyzer/trading/buyandhold"
	"github.com/dgunay/techalyzer/trading/dtmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	t.Parallel()
	c, err := Load(filepath.Join("testdata", "config.json"))
	require.NoError(t, err)
	assert.Equal(t, "JPM", c.Symbol)
	assert.Equal(t, datasource.KindCSV, c.DataSource.Kind)
	assert.Equal(t, "prices.csv", c.DataSource.Path)
	assert.Equal(t, datasource.DefaultRequestsPerMinute, c.DataSource.RequestsPerMinute)

	assert.Equal(t, "manual", c.Backtest.Model)
	assert.Equal(t, 5000.0, c.Backtest.InitialCash)
	assert.Equal(t, 0.2, c.Backtest.DeadZone)
	assert.Equal(t, -0.1, c.Backtest.Disposition)
	assert.Equal(t, 75, c.Backtest.RegimeWindow)
	assert.Equal(t, uint64(1000), c.Backtest.Shares)

	assert.Equal(t, 5, c.Training.Horizon)
	assert.Equal(t, dtmodel.DefaultDecisionThreshold, c.Training.Threshold)
	assert.Equal(t, 4, c.Training.MaxDepth)
	assert.Equal(t, 2, c.Training.MinSamplesSplit)
	require.Len(t, c.Training.Generators, 2)
	assert.Equal(t, signals.Config{Kind: signals.RSI, Period: 10}, c.Training.Generators[0])
	assert.Equal(t, signals.MACD, c.Training.Generators[1].Kind)

	require.NotNil(t, c.Logging.Enabled)
	assert.True(t, *c.Logging.Enabled)
	assert.Equal(t, "stderr", c.Logging.Output)
	assert.True(t, c.Database.Enabled)
	assert.Equal(t, ":memory:", c.Database.DSN)
	assert.NoError(t, c.Validate())

	top, err := c.DateRange()
	require.NoError(t, err)
	assert.Equal(t, common.Date(2020, time.January, 2), top.Start)
	training, err := c.Training.DateRange(top)
	require.NoError(t, err)
	assert.Equal(t, top.Start, training.Start)
	assert.Equal(t, common.Date(2020, time.June, 30), training.End)

	_, err = Load(filepath.Join("testdata", "missing.json"))
	assert.Error(t, err)
}

func TestDefaults(t *testing.T) {
	t.Parallel()
	c, err := Read(strings.NewReader("symbol: spy\n"), "yaml")
	require.NoError(t, err)
	assert.Equal(t, "spy", c.Symbol)
	assert.Equal(t, buyandhold.Name, c.Backtest.Model)
	assert.Equal(t, DefaultInitialCash, c.Backtest.InitialCash)
	assert.Equal(t, dtmodel.DefaultHorizon, c.Training.Horizon)
	assert.Equal(t, DefaultModelFile, c.Training.Output)
	assert.Equal(t, dtmodel.DefaultGenerators(), c.Training.Generators)
	assert.Equal(t, datasource.DefaultAlphaVantageURL, c.DataSource.BaseURL)
	assert.Equal(t, database.DBSQLite3, c.Database.Driver)
	assert.Equal(t, DefaultSQLiteDatabase, c.Database.DSN)
	assert.False(t, c.Database.Enabled)
	assert.Equal(t, "console", c.Logging.Output)
	assert.NoError(t, c.Validate())

	r, err := c.DateRange()
	require.NoError(t, err)
	assert.Equal(t, common.DateRange{}, r)

	_, err = Read(strings.NewReader("{"), "json")
	assert.Error(t, err)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("TECHALYZER_SYMBOL", "qqq")
	t.Setenv("TECHALYZER_BACKTEST_INITIALCASH", "2500.5")
	t.Setenv("TECHALYZER_DATASOURCE_APIKEY", "secret")
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "qqq", c.Symbol)
	assert.Equal(t, 2500.5, c.Backtest.InitialCash)
	assert.Equal(t, "secret", c.DataSource.APIKey)
}

func TestValidate(t *testing.T) {
	t.Parallel()
	c, err := Read(strings.NewReader(`{
		"startDate": "2020-02-01",
		"endDate": "2020-01-01",
		"dataSource": {"kind": "ftp"},
		"backtest": {"model": "astrology", "initialCash": -1, "deadZone": 2, "disposition": 3, "regimeWindow": -5},
		"training": {"horizon": 0, "threshold": -0.5},
		"database": {"enabled": true, "driver": "mysql"}
	}`), "json")
	require.NoError(t, err)
	err = c.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, common.ErrInvalidDateRange)
	assert.ErrorIs(t, err, datasource.ErrUnknownSource)
	for _, field := range []string{
		"symbol",
		"backtest.model",
		"backtest.initialcash",
		"backtest.deadzone",
		"backtest.disposition",
		"backtest.regimewindow",
		"training.horizon",
		"training.threshold",
		"database.driver",
	} {
		assert.ErrorContains(t, err, field)
	}

	c.StartDate = "not a date"
	assert.ErrorIs(t, c.Validate(), common.ErrInvalidDate)
}
