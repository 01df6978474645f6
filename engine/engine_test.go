package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dgunay/techalyzer/common"
	"github.com/dgunay/techalyzer/config"
	"github.com/dgunay/techalyzer/marketdata"
	"github.com/dgunay/techalyzer/signals"
	"github.com/dgunay/techalyzer/trading/buyandhold"
	"github.com/dgunay/techalyzer/trading/dtmodel"
	"github.com/dgunay/techalyzer/trading/manual"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const totalDays = 160

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c, err := config.Read(strings.NewReader(`{"symbol": "jpm"}`), "json")
	require.NoError(t, err)
	c.DataSource.Path = filepath.Join("testdata", "prices.csv")
	c.Training.Output = ""
	return c
}

func testEngine(t *testing.T, c *config.Config) *Engine {
	t.Helper()
	bot, err := New(context.Background(), c)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, bot.Stop()) })
	return bot
}

func TestNew(t *testing.T) {
	t.Parallel()
	_, err := New(context.Background(), nil)
	assert.ErrorIs(t, err, errNilConfig)

	c := testConfig(t)
	c.Symbol = ""
	_, err = New(context.Background(), c)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	c = testConfig(t)
	c.DataSource.Path = "prices.parquet"
	_, err = New(context.Background(), c)
	assert.Error(t, err)

	var bot *Engine
	assert.ErrorIs(t, bot.Stop(), errNilEngine)
}

func TestLoadPrices(t *testing.T) {
	t.Parallel()
	c := testConfig(t)
	c.StartDate = "2020-02-03"
	c.EndDate = "2020-02-07"
	bot := testEngine(t, c)
	prices, err := bot.LoadPrices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, prices.Len())
	first, ok := prices.First()
	require.True(t, ok)
	assert.Equal(t, common.Date(2020, time.February, 3), first.Date)
}

func TestSignals(t *testing.T) {
	t.Parallel()
	bot := testEngine(t, testConfig(t))
	report, err := bot.Signals(context.Background(), "RSI")
	require.NoError(t, err)
	assert.Equal(t, signals.RSI, report.Indicator.Kind)
	assert.Len(t, report.Map, totalDays)
	for date, day := range report.Map {
		assert.LessOrEqual(t, float64(day.Signal), 1.0, date)
		assert.GreaterOrEqual(t, float64(day.Signal), -1.0, date)
	}

	_, err = bot.Signals(context.Background(), "astrology")
	assert.ErrorIs(t, err, signals.ErrUnknownGenerator)
}

func TestLoadModel(t *testing.T) {
	t.Parallel()
	c := testConfig(t)
	c.Backtest.RegimeWindow = 20
	bot := testEngine(t, c)

	m, err := bot.LoadModel("")
	require.NoError(t, err)
	assert.Equal(t, buyandhold.Name, m.Name())

	m, err = bot.LoadModel("Manual")
	require.NoError(t, err)
	mm, ok := m.(*manual.Model)
	require.True(t, ok)
	assert.Equal(t, 20, mm.RegimeWindow)

	_, err = bot.LoadModel(dtmodel.Name)
	assert.ErrorIs(t, err, ErrNoModelPath)
	_, err = bot.LoadModel("coinflip")
	assert.ErrorIs(t, err, ErrUnknownModel)
}

func TestBacktestSavesRun(t *testing.T) {
	t.Parallel()
	c := testConfig(t)
	c.Database.Enabled = true
	c.Database.DSN = ":memory:"
	c.Backtest.Notes = "smoke"
	bot := testEngine(t, c)
	ctx := context.Background()

	report, err := bot.Backtest(ctx, buyandhold.Name)
	require.NoError(t, err)
	assert.Equal(t, "jpm", report.Symbol)
	assert.Len(t, report.Valuations, totalDays)
	assert.Equal(t, c.Backtest.InitialCash, float64(report.Valuations["2020-01-01"]))

	runs, err := bot.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, buyandhold.Name, runs[0].Model)
	assert.Equal(t, "smoke", runs[0].Notes.String)
	assert.False(t, runs[0].ModelPath.Valid)
	assert.False(t, runs[0].Accuracy.Valid, "buy and hold never closes a trade")

	vals, err := bot.DB.Valuations(ctx, runs[0].ID)
	require.NoError(t, err)
	require.Len(t, vals, totalDays)
	assert.Equal(t, "Long(1000)", vals[0].Position)
	assert.Equal(t, "Long(1000)", vals[1].Position)

	plain := testEngine(t, testConfig(t))
	_, err = plain.Runs(ctx)
	assert.ErrorIs(t, err, ErrDatabaseDisabled)
}

func TestTrainBacktestSuggest(t *testing.T) {
	t.Parallel()
	c := testConfig(t)
	c.Training.EndDate = "2020-05-29"
	c.Training.Output = filepath.Join(t.TempDir(), "model.json")
	c.Backtest.ModelPath = c.Training.Output
	bot := testEngine(t, c)
	ctx := context.Background()

	trained, err := bot.Train(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, trained.Classes())
	_, err = os.Stat(c.Training.Output)
	require.NoError(t, err)

	report, err := bot.Backtest(ctx, dtmodel.Name)
	require.NoError(t, err)
	assert.Equal(t, dtmodel.Name, report.Model)
	assert.Equal(t, totalDays, report.Trades.Len())

	s, err := bot.Suggest(ctx, dtmodel.Name)
	require.NoError(t, err)
	assert.Equal(t, common.Date(2020, time.August, 11), s.Date)

	again, err := bot.Train(ctx)
	require.NoError(t, err)
	first, err := trained.GetTrades(mustPrices(t, bot))
	require.NoError(t, err)
	second, err := again.GetTrades(mustPrices(t, bot))
	require.NoError(t, err)
	assert.Equal(t, first.Entries(), second.Entries())
}

func mustPrices(t *testing.T, bot *Engine) *marketdata.Prices {
	t.Helper()
	p, err := bot.LoadPrices(context.Background())
	require.NoError(t, err)
	return p
}

func TestTrainWithoutLookAhead(t *testing.T) {
	t.Parallel()
	c := testConfig(t)
	c.Training.StartDate = "2020-08-01"
	bot := testEngine(t, c)
	_, err := bot.Train(context.Background())
	assert.ErrorIs(t, err, ErrNoTrainingDates)
}
