// Package engine runs the techalyzer workflows: signal reports, training,
// backtests and suggestions.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dgunay/techalyzer/backtester"
	"github.com/dgunay/techalyzer/backtester/performance"
	"github.com/dgunay/techalyzer/common"
	"github.com/dgunay/techalyzer/config"
	"github.com/dgunay/techalyzer/database"
	"github.com/dgunay/techalyzer/datasource"
	"github.com/dgunay/techalyzer/log"
	"github.com/dgunay/techalyzer/marketdata"
	"github.com/dgunay/techalyzer/output"
	"github.com/dgunay/techalyzer/signals"
	"github.com/dgunay/techalyzer/trading"
	"github.com/dgunay/techalyzer/trading/buyandhold"
	"github.com/dgunay/techalyzer/trading/dtmodel"
	"github.com/dgunay/techalyzer/trading/manual"
	"github.com/volatiletech/null"
)

// New validates cfg, builds its price source and opens the run store when
// enabled
func New(ctx context.Context, cfg *config.Config) (*Engine, error) {
	if cfg == nil {
		return nil, errNilConfig
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	src, err := datasource.FromConfig(cfg.DataSource)
	if err != nil {
		return nil, fmt.Errorf("failed to create data source. Err: %w", err)
	}
	bot := &Engine{Config: cfg, Source: src}
	if cfg.Database.Enabled {
		bot.DB, err = database.Open(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to open database. Err: %w", err)
		}
	}
	PrintSettings(cfg)
	return bot, nil
}

// PrintSettings logs the effective configuration at debug level
func PrintSettings(c *config.Config) {
	log.Debugf(log.Engine, "ENGINE SETTINGS")
	log.Debugf(log.Engine, "\t Symbol: %s", c.Symbol)
	log.Debugf(log.Engine, "\t Dates: %s to %s", c.StartDate, c.EndDate)
	log.Debugf(log.Engine, "\t Data source: %s %s", c.DataSource.Kind, c.DataSource.Path)
	log.Debugf(log.Engine, "\t Backtest model: %s", c.Backtest.Model)
	log.Debugf(log.Engine, "\t Initial cash: %v", c.Backtest.InitialCash)
	log.Debugf(log.Engine, "\t Training horizon: %d threshold: %v", c.Training.Horizon, c.Training.Threshold)
	log.Debugf(log.Engine, "\t Database enabled: %v", c.Database.Enabled)
}

// Stop releases the run store
func (bot *Engine) Stop() error {
	if bot == nil {
		return errNilEngine
	}
	if bot.DB == nil {
		return nil
	}
	return bot.DB.Close()
}

// LoadPrices fetches the configured symbol over the configured date range
func (bot *Engine) LoadPrices(ctx context.Context) (*marketdata.Prices, error) {
	if bot == nil {
		return nil, errNilEngine
	}
	r, err := bot.Config.DateRange()
	if err != nil {
		return nil, err
	}
	prices, err := datasource.GetRange(ctx, bot.Source, bot.Config.Symbol, r)
	if err != nil {
		return nil, err
	}
	log.Infof(log.Engine, "loaded %d closes for %s (%s)", prices.Len(), prices.Symbol, prices.Range())
	return prices, nil
}

// Signals runs the named indicator's default generator over the configured
// prices
func (bot *Engine) Signals(ctx context.Context, indicator string) (*output.SignalsReport, error) {
	kind, err := signals.ParseKind(indicator)
	if err != nil {
		return nil, err
	}
	cfg, err := signals.DefaultConfig(kind)
	if err != nil {
		return nil, err
	}
	gen, err := signals.NewGenerator(cfg)
	if err != nil {
		return nil, err
	}
	prices, err := bot.LoadPrices(ctx)
	if err != nil {
		return nil, err
	}
	return output.NewSignalsReport(prices, gen)
}

// Train fits a decision tree model on the training range and writes it to
// the configured output file. Training dates without a close horizon
// trading days later are skipped.
func (bot *Engine) Train(ctx context.Context) (*dtmodel.TrainedModel, error) {
	prices, err := bot.LoadPrices(ctx)
	if err != nil {
		return nil, err
	}
	top, err := bot.Config.DateRange()
	if err != nil {
		return nil, err
	}
	tc := &bot.Config.Training
	r, err := tc.DateRange(top)
	if err != nil {
		return nil, err
	}
	candidates := prices.DatesInRange(r)
	dates := make([]time.Time, 0, len(candidates))
	for _, d := range candidates {
		if _, ok := prices.GetAfter(d, tc.Horizon); ok {
			dates = append(dates, d)
		}
	}
	if len(dates) == 0 {
		return nil, fmt.Errorf("%w between %s with horizon %d", ErrNoTrainingDates, r, tc.Horizon)
	}
	if skipped := len(candidates) - len(dates); skipped > 0 {
		log.Warnf(log.Engine, "skipping %d training dates without %d days of look ahead", skipped, tc.Horizon)
	}

	model, err := dtmodel.NewFromConfigs(tc.Generators, tc.Shares, tc.Hyperparameters)
	if err != nil {
		return nil, err
	}
	trained, err := model.Train(prices, dates, tc.Horizon, tc.Threshold)
	if err != nil {
		return nil, err
	}
	log.Infof(log.Engine, "trained on %d dates, classes %v", len(dates), trained.Classes())
	if tc.Output != "" {
		if err := dtmodel.SaveFile(tc.Output, trained); err != nil {
			return nil, err
		}
		log.Infof(log.Engine, "model written to %s", tc.Output)
	}
	return trained, nil
}

// LoadModel builds the named trading model from the backtest settings. An
// empty name selects the configured model.
func (bot *Engine) LoadModel(name string) (trading.Model, error) {
	bc := &bot.Config.Backtest
	if name == "" {
		name = bc.Model
	}
	switch strings.ToLower(name) {
	case buyandhold.Name:
		return buyandhold.New(bc.Shares), nil
	case manual.Name:
		m, err := manual.New(bc.Shares, bc.DeadZone, bc.Disposition)
		if err != nil {
			return nil, err
		}
		m.RegimeWindow = bc.RegimeWindow
		m.RegimeThreshold = bc.RegimeThreshold
		return m, nil
	case dtmodel.Name:
		if bc.ModelPath == "" {
			return nil, ErrNoModelPath
		}
		m, err := dtmodel.LoadFile(bc.ModelPath)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownModel, name)
}

// Backtest runs the named model over the configured prices, saving the run
// when a database is enabled
func (bot *Engine) Backtest(ctx context.Context, modelName string) (*output.BacktestReport, error) {
	model, err := bot.LoadModel(modelName)
	if err != nil {
		return nil, err
	}
	prices, err := bot.LoadPrices(ctx)
	if err != nil {
		return nil, err
	}
	trades, err := model.GetTrades(prices)
	if err != nil {
		return nil, err
	}
	cash := bot.Config.Backtest.InitialCash
	bt, err := backtester.New(trades, prices, cash)
	if err != nil {
		return nil, err
	}
	var days []database.Valuation
	valuations, err := bt.Replay(func(date time.Time, state backtester.DayState) {
		days = append(days, database.Valuation{Date: date, Value: state.Valuation, Position: state.Position.String()})
	})
	if err != nil {
		return nil, err
	}
	perf, err := performance.New(valuations)
	if err != nil {
		return nil, err
	}
	report, err := output.NewBacktestReport(model.Name(), cash, prices, trades, perf)
	if err != nil {
		return nil, err
	}
	if bot.DB != nil {
		if err := bot.saveRun(ctx, report, prices, days); err != nil {
			return nil, err
		}
	}
	return report, nil
}

func (bot *Engine) saveRun(ctx context.Context, report *output.BacktestReport, prices *marketdata.Prices, days []database.Valuation) error {
	first, _ := prices.First()
	last, _ := prices.Last()
	path := ""
	if report.Model == dtmodel.Name {
		path = bot.Config.Backtest.ModelPath
	}
	notes := bot.Config.Backtest.Notes
	run := &database.Run{
		Symbol:      report.Symbol,
		Model:       report.Model,
		Start:       first.Date,
		End:         last.Date,
		InitialCash: float64(report.InitialCash),
		TotalReturn: database.FiniteFloat(float64(report.TotalReturn)),
		Volatility:  database.FiniteFloat(float64(report.Volatility)),
		Accuracy:    database.FiniteFloat(float64(report.Accuracy)),
		SharpeRatio: database.FiniteFloat(float64(report.SharpeRatio)),
		MaxDrawdown: database.FiniteFloat(float64(report.MaxDrawdown)),
		ModelPath:   null.NewString(path, path != ""),
		Notes:       null.NewString(notes, notes != ""),
	}
	if err := bot.DB.SaveRun(ctx, run, days); err != nil {
		return fmt.Errorf("saving %s run for %s: %w", run.Model, run.Symbol, err)
	}
	log.Infof(log.Engine, "saved run %s", run.ID)
	return nil
}

// Suggest returns the position the named model proposes for the last
// configured trading day
func (bot *Engine) Suggest(ctx context.Context, modelName string) (trading.Suggestion, error) {
	model, err := bot.LoadModel(modelName)
	if err != nil {
		return trading.Suggestion{}, err
	}
	prices, err := bot.LoadPrices(ctx)
	if err != nil {
		return trading.Suggestion{}, err
	}
	s, err := trading.Suggest(model, prices)
	if err != nil {
		return trading.Suggestion{}, err
	}
	log.Infof(log.Engine, "%s suggests %s for %s on %s", model.Name(), s.Position, prices.Symbol, common.FormatDate(s.Date))
	return s, nil
}

// Runs lists stored backtest runs for the configured symbol
func (bot *Engine) Runs(ctx context.Context) ([]database.Run, error) {
	if bot.DB == nil {
		return nil, ErrDatabaseDisabled
	}
	return bot.DB.ListRuns(ctx, bot.Config.Symbol)
}
