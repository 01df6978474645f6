package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dgunay/techalyzer/common"
	"github.com/dgunay/techalyzer/config"
	"github.com/dgunay/techalyzer/datasource"
	"github.com/dgunay/techalyzer/engine"
	"github.com/dgunay/techalyzer/log"
	"github.com/dgunay/techalyzer/output"
	"github.com/dgunay/techalyzer/signals"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
	"github.com/volatiletech/null"
)

const debugLevels = "INFO|DEBUG|WARN|ERROR"

var signalsCommand = &cli.Command{
	Name:  "signals",
	Usage: "write an indicator's daily signals as JSON",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "indicator",
			Aliases: []string{"i"},
			Usage:   "bollingerbands, rsi, macd or smacrossover",
			Value:   string(signals.BollingerBands),
		},
		&cli.StringFlag{
			Name:  "out",
			Usage: "output file, - for stdout",
			Value: "-",
		},
	},
	Action: runSignals,
}

var trainCommand = &cli.Command{
	Name:  "train",
	Usage: "train a decision tree trading model and save it",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "out",
			Usage: "model output file",
		},
		&cli.IntFlag{
			Name:  "horizon",
			Usage: "trading days ahead the label looks",
		},
		&cli.Float64Flag{
			Name:  "threshold",
			Usage: "fractional move that counts as up or down",
		},
		&cli.StringFlag{
			Name:  "generators",
			Usage: "comma separated signal generators used as features",
		},
		&cli.StringFlag{
			Name:  "train-start",
			Usage: "first training day",
		},
		&cli.StringFlag{
			Name:  "train-end",
			Usage: "last training day",
		},
	},
	Action: runTrain,
}

var modelFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "model",
		Aliases: []string{"m"},
		Usage:   "buyandhold, manual or decisiontree",
	},
	&cli.StringFlag{
		Name:  "model-file",
		Usage: "trained decision tree model",
	},
}

var backtestCommand = &cli.Command{
	Name:  "backtest",
	Usage: "simulate a trading model and report its performance",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:  "cash",
			Usage: "starting cash",
		},
		&cli.StringFlag{
			Name:  "out",
			Usage: "write the full report as JSON to this file",
		},
	}, modelFlags...),
	Action: runBacktest,
}

var suggestCommand = &cli.Command{
	Name:   "suggest",
	Usage:  "print the position a model proposes for the last trading day",
	Flags:  modelFlags,
	Action: runSuggest,
}

var runsCommand = &cli.Command{
	Name:   "runs",
	Usage:  "list saved backtest runs for the symbol",
	Action: runRuns,
}

// resolveDate maps today and yesterday relative to now and normalises any
// other date
func resolveDate(s string, now time.Time) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "today":
		return common.FormatDate(now), nil
	case "yesterday":
		return common.FormatDate(now.AddDate(0, 0, -1)), nil
	}
	d, err := common.ParseDate(s)
	if err != nil {
		return "", err
	}
	return common.FormatDate(d), nil
}

func parseCash(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid cash amount %q: %w", s, err)
	}
	if !d.IsPositive() {
		return 0, fmt.Errorf("invalid cash amount %q: must be positive", s)
	}
	f, _ := d.Float64()
	return f, nil
}

func nullable(f null.Float64) string {
	if !f.Valid {
		return "n/a"
	}
	return decimal.NewFromFloat(f.Float64).StringFixed(4)
}

func parseGenerators(s string) ([]signals.Config, error) {
	var out []signals.Config
	for _, name := range strings.Split(s, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		kind, err := signals.ParseKind(name)
		if err != nil {
			return nil, err
		}
		cfg, err := signals.DefaultConfig(kind)
		if err != nil {
			return nil, err
		}
		out = append(out, cfg)
	}
	return out, nil
}

// loadConfig reads the config file and applies the global flags over it
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if c.IsSet("source") {
		cfg.DataSource.Kind = datasource.Kind(sourceKind)
	}
	if c.IsSet("path") {
		cfg.DataSource.Path = dataPath
	}
	if apiKey != "" {
		cfg.DataSource.APIKey = apiKey
	}
	if c.IsSet("symbol") {
		cfg.Symbol = symbol
	}
	now := time.Now()
	if c.IsSet("start") {
		if cfg.StartDate, err = resolveDate(startDate, now); err != nil {
			return nil, err
		}
	}
	if c.IsSet("end") {
		if cfg.EndDate, err = resolveDate(endDate, now); err != nil {
			return nil, err
		}
	}
	if verbose {
		cfg.Logging.Level = debugLevels
	}
	if err := cfg.SetupLogging(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyModelFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet("model") {
		cfg.Backtest.Model = c.String("model")
	}
	if c.IsSet("model-file") {
		cfg.Backtest.ModelPath = c.String("model-file")
	}
}

func stopEngine(bot *engine.Engine) {
	if err := bot.Stop(); err != nil {
		log.Errorf(log.Global, "failed to stop engine: %v", err)
	}
}

func runSignals(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	bot, err := engine.New(c.Context, cfg)
	if err != nil {
		return err
	}
	defer stopEngine(bot)
	report, err := bot.Signals(c.Context, c.String("indicator"))
	if err != nil {
		return err
	}
	return output.WriteFile(c.String("out"), report)
}

func runTrain(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	tc := &cfg.Training
	if c.IsSet("out") {
		tc.Output = c.String("out")
	}
	if c.IsSet("horizon") {
		tc.Horizon = c.Int("horizon")
	}
	if c.IsSet("threshold") {
		tc.Threshold = c.Float64("threshold")
	}
	if c.IsSet("generators") {
		if tc.Generators, err = parseGenerators(c.String("generators")); err != nil {
			return err
		}
	}
	now := time.Now()
	if c.IsSet("train-start") {
		if tc.StartDate, err = resolveDate(c.String("train-start"), now); err != nil {
			return err
		}
	}
	if c.IsSet("train-end") {
		if tc.EndDate, err = resolveDate(c.String("train-end"), now); err != nil {
			return err
		}
	}
	bot, err := engine.New(c.Context, cfg)
	if err != nil {
		return err
	}
	defer stopEngine(bot)
	_, err = bot.Train(c.Context)
	return err
}

func runBacktest(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	applyModelFlags(c, cfg)
	if c.IsSet("cash") {
		if cfg.Backtest.InitialCash, err = parseCash(c.String("cash")); err != nil {
			return err
		}
	}
	bot, err := engine.New(c.Context, cfg)
	if err != nil {
		return err
	}
	defer stopEngine(bot)
	report, err := bot.Backtest(c.Context, "")
	if err != nil {
		return err
	}
	if err := output.PrintBacktestSummary(report); err != nil {
		return err
	}
	if c.IsSet("out") {
		return output.WriteFile(c.String("out"), report)
	}
	return nil
}

func runSuggest(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	applyModelFlags(c, cfg)
	bot, err := engine.New(c.Context, cfg)
	if err != nil {
		return err
	}
	defer stopEngine(bot)
	s, err := bot.Suggest(c.Context, "")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.App.Writer, "%s %s %s\n", cfg.Symbol, common.FormatDate(s.Date), s.Position)
	return err
}

func runRuns(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	cfg.Database.Enabled = true
	bot, err := engine.New(c.Context, cfg)
	if err != nil {
		return err
	}
	defer stopEngine(bot)
	runs, err := bot.Runs(c.Context)
	if err != nil {
		return err
	}
	for i := range runs {
		r := &runs[i]
		_, err = fmt.Fprintf(c.App.Writer, "%s %s %s %s..%s return=%s accuracy=%s\n",
			r.ID, r.Symbol, r.Model, common.FormatDate(r.Start), common.FormatDate(r.End),
			nullable(r.TotalReturn), nullable(r.Accuracy))
		if err != nil {
			return err
		}
	}
	return nil
}
