package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

var (
	configPath string
	sourceKind string
	dataPath   string
	apiKey     string
	symbol     string
	startDate  string
	endDate    string
	verbose    bool
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "techalyzer"
	app.Usage = "evaluate technical analysis trading strategies against historical prices"
	app.EnableBashCompletion = true
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "path to a JSON or YAML config file",
			Destination: &configPath,
		},
		&cli.StringFlag{
			Name:        "source",
			Usage:       "price source: csv, json or alphavantage",
			Destination: &sourceKind,
		},
		&cli.StringFlag{
			Name:        "path",
			Usage:       "price file for the csv and json sources",
			Destination: &dataPath,
		},
		&cli.StringFlag{
			Name:        "secret",
			Usage:       "Alpha Vantage API key",
			EnvVars:     []string{"ALPHAVANTAGE_API_KEY"},
			Destination: &apiKey,
		},
		&cli.StringFlag{
			Name:        "symbol",
			Aliases:     []string{"s"},
			Usage:       "ticker symbol to analyse",
			Destination: &symbol,
		},
		&cli.StringFlag{
			Name:        "start",
			Usage:       "first trading day (YYYY-MM-DD, today or yesterday)",
			Destination: &startDate,
		},
		&cli.StringFlag{
			Name:        "end",
			Usage:       "last trading day (YYYY-MM-DD, today or yesterday)",
			Destination: &endDate,
		},
		&cli.BoolFlag{
			Name:        "verbose",
			Aliases:     []string{"v"},
			Usage:       "enable debug logging",
			Destination: &verbose,
		},
	}
	app.Commands = []*cli.Command{
		signalsCommand,
		trainCommand,
		backtestCommand,
		suggestCommand,
		runsCommand,
	}
	return app
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
