package output

import (
	"errors"

	"github.com/dgunay/techalyzer/signals"
	"github.com/dgunay/techalyzer/trading"
)

var (
	errNilGenerator = errors.New("nil signal generator")
	errNilReport    = errors.New("nil report")
	errNoPrices     = errors.New("no prices to report on")
)

// Number is a float64 whose non-finite values encode as the strings "+Inf",
// "-Inf" and "NaN"
type Number float64

// SignalDay is one trading day of a signals report
type SignalDay struct {
	Price  Number            `json:"price"`
	Signal Number            `json:"signal"`
	Output map[string]Number `json:"output"`
}

// SignalsReport is the document written by the signals command. Map keys are
// YYYY-MM-DD so they sort in date order.
type SignalsReport struct {
	Symbol    string               `json:"symbol"`
	Indicator signals.Config       `json:"indicator"`
	Map       map[string]SignalDay `json:"map"`
}

// BacktestReport is the document written by the backtest command
type BacktestReport struct {
	Symbol       string            `json:"symbol"`
	Model        string            `json:"model"`
	InitialCash  Number            `json:"initialCash"`
	Prices       map[string]Number `json:"prices"`
	Trades       *trading.Trades   `json:"trades"`
	Valuations   map[string]Number `json:"valuations"`
	DailyReturns map[string]Number `json:"dailyReturns"`
	Volatility   Number            `json:"volatility"`
	TotalReturn  Number            `json:"totalReturn"`
	Accuracy     Number            `json:"accuracy"`
	SharpeRatio  Number            `json:"sharpeRatio"`
	MaxDrawdown  Number            `json:"maxDrawdown"`
}
