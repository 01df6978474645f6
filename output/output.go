// Package output renders signals and backtest results as JSON documents and
// human readable summaries.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"errors"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dgunay/techalyzer/backtester/performance"
	"github.com/dgunay/techalyzer/common"
	"github.com/dgunay/techalyzer/common/timeseries"
	"github.com/dgunay/techalyzer/log"
	"github.com/dgunay/techalyzer/marketdata"
	"github.com/dgunay/techalyzer/signals"
	"github.com/dgunay/techalyzer/trading"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MarshalJSON implements json.Marshaler
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	switch {
	case math.IsNaN(f):
		return []byte(`"NaN"`), nil
	case math.IsInf(f, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(f, -1):
		return []byte(`"-Inf"`), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (n *Number) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		switch s {
		case "NaN":
			*n = Number(math.NaN())
		case "+Inf", "Inf":
			*n = Number(math.Inf(1))
		case "-Inf":
			*n = Number(math.Inf(-1))
		default:
			return fmt.Errorf("invalid number %q", s)
		}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

func numbers(s *timeseries.Series[float64]) map[string]Number {
	m := make(map[string]Number, s.Len())
	for _, e := range s.Entries() {
		m[common.FormatDate(e.Date)] = Number(e.Value)
	}
	return m
}

// NewSignalsReport resets gen and runs it over every price in order
func NewSignalsReport(prices *marketdata.Prices, gen signals.Generator) (*SignalsReport, error) {
	if gen == nil {
		return nil, errNilGenerator
	}
	if prices.Len() == 0 {
		return nil, errNoPrices
	}
	gen.Reset()
	r := &SignalsReport{
		Symbol:    prices.Symbol,
		Indicator: gen.Config(),
		Map:       make(map[string]SignalDay, prices.Len()),
	}
	err := prices.Each(func(date time.Time, price float64) error {
		sig, out := gen.Next(price)
		day := SignalDay{
			Price:  Number(price),
			Signal: Number(sig),
			Output: make(map[string]Number, len(out)),
		}
		for k, v := range out {
			day.Output[k] = Number(v)
		}
		r.Map[common.FormatDate(date)] = day
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Debugf(log.Signals, "%s %s report covers %d days", r.Symbol, r.Indicator.Kind, len(r.Map))
	return r, nil
}

// NewBacktestReport gathers every figure derived from perf. Figures that
// cannot be computed, such as the total return of a single day, are NaN.
func NewBacktestReport(model string, initialCash float64, prices *marketdata.Prices, trades *trading.Trades, perf *performance.Performance) (*BacktestReport, error) {
	if prices == nil || trades == nil || perf == nil {
		return nil, fmt.Errorf("%w: backtest report inputs", common.ErrNilPointer)
	}
	total, err := perf.TotalReturn()
	if err != nil {
		log.Warnf(log.BackTester, "total return: %v", err)
		total = math.NaN()
	}
	accuracy, err := perf.TradesAccuracy(trades)
	if err != nil {
		return nil, err
	}
	priceMap := make(map[string]Number, prices.Len())
	for _, e := range prices.Entries() {
		priceMap[common.FormatDate(e.Date)] = Number(e.Value)
	}
	return &BacktestReport{
		Symbol:       prices.Symbol,
		Model:        model,
		InitialCash:  Number(initialCash),
		Prices:       priceMap,
		Trades:       trades,
		Valuations:   numbers(perf.Valuations),
		DailyReturns: numbers(perf.DailyReturns),
		Volatility:   Number(perf.Volatility),
		TotalReturn:  Number(total),
		Accuracy:     Number(accuracy),
		SharpeRatio:  Number(perf.SharpeRatio(0)),
		MaxDrawdown:  Number(perf.MaxDrawdown()),
	}, nil
}

// WriteJSON writes v as indented JSON
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteFile writes v as indented JSON to path, or to stdout when path is
// empty or "-"
func WriteFile(path string, v any) error {
	if path == "" || path == "-" {
		return WriteJSON(os.Stdout, v)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSON(f, v); err != nil {
		return errors.Join(err, f.Close())
	}
	return f.Close()
}

// fixed renders v rounded to places decimals, passing non-finite values
// through as text
func fixed(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		b, _ := Number(v).MarshalJSON()
		return strings.Trim(string(b), `"`)
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}

var hundred = decimal.NewFromInt(100)

// percent renders a fraction as a percentage with two decimals
func percent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fixed(v, 2)
	}
	return decimal.NewFromFloat(v).Mul(hundred).StringFixed(2) + "%"
}

// Summary returns the human readable lines PrintBacktestSummary logs
func Summary(r *BacktestReport) ([]string, error) {
	if r == nil {
		return nil, errNilReport
	}
	var start, end string
	var final float64
	if dates := sortedKeys(r.Valuations); len(dates) > 0 {
		start, end = dates[0], dates[len(dates)-1]
		final = float64(r.Valuations[end])
	}
	title := cases.Title(language.English)
	return []string{
		fmt.Sprintf("%s backtest of %s from %s to %s", title.String(r.Model), r.Symbol, start, end),
		"Initial cash: " + fixed(float64(r.InitialCash), 2),
		"Final valuation: " + fixed(final, 2),
		"Total return: " + percent(float64(r.TotalReturn)),
		"Volatility: " + percent(float64(r.Volatility)),
		"Trade accuracy: " + percent(float64(r.Accuracy)),
		"Sharpe ratio: " + fixed(float64(r.SharpeRatio), 4),
		"Max drawdown: " + percent(float64(r.MaxDrawdown)),
	}, nil
}

// PrintBacktestSummary logs Summary through the backtester sub-logger
func PrintBacktestSummary(r *BacktestReport) error {
	lines, err := Summary(r)
	if err != nil {
		return err
	}
	for i := range lines {
		log.Infoln(log.BackTester, lines[i])
	}
	return nil
}

func sortedKeys(m map[string]Number) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
