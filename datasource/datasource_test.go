package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dgunay/techalyzer/common"
	"github.com/dgunay/techalyzer/common/timeseries"
	"github.com/dgunay/techalyzer/marketdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wantCloses = []float64{99.5, 100.75, 102}

func march(d int) time.Time {
	return common.Date(2020, time.March, d)
}

func TestCSVFile(t *testing.T) {
	t.Parallel()
	src, err := NewCSVFile(filepath.Join("testdata", "jpm.csv"))
	require.NoError(t, err)
	p, err := src.Get(context.Background(), "jpm")
	require.NoError(t, err)
	assert.Equal(t, "jpm", p.Symbol)
	assert.Equal(t, wantCloses, p.Closes())
	assert.Equal(t, []time.Time{march(2), march(3), march(4)}, p.Dates())

	src, err = NewCSVFile(filepath.Join("testdata", "slashes.csv"))
	require.NoError(t, err)
	p, err = src.Get(context.Background(), "jpm")
	require.NoError(t, err)
	assert.Equal(t, []float64{10.5, 11}, p.Closes())

	_, err = NewCSVFile("")
	assert.ErrorIs(t, err, errNoPath)

	src, err = NewCSVFile(filepath.Join("testdata", "missing.csv"))
	require.NoError(t, err)
	_, err = src.Get(context.Background(), "jpm")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseCSVErrors(t *testing.T) {
	t.Parallel()
	_, err := ParseCSV(strings.NewReader(""), "jpm")
	assert.ErrorIs(t, err, ErrNoData)
	_, err = ParseCSV(strings.NewReader("date,open\n2020-03-02,1\n"), "jpm")
	assert.ErrorIs(t, err, ErrMissingColumn)
	_, err = ParseCSV(strings.NewReader("close,volume\n1,2\n"), "jpm")
	assert.ErrorIs(t, err, ErrMissingColumn)
	_, err = ParseCSV(strings.NewReader("date,close\n"), "jpm")
	assert.ErrorIs(t, err, ErrNoData)
	_, err = ParseCSV(strings.NewReader("date,close\nyesterday,1\n"), "jpm")
	assert.ErrorIs(t, err, common.ErrInvalidDate)
	_, err = ParseCSV(strings.NewReader("date,close\n2020-03-02,abc\n"), "jpm")
	assert.Error(t, err)
	for _, raw := range []string{"NaN", "Inf", "-Inf", "+infinity"} {
		_, err = ParseCSV(strings.NewReader("date,close\n2020-03-02,1\n2020-03-03,"+raw+"\n"), "jpm")
		assert.ErrorIs(t, err, ErrInvalidPrice, raw)
		assert.ErrorContains(t, err, "line 3", raw)
	}
	_, err = ParseCSV(strings.NewReader("date,close\n2020-03-02,1\n2020-03-02,2\n"), "jpm")
	assert.ErrorIs(t, err, timeseries.ErrDuplicateDate)
	_, err = ParseCSV(strings.NewReader("date,close\n2020-03-02,1\n"), "")
	assert.ErrorIs(t, err, marketdata.ErrEmptySymbol)
}

func TestJSONFile(t *testing.T) {
	t.Parallel()
	src, err := NewJSONFile(filepath.Join("testdata", "report.json"))
	require.NoError(t, err)
	p, err := src.Get(context.Background(), "jpm")
	require.NoError(t, err)
	assert.Equal(t, wantCloses, p.Closes())

	_, err = src.Get(context.Background(), "spy")
	assert.ErrorIs(t, err, ErrSymbolMismatch)

	p, err = ParseReport([]byte(`{"map":{"2020-03-02":{"price":1}}}`), "spy")
	require.NoError(t, err)
	assert.Equal(t, "spy", p.Symbol)

	p, err = ParseReport([]byte(`{"symbol":"spy","map":{"2020-03-02":{"price":1}}}`), "")
	require.NoError(t, err)
	assert.Equal(t, "spy", p.Symbol)

	_, err = ParseReport([]byte(`{"symbol":"spy"}`), "spy")
	assert.ErrorIs(t, err, ErrNoData)
	_, err = ParseReport([]byte(`{"symbol":"spy","map":{}}`), "spy")
	assert.ErrorIs(t, err, ErrNoData)
	_, err = ParseReport([]byte(`{"symbol":"spy","map":{"2020-03-02":{"signal":1}}}`), "spy")
	assert.Error(t, err)
}

func TestParseAlphaVantage(t *testing.T) {
	t.Parallel()
	body, err := os.ReadFile(filepath.Join("testdata", "alphavantage.json"))
	require.NoError(t, err)
	p, err := ParseAlphaVantage(body, "jpm")
	require.NoError(t, err)
	assert.Equal(t, wantCloses, p.Closes())

	_, err = ParseAlphaVantage(body, "spy")
	assert.ErrorIs(t, err, ErrSymbolMismatch)

	unadjusted := `{"Time Series (Daily)":{"2020-03-02":{"4. close":"12.5"}}}`
	p, err = ParseAlphaVantage([]byte(unadjusted), "spy")
	require.NoError(t, err)
	assert.Equal(t, []float64{12.5}, p.Closes())

	for _, raw := range []string{"NaN", "Inf"} {
		_, err = ParseAlphaVantage([]byte(`{"Time Series (Daily)":{"2020-03-02":{"4. close":"`+raw+`"}}}`), "spy")
		assert.ErrorIs(t, err, ErrInvalidPrice, raw)
	}

	_, err = ParseAlphaVantage([]byte(`{"Error Message":"Invalid API call"}`), "spy")
	assert.ErrorIs(t, err, ErrProvider)
	assert.ErrorContains(t, err, "Invalid API call")
	_, err = ParseAlphaVantage([]byte(`{"Note":"Thank you for using Alpha Vantage!"}`), "spy")
	assert.ErrorIs(t, err, ErrProvider)
	_, err = ParseAlphaVantage([]byte(`{}`), "spy")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestAlphaVantageHTTP(t *testing.T) {
	t.Parallel()
	body, err := os.ReadFile(filepath.Join("testdata", "alphavantage.json"))
	require.NoError(t, err)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, avFunction, r.URL.Query().Get("function"))
		assert.Equal(t, "secret", r.URL.Query().Get("apikey"))
		if r.URL.Query().Get("symbol") != "JPM" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	_, err = NewAlphaVantage("", srv.URL, 0, nil)
	assert.ErrorIs(t, err, errNoKey)

	av, err := NewAlphaVantage("secret", srv.URL+"/", 600, srv.Client())
	require.NoError(t, err)
	p, err := av.Get(context.Background(), "JPM")
	require.NoError(t, err)
	assert.Equal(t, wantCloses, p.Closes())

	_, err = av.Get(context.Background(), "SPY")
	assert.ErrorIs(t, err, ErrProvider)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = av.Get(ctx, "JPM")
	assert.Error(t, err)
}

type countingSource struct {
	calls  atomic.Int32
	prices *marketdata.Prices
}

func (c *countingSource) Get(context.Context, string) (*marketdata.Prices, error) {
	c.calls.Add(1)
	return c.prices, nil
}

func TestCachedAndGetRange(t *testing.T) {
	t.Parallel()
	p, err := marketdata.New("jpm", []marketdata.Entry{{Date: march(2), Value: 1}, {Date: march(3), Value: 2}, {Date: march(4), Value: 3}})
	require.NoError(t, err)
	inner := &countingSource{prices: p}
	c := NewCached(inner, 2)

	got, err := GetRange(context.Background(), c, "jpm", common.DateRange{Start: march(3)})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3}, got.Closes())
	_, err = GetRange(context.Background(), c, "JPM", common.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, int32(1), inner.calls.Load())

	_, err = GetRange(context.Background(), c, "jpm", common.DateRange{Start: march(10)})
	assert.ErrorIs(t, err, ErrNoData)
	_, err = GetRange(context.Background(), c, "jpm", common.DateRange{Start: march(10), End: march(1)})
	assert.ErrorIs(t, err, common.ErrInvalidDateRange)
}

func TestFromConfig(t *testing.T) {
	t.Parallel()
	src, err := FromConfig(Config{Path: filepath.Join("testdata", "jpm.csv")})
	require.NoError(t, err)
	cached, ok := src.(*Cached)
	require.True(t, ok)
	assert.IsType(t, &CSVFile{}, cached.Source)

	src, err = FromConfig(Config{Path: "report.JSON"})
	require.NoError(t, err)
	assert.IsType(t, &JSONFile{}, src.(*Cached).Source)

	src, err = FromConfig(Config{Kind: KindAlphaVantage, APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &AlphaVantage{}, src.(*Cached).Source)

	_, err = FromConfig(Config{Path: "prices.xlsx"})
	assert.ErrorIs(t, err, ErrUnknownSource)
	_, err = FromConfig(Config{Kind: "ftp"})
	assert.ErrorIs(t, err, ErrUnknownSource)
	_, err = FromConfig(Config{Kind: KindAlphaVantage})
	assert.ErrorIs(t, err, errNoKey)
}

func TestParseKind(t *testing.T) {
	t.Parallel()
	k, err := ParseKind(" CSV ")
	require.NoError(t, err)
	assert.Equal(t, KindCSV, k)
	k, err = ParseKind("av")
	require.NoError(t, err)
	assert.Equal(t, KindAlphaVantage, k)
	_, err = ParseKind("excel")
	assert.ErrorIs(t, err, ErrUnknownSource)
}
