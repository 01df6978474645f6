package datasource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/buger/jsonparser"
	"github.com/dgunay/techalyzer/common"
	"github.com/dgunay/techalyzer/log"
	"github.com/dgunay/techalyzer/marketdata"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

const (
	avFunction   = "TIME_SERIES_DAILY_ADJUSTED"
	avSeriesKey  = "Time Series (Daily)"
	avAdjClose   = "5. adjusted close"
	avClose      = "4. close"
	avMaxPayload = 64 << 20
)

var avErrorKeys = []string{"Error Message", "Note", "Information"}

// NewAlphaVantage returns an Alpha Vantage client paced to
// requestsPerMinute. Zero values select the public endpoint and the free
// tier allowance.
func NewAlphaVantage(apiKey, baseURL string, requestsPerMinute int, client *http.Client) (*AlphaVantage, error) {
	if apiKey == "" {
		return nil, errNoKey
	}
	if baseURL == "" {
		baseURL = DefaultAlphaVantageURL
	}
	if requestsPerMinute <= 0 {
		requestsPerMinute = DefaultRequestsPerMinute
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &AlphaVantage{
		APIKey:  apiKey,
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Client:  client,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1),
	}, nil
}

// Get implements Source
func (a *AlphaVantage) Get(ctx context.Context, symbol string) (*marketdata.Prices, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("function", avFunction)
	q.Set("symbol", symbol)
	q.Set("outputsize", "full")
	q.Set("apikey", a.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.BaseURL+"/query?"+q.Encode(), http.NoBody)
	if err != nil {
		return nil, err
	}
	log.Debugf(log.DataSource, "requesting %s daily series for %s", avFunction, symbol)
	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "requesting %s", symbol)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, avMaxPayload))
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s response", symbol)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrProvider, resp.StatusCode)
	}
	return ParseAlphaVantage(body, symbol)
}

// ParseAlphaVantage reads a TIME_SERIES_DAILY or TIME_SERIES_DAILY_ADJUSTED
// payload, preferring the adjusted close when present
func ParseAlphaVantage(body []byte, symbol string) (*marketdata.Prices, error) {
	for _, k := range avErrorKeys {
		if msg, err := jsonparser.GetString(body, k); err == nil {
			return nil, fmt.Errorf("%w: %s", ErrProvider, msg)
		}
	}
	if meta, err := jsonparser.GetString(body, "Meta Data", "2. Symbol"); err == nil && !strings.EqualFold(meta, symbol) {
		return nil, errors.Wrapf(ErrSymbolMismatch, "response for %s, wanted %s", meta, symbol)
	}

	var entries []marketdata.Entry
	err := jsonparser.ObjectEach(body, func(key, value []byte, _ jsonparser.ValueType, _ int) error {
		d, err := common.ParseDate(string(key))
		if err != nil {
			return err
		}
		raw, err := jsonparser.GetString(value, avAdjClose)
		if errors.Is(err, jsonparser.KeyPathNotFoundError) {
			raw, err = jsonparser.GetString(value, avClose)
		}
		if err != nil {
			return errors.Wrapf(err, "close for %s", key)
		}
		price, err := parsePrice(raw)
		if err != nil {
			return errors.Wrapf(err, "close for %s", key)
		}
		entries = append(entries, marketdata.Entry{Date: d, Value: price})
		return nil
	}, avSeriesKey)
	if errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return nil, errors.Wrapf(ErrNoData, "%q missing from response", avSeriesKey)
	}
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNoData
	}
	return marketdata.New(symbol, entries)
}
