package datasource

import (
	"context"
	"net/http"

	"github.com/dgunay/techalyzer/common/cache"
	"github.com/dgunay/techalyzer/marketdata"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// Kind names a price source
type Kind string

// Supported sources
const (
	KindCSV          Kind = "csv"
	KindJSON         Kind = "json"
	KindAlphaVantage Kind = "alphavantage"
)

const (
	// DefaultAlphaVantageURL is the public Alpha Vantage endpoint
	DefaultAlphaVantageURL = "https://www.alphavantage.co"
	// DefaultRequestsPerMinute is the free tier allowance
	DefaultRequestsPerMinute = 5
	// DefaultCacheSize is the number of symbols Cached keeps
	DefaultCacheSize = 16
)

var (
	// ErrUnknownSource is returned for an unrecognised Kind
	ErrUnknownSource = errors.New("unknown data source")
	// ErrMissingColumn is returned when a CSV header lacks a required column
	ErrMissingColumn = errors.New("missing column")
	// ErrSymbolMismatch is returned when a file holds another ticker
	ErrSymbolMismatch = errors.New("symbol mismatch")
	// ErrProvider is returned when the remote API reports a failure
	ErrProvider = errors.New("data provider error")
	// ErrNoData is returned when a source yields no prices
	ErrNoData = errors.New("no price data")
	// ErrInvalidPrice is returned for a NaN or infinite close
	ErrInvalidPrice = errors.New("invalid price")
	errNoPath = errors.New("path is required")
	errNoKey  = errors.New("api key is required")
)

// Source yields the full price history for a symbol
type Source interface {
	Get(ctx context.Context, symbol string) (*marketdata.Prices, error)
}

// Config selects and configures a Source
type Config struct {
	Kind              Kind   `json:"kind" mapstructure:"kind"`
	Path              string `json:"path" mapstructure:"path"`
	APIKey            string `json:"apiKey" mapstructure:"apikey"`
	BaseURL           string `json:"baseURL" mapstructure:"baseurl"`
	RequestsPerMinute int    `json:"requestsPerMinute" mapstructure:"requestsperminute"`
	CacheSize         uint64 `json:"cacheSize" mapstructure:"cachesize"`
}

// CSVFile reads prices from a CSV export with a date column and an adjusted
// close column
type CSVFile struct {
	Path string
}

// JSONFile re-reads the report written by the signals command
type JSONFile struct {
	Path string
}

// AlphaVantage fetches daily adjusted closes over HTTP
type AlphaVantage struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
	limiter *rate.Limiter
}

// Cached memoises another Source per symbol
type Cached struct {
	Source Source
	cache  *cache.LRU[string, *marketdata.Prices]
}
