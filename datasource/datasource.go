// Package datasource loads daily closing prices from files and remote APIs.
package datasource

import (
	"context"
	"math"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgunay/techalyzer/common"
	"github.com/dgunay/techalyzer/common/cache"
	"github.com/dgunay/techalyzer/log"
	"github.com/dgunay/techalyzer/marketdata"
	"github.com/pkg/errors"
)

// parsePrice reads a decimal close, rejecting the NaN and Inf spellings
// strconv accepts
func parsePrice(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	return v, checkPrice(v)
}

func checkPrice(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.Wrapf(ErrInvalidPrice, "%v", v)
	}
	return nil
}

// ParseKind maps a user supplied name to a Kind
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindCSV, KindJSON, KindAlphaVantage:
		return k, nil
	case "av", "alpha_vantage":
		return KindAlphaVantage, nil
	}
	return "", errors.Wrapf(ErrUnknownSource, "%q", s)
}

// FromConfig builds the configured Source wrapped in a per symbol cache. An
// empty kind is inferred from the path's extension.
func FromConfig(cfg Config) (Source, error) {
	kind := cfg.Kind
	if kind == "" {
		switch strings.ToLower(filepath.Ext(cfg.Path)) {
		case ".csv":
			kind = KindCSV
		case ".json":
			kind = KindJSON
		default:
			return nil, errors.Wrapf(ErrUnknownSource, "cannot infer source from path %q", cfg.Path)
		}
	}
	var src Source
	var err error
	switch kind {
	case KindCSV:
		src, err = NewCSVFile(cfg.Path)
	case KindJSON:
		src, err = NewJSONFile(cfg.Path)
	case KindAlphaVantage:
		src, err = NewAlphaVantage(cfg.APIKey, cfg.BaseURL, cfg.RequestsPerMinute, http.DefaultClient)
	default:
		return nil, errors.Wrapf(ErrUnknownSource, "%q", kind)
	}
	if err != nil {
		return nil, err
	}
	size := cfg.CacheSize
	if size == 0 {
		size = DefaultCacheSize
	}
	return NewCached(src, size), nil
}

// GetRange fetches symbol and restricts it to r
func GetRange(ctx context.Context, src Source, symbol string, r common.DateRange) (*marketdata.Prices, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	prices, err := src.Get(ctx, symbol)
	if err != nil {
		return nil, err
	}
	ranged := prices.DateRange(r)
	if ranged.Len() == 0 {
		return nil, errors.Wrapf(ErrNoData, "%s between %s", symbol, r)
	}
	log.Debugf(log.DataSource, "%s: %d of %d closes between %s", symbol, ranged.Len(), prices.Len(), r)
	return ranged, nil
}

// NewCached wraps src with an LRU cache holding up to size symbols
func NewCached(src Source, size uint64) *Cached {
	return &Cached{Source: src, cache: cache.NewLRUCache[string, *marketdata.Prices](size)}
}

// Get implements Source
func (c *Cached) Get(ctx context.Context, symbol string) (*marketdata.Prices, error) {
	key := strings.ToUpper(strings.TrimSpace(symbol))
	if p, ok := c.cache.Get(key); ok {
		log.Debugf(log.DataSource, "%s served from cache", key)
		return p, nil
	}
	p, err := c.Source.Get(ctx, symbol)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, p)
	return p, nil
}
