package datasource

import (
	"context"
	"os"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/dgunay/techalyzer/common"
	"github.com/dgunay/techalyzer/marketdata"
	"github.com/pkg/errors"
)

// NewJSONFile returns a source reading a signals report at path
func NewJSONFile(path string) (*JSONFile, error) {
	if path == "" {
		return nil, errNoPath
	}
	return &JSONFile{Path: path}, nil
}

// Get implements Source
func (j *JSONFile) Get(ctx context.Context, symbol string) (*marketdata.Prices, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(j.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", j.Path)
	}
	p, err := ParseReport(data, symbol)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", j.Path)
	}
	return p, nil
}

// ParseReport extracts the closes from a signals report. Only the symbol and
// each day's price are read.
func ParseReport(data []byte, symbol string) (*marketdata.Prices, error) {
	fileSymbol, err := jsonparser.GetString(data, "symbol")
	switch {
	case err == nil:
		if symbol == "" {
			symbol = fileSymbol
		} else if !strings.EqualFold(fileSymbol, symbol) {
			return nil, errors.Wrapf(ErrSymbolMismatch, "file holds %s, wanted %s", fileSymbol, symbol)
		}
	case errors.Is(err, jsonparser.KeyPathNotFoundError):
	default:
		return nil, err
	}

	var entries []marketdata.Entry
	err = jsonparser.ObjectEach(data, func(key, value []byte, _ jsonparser.ValueType, _ int) error {
		d, err := common.ParseDate(string(key))
		if err != nil {
			return err
		}
		price, err := jsonparser.GetFloat(value, "price")
		if err == nil {
			err = checkPrice(price)
		}
		if err != nil {
			return errors.Wrapf(err, "price for %s", key)
		}
		entries = append(entries, marketdata.Entry{Date: d, Value: price})
		return nil
	}, "map")
	if errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNoData
	}
	return marketdata.New(symbol, entries)
}
