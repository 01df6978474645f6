package datasource

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/dgunay/techalyzer/common"
	"github.com/dgunay/techalyzer/marketdata"
	"github.com/pkg/errors"
)

var (
	dateColumns  = []string{"date", "timestamp"}
	priceColumns = []string{"adjusted close", "adj. close", "adj close", "adjusted_close", "close"}
)

// NewCSVFile returns a CSV source for path
func NewCSVFile(path string) (*CSVFile, error) {
	if path == "" {
		return nil, errNoPath
	}
	return &CSVFile{Path: path}, nil
}

// Get implements Source
func (c *CSVFile) Get(ctx context.Context, symbol string) (*marketdata.Prices, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(c.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", c.Path)
	}
	defer f.Close()
	p, err := ParseCSV(f, symbol)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", c.Path)
	}
	return p, nil
}

func findColumn(header, names []string) int {
	for _, name := range names {
		for i := range header {
			if strings.EqualFold(strings.TrimSpace(header[i]), name) {
				return i
			}
		}
	}
	return -1
}

// ParseCSV reads a header row followed by one row per trading day. Dates may
// be written YYYY-MM-DD or YYYY/MM/DD.
func ParseCSV(r io.Reader, symbol string) (*marketdata.Prices, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading header")
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	dateIdx := findColumn(header, dateColumns)
	if dateIdx < 0 {
		return nil, errors.Wrapf(ErrMissingColumn, "want one of %v", dateColumns)
	}
	priceIdx := findColumn(header, priceColumns)
	if priceIdx < 0 {
		return nil, errors.Wrapf(ErrMissingColumn, "want one of %v", priceColumns)
	}

	var entries []marketdata.Entry
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		d, err := common.ParseDate(rec[dateIdx])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		price, err := parsePrice(rec[priceIdx])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		entries = append(entries, marketdata.Entry{Date: d, Value: price})
	}
	if len(entries) == 0 {
		return nil, ErrNoData
	}
	return marketdata.New(symbol, entries)
}
