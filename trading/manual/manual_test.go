package manual

import (
	"math"
	"testing"
	"time"

	"github.com/dgunay/techalyzer/common"
	"github.com/dgunay/techalyzer/marketdata"
	"github.com/dgunay/techalyzer/signals"
	"github.com/dgunay/techalyzer/trading"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatMonth(t *testing.T) *marketdata.Prices {
	t.Helper()
	var entries []marketdata.Entry
	for d := common.Date(2012, time.January, 2); !d.After(common.Date(2012, time.February, 2)); d = d.AddDate(0, 0, 1) {
		entries = append(entries, marketdata.Entry{Date: d, Value: 30})
	}
	p, err := marketdata.New("jpm", entries)
	require.NoError(t, err)
	return p
}

func positions(tr *trading.Trades) []trading.Position {
	var out []trading.Position
	for _, e := range tr.Entries() {
		out = append(out, e.Value)
	}
	return out
}

func TestNewValidation(t *testing.T) {
	t.Parallel()
	m, err := New(0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultShares, m.Shares)
	assert.Equal(t, Name, m.Name())

	_, err = New(1, -0.1, 0)
	assert.ErrorIs(t, err, errInvalidDeadZone)
	_, err = New(1, 0, 1.5)
	assert.ErrorIs(t, err, errInvalidDisposition)
}

func TestRisingPrices(t *testing.T) {
	t.Parallel()
	var entries []marketdata.Entry
	for i := 1; i <= 8; i++ {
		entries = append(entries, marketdata.Entry{Date: common.Date(2020, time.March, i), Value: float64(i)})
	}
	prices, err := marketdata.New("jpm", entries)
	require.NoError(t, err)

	m, err := New(1000, 0, 0)
	require.NoError(t, err)
	trades, err := m.GetTrades(prices)
	require.NoError(t, err)
	got := positions(trades)
	require.Len(t, got, 8)
	assert.Equal(t, trading.Out(), got[0])
	for i := 1; i < len(got); i++ {
		assert.Equal(t, trading.Short(1000), got[i], "day %d", i)
	}
}

func TestDisposition(t *testing.T) {
	t.Parallel()
	prices := flatMonth(t)
	for _, tc := range []struct {
		disposition float64
		want        trading.Position
	}{
		{-1, trading.Short(1)},
		{1, trading.Long(1)},
		{0, trading.Out()},
	} {
		m, err := New(1, 0, tc.disposition)
		require.NoError(t, err)
		trades, err := m.GetTrades(prices)
		require.NoError(t, err)
		require.Equal(t, prices.Len(), trades.Len())
		for _, p := range positions(trades) {
			assert.Equal(t, tc.want, p, "disposition %v", tc.disposition)
		}
	}
}

func TestDeadZone(t *testing.T) {
	t.Parallel()
	m, err := New(1, 0.6, 0.5)
	require.NoError(t, err)
	trades, err := m.GetTrades(flatMonth(t))
	require.NoError(t, err)
	for _, p := range positions(trades) {
		assert.Equal(t, trading.Out(), p)
	}
}

func TestRegimeWeighting(t *testing.T) {
	t.Parallel()
	var entries []marketdata.Entry
	d := common.Date(2020, time.January, 1)
	for i := 0; i < 60; i++ {
		entries = append(entries, marketdata.Entry{Date: d.AddDate(0, 0, i), Value: 100 * math.Pow(1.03, float64(i))})
	}
	prices, err := marketdata.New("jpm", entries)
	require.NoError(t, err)

	m, err := New(10, 0, 0)
	require.NoError(t, err)
	m.RegimeWindow = 5
	trades, err := m.GetTrades(prices)
	require.NoError(t, err)
	got := positions(trades)
	require.Len(t, got, 60)
	// a steep trend leaves only the trend followers voting, and they stay
	// silent until MACD has warmed up
	warm := signals.DefaultMACDSlow + signals.DefaultMACDSignal - 2
	assert.Equal(t, trading.Out(), got[warm-1])
	for i := warm; i < len(got); i++ {
		assert.Equal(t, trading.Long(10), got[i], "day %d", i)
	}

	m.RegimeWindow = 0
	plain, err := m.GetTrades(prices)
	require.NoError(t, err)
	assert.Equal(t, trading.Short(10), positions(plain)[len(got)-1])
}
