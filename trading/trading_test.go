package trading

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/dgunay/techalyzer/common"
	"github.com/dgunay/techalyzer/marketdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return common.Date(2020, time.March, d)
}

func TestPositionPredicates(t *testing.T) {
	t.Parallel()
	assert.True(t, Long(1).IsEntry())
	assert.True(t, Short(1).IsEntry())
	assert.False(t, Out().IsEntry())
	assert.False(t, Hold().IsEntry())

	assert.True(t, Long(1).IsOpposite(Short(5)))
	assert.True(t, Short(1).IsOpposite(Long(5)))
	assert.False(t, Long(1).IsOpposite(Long(5)))
	assert.False(t, Out().IsOpposite(Long(5)))

	assert.True(t, Out().IsExitFrom(Long(10)))
	assert.True(t, Short(3).IsExitFrom(Long(10)))
	assert.False(t, Long(3).IsExitFrom(Long(10)))
	assert.False(t, Out().IsExitFrom(Out()))
	assert.False(t, Long(3).IsExitFrom(Out()))
	assert.False(t, Hold().IsExitFrom(Long(10)))
}

func TestSignedShares(t *testing.T) {
	t.Parallel()
	assert.Equal(t, int64(7), Long(7).SignedShares())
	assert.Equal(t, int64(-7), Short(7).SignedShares())
	assert.Zero(t, Out().SignedShares())
	assert.Zero(t, Hold().SignedShares())
}

func TestResolve(t *testing.T) {
	t.Parallel()
	assert.Equal(t, Out(), Resolve(Hold(), Position{}))
	assert.Equal(t, Long(5), Resolve(Hold(), Long(5)))
	assert.Equal(t, Short(2), Resolve(Short(2), Long(5)))
	assert.Equal(t, Out(), Resolve(Out(), Long(5)))
}

func TestPositionText(t *testing.T) {
	t.Parallel()
	for _, p := range []Position{Long(1000), Short(3), Out(), Hold()} {
		b, err := p.MarshalText()
		require.NoError(t, err)
		var back Position
		require.NoError(t, back.UnmarshalText(b))
		assert.Equal(t, p, back)
	}
	assert.Equal(t, "Long(1000)", Long(1000).String())
	for _, bad := range []string{"Sideways(1)", "Long(x)", "Long", "Long(-1)"} {
		_, err := ParsePosition(bad)
		assert.ErrorIs(t, err, ErrInvalidPosition, bad)
	}
}

func TestTradesResolved(t *testing.T) {
	t.Parallel()
	tr := NewTrades()
	tr.Set(day(4), Short(2))
	tr.Set(day(1), Hold())
	tr.Set(day(2), Long(5))
	tr.Set(day(3), Hold())
	tr.Set(day(5), Hold())

	assert.Equal(t, []time.Time{day(1), day(2), day(3), day(4), day(5)}, tr.Dates())
	r := tr.Resolved()
	var got []Position
	for _, e := range r.Entries() {
		got = append(got, e.Value)
	}
	assert.Equal(t, []Position{Out(), Long(5), Long(5), Short(2), Short(2)}, got)
	raw, ok := tr.Get(day(3))
	require.True(t, ok)
	assert.Equal(t, Hold(), raw, "raw sequence untouched")
}

func TestTradesJSON(t *testing.T) {
	t.Parallel()
	tr := NewTrades()
	tr.Set(day(1), Long(10))
	tr.Set(day(2), Hold())
	b, err := json.Marshal(tr)
	require.NoError(t, err)
	assert.JSONEq(t, `{"2020-03-01":"Long(10)","2020-03-02":"Hold"}`, string(b))

	back := NewTrades()
	require.NoError(t, json.Unmarshal(b, back))
	assert.Equal(t, tr.Entries(), back.Entries())
}

func TestCovers(t *testing.T) {
	t.Parallel()
	prices, err := marketdata.New("jpm", []marketdata.Entry{{Date: day(1), Value: 1}, {Date: day(2), Value: 2}})
	require.NoError(t, err)
	tr := NewTrades()
	tr.Set(day(1), Long(1))
	assert.ErrorIs(t, tr.Covers(prices), ErrNoTrades)
	tr.Set(day(2), Hold())
	assert.NoError(t, tr.Covers(prices))
}

type staticModel struct {
	trades *Trades
	err    error
}

func (s staticModel) Name() string { return "static" }

func (s staticModel) GetTrades(*marketdata.Prices) (*Trades, error) {
	return s.trades, s.err
}

func TestSuggest(t *testing.T) {
	t.Parallel()
	prices, err := marketdata.New("jpm", []marketdata.Entry{{Date: day(1), Value: 1}, {Date: day(2), Value: 2}})
	require.NoError(t, err)
	tr := NewTrades()
	tr.Set(day(1), Short(4))
	tr.Set(day(2), Hold())

	s, err := Suggest(staticModel{trades: tr}, prices)
	require.NoError(t, err)
	assert.Equal(t, day(2), s.Date)
	assert.Equal(t, Short(4), s.Position)
	assert.Equal(t, Hold(), s.Raw)

	boom := errors.New("boom")
	_, err = Suggest(staticModel{err: boom}, prices)
	assert.ErrorIs(t, err, boom)

	_, err = Suggest(staticModel{trades: NewTrades()}, prices)
	assert.ErrorIs(t, err, ErrNoTrades)

	empty, err := marketdata.New("jpm", nil)
	require.NoError(t, err)
	_, err = Suggest(staticModel{trades: NewTrades()}, empty)
	assert.ErrorIs(t, err, ErrNoTrades)
}
