package database

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/dgunay/techalyzer/common"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), Config{Enabled: true, Driver: "sqlite3", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, db.Close()) })
	return db
}

func testRun(symbol string, created time.Time) *Run {
	return &Run{
		Symbol:      symbol,
		Model:       "manual",
		Start:       common.Date(2020, time.March, 2),
		End:         common.Date(2020, time.March, 4),
		InitialCash: 1000,
		TotalReturn: FiniteFloat(0.01),
		Volatility:  FiniteFloat(0.002),
		Accuracy:    FiniteFloat(math.NaN()),
		SharpeRatio: FiniteFloat(math.Inf(1)),
		MaxDrawdown: FiniteFloat(0),
		Notes:       null.StringFrom("first"),
		CreatedAt:   created,
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()
	_, err := Open(context.Background(), Config{Driver: "mysql", DSN: "x"})
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
	_, err = Open(context.Background(), Config{Driver: "sqlite3"})
	assert.ErrorIs(t, err, ErrNoDSN)

	db := openTestDB(t)
	assert.Equal(t, DBSQLite3, db.Driver())
	assert.NoError(t, db.Migrate(context.Background()), "migrations must be repeatable")

	var nilDB *DB
	assert.ErrorIs(t, nilDB.Migrate(context.Background()), errNilDB)
	assert.ErrorIs(t, nilDB.Close(), errNilDB)
}

func TestFiniteFloat(t *testing.T) {
	t.Parallel()
	assert.True(t, FiniteFloat(1.5).Valid)
	assert.Equal(t, 1.5, FiniteFloat(1.5).Float64)
	assert.False(t, FiniteFloat(math.NaN()).Valid)
	assert.False(t, FiniteFloat(math.Inf(-1)).Valid)
}

func TestSaveAndGetRun(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	ctx := context.Background()
	created := time.Date(2021, time.January, 2, 3, 4, 5, 6, time.UTC)
	run := testRun("JPM", created)
	vals := []Valuation{
		{Date: common.Date(2020, time.March, 4), Value: 1010, Position: "Hold"},
		{Date: common.Date(2020, time.March, 2), Value: 1000, Position: "Long(1)"},
		{Date: common.Date(2020, time.March, 3), Value: 1005, Position: "Hold"},
	}
	require.NoError(t, db.SaveRun(ctx, run, vals))
	require.NotEqual(t, uuid.Nil, run.ID)

	got, err := db.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "JPM", got.Symbol)
	assert.Equal(t, run.Start, got.Start)
	assert.Equal(t, run.End, got.End)
	assert.Equal(t, 1000.0, got.InitialCash)
	assert.Equal(t, null.Float64From(0.01), got.TotalReturn)
	assert.False(t, got.Accuracy.Valid)
	assert.False(t, got.SharpeRatio.Valid)
	assert.True(t, got.MaxDrawdown.Valid)
	assert.False(t, got.ModelPath.Valid)
	assert.Equal(t, "first", got.Notes.String)
	assert.True(t, created.Equal(got.CreatedAt))

	stored, err := db.Valuations(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, common.Date(2020, time.March, 2), stored[0].Date)
	assert.Equal(t, "Long(1)", stored[0].Position)
	assert.Equal(t, 1010.0, stored[2].Value)

	_, err = db.GetRun(ctx, uuid.Must(uuid.NewV4()))
	assert.ErrorIs(t, err, ErrRunNotFound)
	assert.ErrorIs(t, db.SaveRun(ctx, nil, nil), errNilRun)
}

func TestSaveRunRollsBack(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	ctx := context.Background()
	day := common.Date(2020, time.March, 2)
	run := testRun("JPM", time.Time{})
	err := db.SaveRun(ctx, run, []Valuation{
		{Date: day, Value: 1, Position: "Out"},
		{Date: day, Value: 2, Position: "Out"},
	})
	require.Error(t, err)
	_, err = db.GetRun(ctx, run.ID)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestListRuns(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	ctx := context.Background()
	base := time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)
	second := testRun("JPM", base.Add(2*time.Second))
	first := testRun("JPM", base.Add(time.Second))
	other := testRun("SPY", base)
	for _, r := range []*Run{second, first, other} {
		require.NoError(t, db.SaveRun(ctx, r, nil))
	}

	all, err := db.ListRuns(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, other.ID, all[0].ID)

	jpm, err := db.ListRuns(ctx, "JPM")
	require.NoError(t, err)
	require.Len(t, jpm, 2)
	assert.Equal(t, first.ID, jpm[0].ID)
	assert.Equal(t, second.ID, jpm[1].ID)

	none, err := db.ListRuns(ctx, "QQQ")
	require.NoError(t, err)
	assert.Empty(t, none)
}
