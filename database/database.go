// Package database stores backtest runs in sqlite3 or postgres.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dgunay/techalyzer/common"
	"github.com/dgunay/techalyzer/log"
	"github.com/gofrs/uuid"
	// import postgres driver
	_ "github.com/lib/pq"
	// import sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/volatiletech/null"
)

const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Open connects to the configured database and applies the schema
func Open(ctx context.Context, cfg Config) (*DB, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case "", "sqlite", DBSQLite3:
		driver = DBSQLite3
	case "postgresql", DBPostgres:
		driver = DBPostgres
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedDriver, cfg.Driver)
	}
	if cfg.DSN == "" {
		return nil, ErrNoDSN
	}
	con, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, err
	}
	if driver == DBSQLite3 {
		con.SetMaxOpenConns(1)
	} else {
		con.SetMaxOpenConns(2)
		con.SetMaxIdleConns(1)
		con.SetConnMaxLifetime(time.Hour)
	}
	if err := con.PingContext(ctx); err != nil {
		return nil, errors.Join(err, con.Close())
	}
	db := &DB{SQL: con, driver: driver}
	if err := db.Migrate(ctx); err != nil {
		return nil, errors.Join(err, con.Close())
	}
	log.Debugf(log.Database, "connected to %s", driver)
	return db, nil
}

// Driver returns the dialect in use
func (d *DB) Driver() string {
	return d.driver
}

// Close closes the underlying connection pool
func (d *DB) Close() error {
	if d == nil || d.SQL == nil {
		return errNilDB
	}
	return d.SQL.Close()
}

// Migrate creates any missing tables
func (d *DB) Migrate(ctx context.Context) error {
	if d == nil || d.SQL == nil {
		return errNilDB
	}
	for i := range schema {
		if _, err := d.SQL.ExecContext(ctx, schema[i]); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}

// FiniteFloat maps NaN and infinities to NULL
func FiniteFloat(v float64) null.Float64 {
	return null.NewFloat64(v, !math.IsNaN(v) && !math.IsInf(v, 0))
}

// SaveRun stores run and its valuations in one transaction. A nil ID is
// replaced with a fresh V4 UUID and a zero CreatedAt with the current time.
func (d *DB) SaveRun(ctx context.Context, run *Run, valuations []Valuation) (err error) {
	if d == nil || d.SQL == nil {
		return errNilDB
	}
	if run == nil {
		return errNilRun
	}
	if run.ID == uuid.Nil {
		run.ID, err = uuid.NewV4()
		if err != nil {
			return err
		}
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	tx, err := d.SQL.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginTx %w", err)
	}
	defer func() {
		if err != nil {
			if errRB := tx.Rollback(); errRB != nil {
				log.Errorf(log.Database, "SaveRun tx.Rollback %v", errRB)
			}
		}
	}()

	_, err = tx.ExecContext(ctx, insertRun,
		run.ID.String(),
		run.Symbol,
		run.Model,
		common.FormatDate(run.Start),
		common.FormatDate(run.End),
		run.InitialCash,
		run.TotalReturn,
		run.Volatility,
		run.Accuracy,
		run.SharpeRatio,
		run.MaxDrawdown,
		run.ModelPath,
		run.Notes,
		run.CreatedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", run.ID, err)
	}
	for i := range valuations {
		_, err = tx.ExecContext(ctx, insertValuation,
			run.ID.String(),
			common.FormatDate(valuations[i].Date),
			valuations[i].Value,
			valuations[i].Position,
		)
		if err != nil {
			return fmt.Errorf("inserting valuation for %s: %w", common.FormatDate(valuations[i].Date), err)
		}
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	log.Debugf(log.Database, "saved run %s with %d valuations", run.ID, len(valuations))
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var r Run
	var id, start, end, created string
	err := row.Scan(&id, &r.Symbol, &r.Model, &start, &end, &r.InitialCash,
		&r.TotalReturn, &r.Volatility, &r.Accuracy, &r.SharpeRatio, &r.MaxDrawdown,
		&r.ModelPath, &r.Notes, &created)
	if err != nil {
		return r, err
	}
	if r.ID, err = uuid.FromString(id); err != nil {
		return r, err
	}
	if r.Start, err = common.ParseDate(start); err != nil {
		return r, err
	}
	if r.End, err = common.ParseDate(end); err != nil {
		return r, err
	}
	r.CreatedAt, err = time.Parse(timestampLayout, created)
	return r, err
}

// GetRun loads a run by id
func (d *DB) GetRun(ctx context.Context, id uuid.UUID) (*Run, error) {
	if d == nil || d.SQL == nil {
		return nil, errNilDB
	}
	r, err := scanRun(d.SQL.QueryRowContext(ctx, selectRun+" WHERE id = $1", id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRuns returns stored runs oldest first, restricted to symbol unless it
// is empty
func (d *DB) ListRuns(ctx context.Context, symbol string) ([]Run, error) {
	if d == nil || d.SQL == nil {
		return nil, errNilDB
	}
	var rows *sql.Rows
	var err error
	if symbol == "" {
		rows, err = d.SQL.QueryContext(ctx, selectRun+" ORDER BY created_at, id")
	} else {
		rows, err = d.SQL.QueryContext(ctx, selectRun+" WHERE symbol = $1 ORDER BY created_at, id", symbol)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Valuations returns the daily valuations of a run in date order
func (d *DB) Valuations(ctx context.Context, id uuid.UUID) ([]Valuation, error) {
	if d == nil || d.SQL == nil {
		return nil, errNilDB
	}
	rows, err := d.SQL.QueryContext(ctx, selectValuations, id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Valuation
	for rows.Next() {
		var v Valuation
		var day string
		if err := rows.Scan(&day, &v.Value, &v.Position); err != nil {
			return nil, err
		}
		if v.Date, err = common.ParseDate(day); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
