package database

var schema = []string{
	`CREATE TABLE IF NOT EXISTS backtest_runs (
		id TEXT NOT NULL PRIMARY KEY,
		symbol TEXT NOT NULL,
		model TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		initial_cash DOUBLE PRECISION NOT NULL,
		total_return DOUBLE PRECISION,
		volatility DOUBLE PRECISION,
		accuracy DOUBLE PRECISION,
		sharpe_ratio DOUBLE PRECISION,
		max_drawdown DOUBLE PRECISION,
		model_path TEXT,
		notes TEXT,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS backtest_valuations (
		run_id TEXT NOT NULL REFERENCES backtest_runs(id),
		day TEXT NOT NULL,
		valuation DOUBLE PRECISION NOT NULL,
		position TEXT NOT NULL,
		PRIMARY KEY (run_id, day)
	)`,
}

const (
	insertRun = `INSERT INTO backtest_runs (id, symbol, model, start_date, end_date,
		initial_cash, total_return, volatility, accuracy, sharpe_ratio, max_drawdown,
		model_path, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	insertValuation = `INSERT INTO backtest_valuations (run_id, day, valuation, position)
		VALUES ($1, $2, $3, $4)`

	selectRun = `SELECT id, symbol, model, start_date, end_date, initial_cash,
		total_return, volatility, accuracy, sharpe_ratio, max_drawdown,
		model_path, notes, created_at FROM backtest_runs`

	selectValuations = `SELECT day, valuation, position FROM backtest_valuations
		WHERE run_id = $1 ORDER BY day`
)
