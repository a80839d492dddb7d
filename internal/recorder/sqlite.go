package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists forecast runs to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS forecast_runs (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			kind         TEXT NOT NULL,
			identifier   TEXT NOT NULL,
			status       TEXT NOT NULL,
			error_kind   TEXT,
			error_msg    TEXT,
			points       INTEGER,
			latest_price REAL,
			cutoff_year  INTEGER,
			forecast_rows INTEGER,
			elapsed_ms   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON forecast_runs(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_identifier ON forecast_runs(identifier)`,

		`CREATE TABLE IF NOT EXISTS forecast_rows (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id     INTEGER NOT NULL REFERENCES forecast_runs(id),
			ds         TEXT NOT NULL,
			yhat       REAL,
			yhat_lower REAL,
			yhat_upper REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rows_run ON forecast_rows(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun writes the run and its forecast rows in one transaction.
func (r *SQLiteRecorder) RecordRun(run *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO forecast_runs
		(timestamp, kind, identifier, status, error_kind, error_msg,
		 points, latest_price, cutoff_year, forecast_rows, elapsed_ms)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), string(run.Kind), run.Identifier, run.Status,
		run.ErrorKind, run.ErrorMsg, run.Points, run.LatestPrice,
		run.CutoffYear, len(run.Forecast), run.Elapsed.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("run id: %w", err)
	}

	if len(run.Forecast) > 0 {
		stmt, err := tx.Prepare(`INSERT INTO forecast_rows
			(run_id, ds, yhat, yhat_lower, yhat_upper) VALUES (?,?,?,?,?)`)
		if err != nil {
			return fmt.Errorf("prepare rows: %w", err)
		}
		defer stmt.Close()
		for _, row := range run.Forecast {
			if _, err := stmt.Exec(runID, row.Time.Format("2006-01-02"), row.Yhat, row.YhatLower, row.YhatUpper); err != nil {
				return fmt.Errorf("insert row: %w", err)
			}
		}
	}
	return tx.Commit()
}

// CountRuns reports how many runs were recorded for identifier.
func (r *SQLiteRecorder) CountRuns(identifier string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM forecast_runs WHERE identifier = ?`, identifier).Scan(&n)
	return n, err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
