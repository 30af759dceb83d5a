package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"sortlab/internal/driver"
)

// ErrRunNotFound is returned when no run matches the requested ID.
var ErrRunNotFound = errors.New("run not found")

// Run is the header of one recorded comparison.
type Run struct {
	ID        string
	CreatedAt time.Time
	Mode      driver.Mode
	Elements  int
	Step      int
	// Source describes the dataset: a file path, "random", or empty.
	Source string
}

// Measurement is one stored (algorithm, prefix length, steps) point.
// The bound fields are nil for plain comparisons.
type Measurement struct {
	Algorithm string
	Elements  int
	Steps     int
	BigO      *float64
	BigOmega  *float64
	Theta     *float64
}

// HistoryStore records comparison runs.
type HistoryStore struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
	now    func() time.Time
}

// Open opens (creating if needed) the history database at path. ":memory:"
// gives a private in-memory database.
func Open(path string, logger *zap.Logger) (*HistoryStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serialises writes.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logger.Debug("Failed to set sqlite busy_timeout", zap.Error(err))
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		logger.Debug("Failed to enable sqlite foreign keys", zap.Error(err))
	}

	if err := migrate(db, logger); err != nil {
		db.Close()
		return nil, err
	}
	logger.Debug("History store opened", zap.String("path", path))

	return &HistoryStore{db: db, path: path, logger: logger, now: time.Now}, nil
}

// Close releases the database.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

// RecordRun stores a report and every measurement in it, returning the new
// run header. source describes where the dataset came from.
func (s *HistoryStore) RecordRun(ctx context.Context, report *driver.Report, source string) (Run, error) {
	if report == nil {
		return Run{}, errors.New("nil report")
	}
	run := Run{
		ID:        uuid.NewString(),
		CreatedAt: s.now().UTC(),
		Mode:      report.Mode,
		Elements:  report.Elements,
		Step:      report.Step,
		Source:    source,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, mode, elements, step, source) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.UnixNano(), string(run.Mode), run.Elements, run.Step, run.Source); err != nil {
		return Run{}, fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO measurements (run_id, algorithm, position, elements, steps, big_o, big_omega, theta)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Run{}, fmt.Errorf("failed to prepare measurement insert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for pos, series := range report.Series {
		for _, p := range series.Points {
			var bigO, bigOmega, theta sql.NullFloat64
			if p.Bounds != nil {
				bigO = sql.NullFloat64{Float64: p.Bounds.BigO, Valid: true}
				bigOmega = sql.NullFloat64{Float64: p.Bounds.BigOmega, Valid: true}
				theta = sql.NullFloat64{Float64: p.Bounds.Theta, Valid: true}
			}
			if _, err := stmt.ExecContext(ctx, run.ID, series.Algorithm.Name, pos, p.N, p.Steps, bigO, bigOmega, theta); err != nil {
				return Run{}, fmt.Errorf("failed to insert measurement: %w", err)
			}
			count++
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("failed to commit run: %w", err)
	}
	s.logger.Info("Recorded run",
		zap.String("run_id", run.ID),
		zap.String("mode", string(run.Mode)),
		zap.Int("measurements", count))
	return run, nil
}

// ListRuns returns the most recent runs first. limit <= 0 returns all.
func (s *HistoryStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, created_at, mode, elements, step, source FROM runs ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
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

// GetRun finds a run by full ID or by a unique ID prefix.
func (s *HistoryStore) GetRun(ctx context.Context, id string) (Run, error) {
	if id == "" {
		return Run{}, ErrRunNotFound
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, mode, elements, step, source FROM runs WHERE substr(id, 1, length(?)) = ? LIMIT 2`, id, id)
	if err != nil {
		return Run{}, fmt.Errorf("failed to query run: %w", err)
	}
	defer rows.Close()

	var found []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return Run{}, err
		}
		if r.ID == id {
			return r, nil
		}
		found = append(found, r)
	}
	if err := rows.Err(); err != nil {
		return Run{}, err
	}
	switch len(found) {
	case 0:
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case 1:
		return found[0], nil
	default:
		return Run{}, fmt.Errorf("run ID prefix %q is ambiguous", id)
	}
}

// Measurements returns every point of a run in recording order.
func (s *HistoryStore) Measurements(ctx context.Context, runID string) ([]Measurement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT algorithm, elements, steps, big_o, big_omega, theta
		 FROM measurements WHERE run_id = ? ORDER BY position, elements`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query measurements: %w", err)
	}
	defer rows.Close()

	var out []Measurement
	for rows.Next() {
		var m Measurement
		var bigO, bigOmega, theta sql.NullFloat64
		if err := rows.Scan(&m.Algorithm, &m.Elements, &m.Steps, &bigO, &bigOmega, &theta); err != nil {
			return nil, fmt.Errorf("failed to scan measurement: %w", err)
		}
		m.BigO = nullFloat(bigO)
		m.BigOmega = nullFloat(bigOmega)
		m.Theta = nullFloat(theta)
		out = append(out, m)
	}
	return out, rows.Err()
}

// DeleteRun removes a run and its measurements.
func (s *HistoryStore) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM measurements WHERE run_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete measurements: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var r Run
	var created int64
	var mode string
	if err := row.Scan(&r.ID, &created, &mode, &r.Elements, &r.Step, &r.Source); err != nil {
		return Run{}, fmt.Errorf("failed to scan run: %w", err)
	}
	r.CreatedAt = time.Unix(0, created).UTC()
	r.Mode = driver.Mode(mode)
	return r, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
