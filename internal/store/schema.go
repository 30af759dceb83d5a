// Package store keeps the history of comparison runs in a SQLite database.
package store

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// Schema versions:
// v1: runs and measurements
// v2: runs.source records where the dataset came from
const CurrentSchemaVersion = 2

// baseSchema creates the v1 tables; each statement is idempotent.
var baseSchema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id         TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		mode       TEXT NOT NULL,
		elements   INTEGER NOT NULL,
		step       INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS measurements (
		run_id    TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		algorithm TEXT NOT NULL,
		position  INTEGER NOT NULL,
		elements  INTEGER NOT NULL,
		steps     INTEGER NOT NULL,
		big_o     REAL,
		big_omega REAL,
		theta     REAL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_measurements_run ON measurements(run_id)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at)`,
	`CREATE TABLE IF NOT EXISTS schema_versions (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		version     INTEGER NOT NULL,
		applied_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
		description TEXT
	)`,
}

// columnMigration adds a column introduced after v1.
type columnMigration struct {
	Version int
	Table   string
	Column  string
	Def     string
}

var columnMigrations = []columnMigration{
	{2, "runs", "source", "TEXT NOT NULL DEFAULT ''"},
}

// migrate brings db up to CurrentSchemaVersion.
func migrate(db *sql.DB, logger *zap.Logger) error {
	for _, stmt := range baseSchema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	from := schemaVersion(db)
	if from >= CurrentSchemaVersion {
		return nil
	}

	for _, m := range columnMigrations {
		if columnExists(db, m.Table, m.Column) {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", m.Table, m.Column, m.Def)
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration v%d (%s.%s) failed: %w", m.Version, m.Table, m.Column, err)
		}
		logger.Debug("Added column", zap.String("table", m.Table), zap.String("column", m.Column))
	}

	if _, err := db.Exec(`INSERT INTO schema_versions (version, description) VALUES (?, ?)`,
		CurrentSchemaVersion, fmt.Sprintf("Migrated to schema version %d", CurrentSchemaVersion)); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	logger.Info("Migrated history schema", zap.Int("from", from), zap.Int("to", CurrentSchemaVersion))
	return nil
}

// schemaVersion reads the latest recorded version; 1 when none is recorded
// but the runs table exists.
func schemaVersion(db *sql.DB) int {
	var version int
	err := db.QueryRow(`SELECT version FROM schema_versions ORDER BY id DESC LIMIT 1`).Scan(&version)
	if err == nil {
		return version
	}
	if tableExists(db, "runs") {
		return 1
	}
	return 0
}

func columnExists(db *sql.DB, table, column string) bool {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false
	}
	defer rows.Close()

	for rows.Next() {
		var cid, notnull, pk int
		var name, ctype string
		var dflt any
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			continue
		}
		if name == column {
			return true
		}
	}
	return false
}

func tableExists(db *sql.DB, table string) bool {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&count); err != nil {
		return false
	}
	return count > 0
}
