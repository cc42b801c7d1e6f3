package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/waseemisle/hey-spruceapp-sub000/internal/common"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Locations catalog",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS locations (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX IF NOT EXISTS idx_locations_name ON locations(name)`,
			)
		},
	},
	{
		Version:     2,
		Description: "Alias rules for remembered venue names",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS location_aliases (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					pattern TEXT NOT NULL UNIQUE,
					location_id TEXT NOT NULL REFERENCES locations(id) ON DELETE CASCADE,
					is_regex INTEGER NOT NULL DEFAULT 0,
					priority INTEGER NOT NULL DEFAULT 0,
					source TEXT NOT NULL DEFAULT 'MANUAL',
					use_count INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX IF NOT EXISTS idx_location_aliases_location ON location_aliases(location_id)`,
			)
		},
	},
	{
		Version:     3,
		Description: "Import runs and per-row results",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS import_runs (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					source_file TEXT NOT NULL,
					sheet TEXT,
					started_at DATETIME NOT NULL,
					total INTEGER NOT NULL DEFAULT 0
				)`,
				`CREATE TABLE IF NOT EXISTS import_results (
					run_id INTEGER NOT NULL REFERENCES import_runs(id) ON DELETE CASCADE,
					row_number INTEGER NOT NULL,
					search_name TEXT NOT NULL,
					fields TEXT,
					location_id TEXT,
					score REAL NOT NULL DEFAULT 0,
					method TEXT NOT NULL,
					rule TEXT,
					status TEXT NOT NULL,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					PRIMARY KEY (run_id, row_number)
				)`,
				`CREATE INDEX IF NOT EXISTS idx_import_results_status ON import_results(run_id, status)`,
			)
		},
	},
}

func execAll(tx *sql.Tx, queries ...string) error {
	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query '%s': %w", query, err)
		}
	}
	return nil
}

// Migrate runs all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if currentVersion > ExpectedSchemaVersion {
		return fmt.Errorf("%w: database is at version %d but this build supports up to %d",
			common.ErrSchemaMismatch, currentVersion, ExpectedSchemaVersion)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Debug("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("%w: expected %d, got %d", common.ErrSchemaMismatch, ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
