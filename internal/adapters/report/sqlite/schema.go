package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// SchemaVersion is the current report archive schema version.
const SchemaVersion = 1

const schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    label TEXT,
    created_at TEXT NOT NULL
);

-- One row per reporting point; step 0 is the initial population.
CREATE TABLE IF NOT EXISTS records (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    step INTEGER NOT NULL,
    year REAL NOT NULL,
    agents INTEGER NOT NULL,
    alive INTEGER NOT NULL,
    infected INTEGER NOT NULL,
    prevalence REAL,
    males_alive INTEGER NOT NULL,
    males_infected INTEGER NOT NULL,
    male_prevalence REAL,
    females_alive INTEGER NOT NULL,
    females_infected INTEGER NOT NULL,
    female_prevalence REAL,
    hiv_neg INTEGER NOT NULL,
    hiv_p INTEGER NOT NULL,
    cdc1 INTEGER NOT NULL,
    cdc2 INTEGER NOT NULL,
    cdc3 INTEGER NOT NULL,
    cdc4 INTEGER NOT NULL,
    partnerships INTEGER NOT NULL,
    PRIMARY KEY (run_id, step)
);

CREATE TABLE IF NOT EXISTS summaries (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    label TEXT NOT NULL,
    agents INTEGER NOT NULL,
    males INTEGER NOT NULL,
    females INTEGER NOT NULL,
    alive_males INTEGER NOT NULL,
    alive_females INTEGER NOT NULL,
    youngest REAL NOT NULL,
    oldest REAL NOT NULL,
    mean_age REAL NOT NULL,
    infected_males INTEGER NOT NULL,
    infected_females INTEGER NOT NULL,
    male_prevalence REAL,
    female_prevalence REAL,
    male_incidence REAL,
    female_incidence REAL,
    incidence REAL,
    PRIMARY KEY (run_id, label)
);
`

// InitSchema creates the archive tables when the database is new.
func InitSchema(ctx context.Context, db *sql.DB) error {
	var exists int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'schema_version'`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check schema version table: %w", err)
	}

	if exists > 0 {
		var version int
		if err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version); err != nil {
			return fmt.Errorf("read schema version: %w", err)
		}
		if version > SchemaVersion {
			return fmt.Errorf("unsupported report schema version %d (current %d)", version, SchemaVersion)
		}
		if version == SchemaVersion {
			return nil
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaV1); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_version (version, applied_at) VALUES (?, datetime('now'))`, SchemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	return tx.Commit()
}
