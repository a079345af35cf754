package store

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// SchemaVersion is the latest schema version this build expects.
const SchemaVersion = 3

// Migration is a versioned schema change.
type Migration struct {
	Version     int
	Description string
	Up          func(ctx context.Context, tx *sql.Tx) error
}

func execAll(ctx context.Context, tx *sql.Tx, queries ...string) error {
	for _, query := range queries {
		if _, err := tx.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Users and properties",
		Up: func(ctx context.Context, tx *sql.Tx) error {
			return execAll(ctx, tx,
				`CREATE TABLE IF NOT EXISTS users (
					id TEXT PRIMARY KEY,
					email TEXT UNIQUE NOT NULL,
					password_hash TEXT NOT NULL,
					created_at TIMESTAMP NOT NULL
				)`,
				`CREATE TABLE IF NOT EXISTS properties (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL REFERENCES users(id),
					name TEXT NOT NULL,
					address TEXT NOT NULL DEFAULT '',
					value TEXT NOT NULL,
					purchase_price TEXT NOT NULL,
					property_type TEXT NOT NULL,
					created_at TIMESTAMP NOT NULL,
					updated_at TIMESTAMP NOT NULL
				)`,
				`CREATE INDEX IF NOT EXISTS idx_properties_user ON properties(user_id)`,
				`CREATE TABLE IF NOT EXISTS property_rent (
					property_id TEXT NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
					month TEXT NOT NULL,
					amount TEXT NOT NULL,
					collected BOOLEAN NOT NULL,
					PRIMARY KEY (property_id, month)
				)`,
				`CREATE TABLE IF NOT EXISTS property_income (
					property_id TEXT NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
					position INTEGER NOT NULL,
					date TIMESTAMP NOT NULL,
					amount TEXT NOT NULL,
					notes TEXT NOT NULL DEFAULT '',
					PRIMARY KEY (property_id, position)
				)`,
				`CREATE TABLE IF NOT EXISTS property_expenses (
					property_id TEXT NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
					position INTEGER NOT NULL,
					category TEXT NOT NULL,
					amount TEXT NOT NULL,
					date TIMESTAMP NOT NULL,
					PRIMARY KEY (property_id, position)
				)`,
			)
		},
	},
	{
		Version:     2,
		Description: "Retirement goals and net-worth snapshots",
		Up: func(ctx context.Context, tx *sql.Tx) error {
			return execAll(ctx, tx,
				`CREATE TABLE IF NOT EXISTS retirement_goals (
					user_id TEXT PRIMARY KEY REFERENCES users(id),
					current_age INTEGER NOT NULL,
					retirement_age INTEGER NOT NULL,
					monthly_spend TEXT NOT NULL,
					mortgage_pct REAL NOT NULL,
					cars_pct REAL NOT NULL,
					health_care_pct REAL NOT NULL,
					food_and_drinks_pct REAL NOT NULL,
					travel_and_entertainment_pct REAL NOT NULL,
					reinvested_funds_pct REAL NOT NULL,
					current_net_worth TEXT NOT NULL,
					annual_savings TEXT NOT NULL,
					updated_at TIMESTAMP NOT NULL
				)`,
				`CREATE TABLE IF NOT EXISTS networth_snapshots (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL REFERENCES users(id),
					recorded_at TIMESTAMP NOT NULL,
					assets TEXT NOT NULL,
					liabilities TEXT NOT NULL,
					net_worth TEXT NOT NULL,
					source TEXT NOT NULL
				)`,
				`CREATE INDEX IF NOT EXISTS idx_networth_user_recorded ON networth_snapshots(user_id, recorded_at)`,
			)
		},
	},
	{
		Version:     3,
		Description: "Linked aggregation items",
		Up: func(ctx context.Context, tx *sql.Tx) error {
			return execAll(ctx, tx,
				`CREATE TABLE IF NOT EXISTS linked_items (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL REFERENCES users(id),
					item_id TEXT UNIQUE NOT NULL,
					access_token TEXT NOT NULL,
					institution TEXT NOT NULL DEFAULT '',
					created_at TIMESTAMP NOT NULL,
					last_synced_at TIMESTAMP
				)`,
			)
		},
	},
}

// Migrate applies every migration newer than the recorded schema version.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at TIMESTAMP NOT NULL
	)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	var current int
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		err := s.withTx(ctx, func(tx *sql.Tx) error {
			if err := m.Up(ctx, tx); err != nil {
				return fmt.Errorf("migration %d failed: %w", m.Version, err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO schema_migrations (version, description, applied_at) VALUES ($1, $2, $3)`,
				m.Version, m.Description, s.now()); err != nil {
				return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		s.logger.Info("applied migration",
			zap.String("op", "store.Migrate"),
			zap.Int("version", m.Version),
			zap.String("description", m.Description))
	}

	return nil
}
