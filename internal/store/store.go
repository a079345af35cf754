// Package store persists users, properties, retirement goals, net-worth
// snapshots and linked aggregation items in PostgreSQL or SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/finance-dashboard/internal/apperr"
	"github.com/iwvelando/finance-dashboard/internal/model"
	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Store is the persistence surface used by the HTTP layer and the CLI.
type Store interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByEmail(ctx context.Context, email string) (model.User, error)

	ListProperties(ctx context.Context, userID uuid.UUID) ([]model.Property, error)
	GetProperty(ctx context.Context, userID, id uuid.UUID) (model.Property, error)
	CreateProperty(ctx context.Context, p *model.Property) error
	UpdateProperty(ctx context.Context, p *model.Property) error
	DeleteProperty(ctx context.Context, userID, id uuid.UUID) error

	GetGoals(ctx context.Context, userID uuid.UUID) (model.RetirementGoals, error)
	SaveGoals(ctx context.Context, g *model.RetirementGoals) error

	ListSnapshots(ctx context.Context, userID uuid.UUID) ([]model.NetWorthSnapshot, error)
	LatestSnapshot(ctx context.Context, userID uuid.UUID) (model.NetWorthSnapshot, error)
	SaveSnapshot(ctx context.Context, s *model.NetWorthSnapshot) error

	SaveLinkedItem(ctx context.Context, item *model.LinkedItem) error
	ListLinkedItems(ctx context.Context) ([]model.LinkedItem, error)
	ListLinkedItemsForUser(ctx context.Context, userID uuid.UUID) ([]model.LinkedItem, error)
	MarkItemSynced(ctx context.Context, id uuid.UUID, at time.Time) error

	Migrate(ctx context.Context) error
	Close() error
}

// SQLStore implements Store on database/sql. Queries use $N placeholders in
// ascending order so the same text runs on lib/pq and go-sqlite3.
type SQLStore struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a SQLStore.
type Option func(*SQLStore)

// WithClock overrides the clock used for created/updated timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *SQLStore) {
		if now != nil {
			s.now = now
		}
	}
}

// Open connects to driver/dsn and verifies the connection.
func Open(ctx context.Context, driver, dsn string, logger *zap.Logger, opts ...Option) (*SQLStore, error) {
	switch driver {
	case constants.DriverPostgres, constants.DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == constants.DriverSQLite {
		// SQLite serializes writers; a single connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return New(db, logger, opts...), nil
}

// New wraps an existing connection pool.
func New(db *sql.DB, logger *zap.Logger, opts ...Option) *SQLStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SQLStore{
		db:     db,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close closes the connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// withTx runs fn in a transaction, rolling back on error.
func (s *SQLStore) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// isUniqueViolation recognizes unique-constraint failures from either driver.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// notFound maps sql.ErrNoRows to apperr.ErrNotFound.
func notFound(err error, resource string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(resource)
	}
	return err
}

func expectOneRow(res sql.Result, resource string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return apperr.NotFound(resource)
	}
	return nil
}
