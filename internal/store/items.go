package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/finance-dashboard/internal/apperr"
	"github.com/iwvelando/finance-dashboard/internal/model"
)

const itemColumns = `id, user_id, item_id, access_token, institution, created_at, last_synced_at`

// SaveLinkedItem stores a new aggregation link. Linking the same provider
// item twice yields apperr.ErrConflict.
func (s *SQLStore) SaveLinkedItem(ctx context.Context, item *model.LinkedItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO linked_items (`+itemColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		item.ID, item.UserID, item.ItemID, item.AccessToken, item.Institution, item.CreatedAt, nullTime(item.LastSyncedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("item %s: %w", item.ItemID, apperr.ErrConflict)
		}
		return fmt.Errorf("failed to insert linked item: %w", err)
	}
	return nil
}

// ListLinkedItems returns every linked item across users.
func (s *SQLStore) ListLinkedItems(ctx context.Context) ([]model.LinkedItem, error) {
	return s.queryItems(ctx, `SELECT `+itemColumns+` FROM linked_items ORDER BY created_at, id`)
}

// ListLinkedItemsForUser returns the user's linked items.
func (s *SQLStore) ListLinkedItemsForUser(ctx context.Context, userID uuid.UUID) ([]model.LinkedItem, error) {
	return s.queryItems(ctx, `SELECT `+itemColumns+` FROM linked_items WHERE user_id = $1 ORDER BY created_at, id`, userID)
}

// MarkItemSynced records a successful balance sync.
func (s *SQLStore) MarkItemSynced(ctx context.Context, id uuid.UUID, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `UPDATE linked_items SET last_synced_at = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("failed to update linked item: %w", err)
	}
	return expectOneRow(res, "linked item")
}

func (s *SQLStore) queryItems(ctx context.Context, query string, args ...interface{}) ([]model.LinkedItem, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query linked items: %w", err)
	}

	var items []model.LinkedItem
	err = eachRow(rows, func() error {
		var (
			item   model.LinkedItem
			synced sql.NullTime
		)
		if err := rows.Scan(&item.ID, &item.UserID, &item.ItemID, &item.AccessToken, &item.Institution, &item.CreatedAt, &synced); err != nil {
			return err
		}
		if synced.Valid {
			t := synced.Time
			item.LastSyncedAt = &t
		}
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read linked items: %w", err)
	}
	return items, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
