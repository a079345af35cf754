package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/iwvelando/finance-dashboard/internal/model"
)

const snapshotColumns = `id, user_id, recorded_at, assets, liabilities, net_worth, source`

// ListSnapshots returns the user's snapshots, oldest first.
func (s *SQLStore) ListSnapshots(ctx context.Context, userID uuid.UUID) ([]model.NetWorthSnapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+snapshotColumns+` FROM networth_snapshots WHERE user_id = $1 ORDER BY recorded_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}

	snapshots := []model.NetWorthSnapshot{}
	err = eachRow(rows, func() error {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return err
		}
		snapshots = append(snapshots, snap)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshots: %w", err)
	}
	return snapshots, nil
}

// LatestSnapshot returns the most recently recorded snapshot.
func (s *SQLStore) LatestSnapshot(ctx context.Context, userID uuid.UUID) (model.NetWorthSnapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM networth_snapshots WHERE user_id = $1 ORDER BY recorded_at DESC, id DESC LIMIT 1`, userID)
	snap, err := scanSnapshot(row)
	if err != nil {
		return model.NetWorthSnapshot{}, notFound(err, "net worth snapshot")
	}
	return snap, nil
}

// SaveSnapshot inserts a snapshot, assigning an ID and timestamp when unset.
func (s *SQLStore) SaveSnapshot(ctx context.Context, snap *model.NetWorthSnapshot) error {
	if snap.ID == uuid.Nil {
		snap.ID = uuid.New()
	}
	if snap.RecordedAt.IsZero() {
		snap.RecordedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO networth_snapshots (`+snapshotColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		snap.ID, snap.UserID, snap.RecordedAt, snap.Assets, snap.Liabilities, snap.NetWorth, string(snap.Source))
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	return nil
}

func scanSnapshot(row rowScanner) (model.NetWorthSnapshot, error) {
	var (
		snap   model.NetWorthSnapshot
		source string
	)
	if err := row.Scan(&snap.ID, &snap.UserID, &snap.RecordedAt, &snap.Assets, &snap.Liabilities, &snap.NetWorth, &source); err != nil {
		return model.NetWorthSnapshot{}, err
	}
	snap.Source = model.SnapshotSource(source)
	return snap, nil
}
