package aggregation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/finance-dashboard/internal/model"
	"go.uber.org/zap"
)

// Sync results reported to the Recorder.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// SyncStore is the storage the Syncer needs.
type SyncStore interface {
	ListLinkedItems(ctx context.Context) ([]model.LinkedItem, error)
	ListLinkedItemsForUser(ctx context.Context, userID uuid.UUID) ([]model.LinkedItem, error)
	SaveSnapshot(ctx context.Context, s *model.NetWorthSnapshot) error
	MarkItemSynced(ctx context.Context, id uuid.UUID, at time.Time) error
}

// Recorder counts sync outcomes.
type Recorder interface {
	SyncResult(result string)
}

type nopRecorder struct{}

func (nopRecorder) SyncResult(string) {}

// ErrNoLinkedItems is returned when a user has nothing to sync.
var ErrNoLinkedItems = errors.New("no linked items")

// Syncer pulls balances for linked items and records net-worth snapshots.
type Syncer struct {
	store    SyncStore
	provider Provider
	logger   *zap.Logger
	recorder Recorder
	now      func() time.Time
}

// NewSyncer creates a Syncer. A nil recorder discards results and a nil
// clock uses time.Now.
func NewSyncer(store SyncStore, provider Provider, logger *zap.Logger, recorder Recorder, now func() time.Time) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Syncer{store: store, provider: provider, logger: logger, recorder: recorder, now: now}
}

// SyncUser combines the balances of every item the user linked into a
// single snapshot.
func (s *Syncer) SyncUser(ctx context.Context, userID uuid.UUID) (model.NetWorthSnapshot, error) {
	items, err := s.store.ListLinkedItemsForUser(ctx, userID)
	if err != nil {
		return model.NetWorthSnapshot{}, fmt.Errorf("failed to list linked items: %w", err)
	}
	snap, err := s.syncItems(ctx, userID, items)
	if err != nil {
		s.recorder.SyncResult(ResultFailure)
		return model.NetWorthSnapshot{}, err
	}
	s.recorder.SyncResult(ResultSuccess)
	return snap, nil
}

// SyncAll syncs every user with linked items. One user's failure does not
// stop the others; the failures are joined into the returned error.
func (s *Syncer) SyncAll(ctx context.Context) (int, error) {
	items, err := s.store.ListLinkedItems(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list linked items: %w", err)
	}

	var (
		order  []uuid.UUID
		byUser = make(map[uuid.UUID][]model.LinkedItem)
	)
	for _, item := range items {
		if _, seen := byUser[item.UserID]; !seen {
			order = append(order, item.UserID)
		}
		byUser[item.UserID] = append(byUser[item.UserID], item)
	}

	var (
		synced int
		errs   []error
	)
	for _, userID := range order {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if _, err := s.syncItems(ctx, userID, byUser[userID]); err != nil {
			s.recorder.SyncResult(ResultFailure)
			s.logger.Error("account sync failed",
				zap.String("op", "aggregation.SyncAll"),
				zap.String("userId", userID.String()),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("user %s: %w", userID, err))
			continue
		}
		s.recorder.SyncResult(ResultSuccess)
		synced++
	}

	s.logger.Info("account sync finished",
		zap.String("op", "aggregation.SyncAll"),
		zap.Int("users", len(order)),
		zap.Int("synced", synced))
	return synced, errors.Join(errs...)
}

func (s *Syncer) syncItems(ctx context.Context, userID uuid.UUID, items []model.LinkedItem) (model.NetWorthSnapshot, error) {
	if len(items) == 0 {
		return model.NetWorthSnapshot{}, ErrNoLinkedItems
	}

	var accounts []model.Account
	for _, item := range items {
		balances, err := s.provider.Balances(ctx, item.AccessToken)
		if err != nil {
			return model.NetWorthSnapshot{}, fmt.Errorf("item %s: %w", item.ItemID, err)
		}
		accounts = append(accounts, balances...)
	}

	at := s.now()
	snap := model.NewSnapshot(userID, accounts, model.SourcePlaid, at)
	if err := s.store.SaveSnapshot(ctx, &snap); err != nil {
		return model.NetWorthSnapshot{}, fmt.Errorf("failed to save snapshot: %w", err)
	}

	for _, item := range items {
		if err := s.store.MarkItemSynced(ctx, item.ID, at); err != nil {
			s.logger.Warn("failed to mark item synced",
				zap.String("op", "aggregation.syncItems"),
				zap.String("itemId", item.ItemID),
				zap.Error(err))
		}
	}

	s.logger.Info("recorded net worth snapshot",
		zap.String("op", "aggregation.syncItems"),
		zap.String("userId", userID.String()),
		zap.Int("accounts", len(accounts)),
		zap.String("netWorth", snap.NetWorth.StringFixed(2)))
	return snap, nil
}
