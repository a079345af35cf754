package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SnapshotSource records where a net-worth snapshot came from.
type SnapshotSource string

// Snapshot sources.
const (
	SourceManual SnapshotSource = "manual"
	SourcePlaid  SnapshotSource = "plaid"
	SourceOFX    SnapshotSource = "ofx"
)

// AccountKind classifies a balance as something owned or owed.
type AccountKind string

// Account kinds.
const (
	KindAsset     AccountKind = "asset"
	KindLiability AccountKind = "liability"
)

// Account is one balance line from a linked institution or imported statement.
type Account struct {
	ExternalID string          `json:"externalId"`
	Name       string          `json:"name"`
	Kind       AccountKind     `json:"kind"`
	Balance    decimal.Decimal `json:"balance"`
}

// NetWorthSnapshot is a point-in-time record of a user's net worth.
type NetWorthSnapshot struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	RecordedAt  time.Time       `json:"recordedAt"`
	Assets      decimal.Decimal `json:"assets" validate:"gte=0"`
	Liabilities decimal.Decimal `json:"liabilities" validate:"gte=0"`
	NetWorth    decimal.Decimal `json:"netWorth"`
	Source      SnapshotSource  `json:"source"`
}

// NewSnapshot sums account balances into a snapshot. Liability balances are
// counted by magnitude regardless of the sign the institution reports.
func NewSnapshot(userID uuid.UUID, accounts []Account, source SnapshotSource, at time.Time) NetWorthSnapshot {
	assets := decimal.Zero
	liabilities := decimal.Zero
	for _, a := range accounts {
		switch a.Kind {
		case KindLiability:
			liabilities = liabilities.Add(a.Balance.Abs())
		default:
			assets = assets.Add(a.Balance)
		}
	}
	return NetWorthSnapshot{
		ID:          uuid.New(),
		UserID:      userID,
		RecordedAt:  at,
		Assets:      assets,
		Liabilities: liabilities,
		NetWorth:    assets.Sub(liabilities),
		Source:      source,
	}
}
