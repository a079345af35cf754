package aggregation

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/iwvelando/finance-dashboard/internal/model"
)

// MockProvider is a Provider whose behavior is set by tests.
type MockProvider struct {
	CreateLinkTokenFn     func(ctx context.Context, userID uuid.UUID) (string, error)
	ExchangePublicTokenFn func(ctx context.Context, publicToken string) (string, string, error)
	BalancesFn            func(ctx context.Context, accessToken string) ([]model.Account, error)

	mu            sync.Mutex
	BalancesCalls []string
}

// CreateLinkToken implements Provider.
func (m *MockProvider) CreateLinkToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.CreateLinkTokenFn != nil {
		return m.CreateLinkTokenFn(ctx, userID)
	}
	return "link-sandbox-" + userID.String(), nil
}

// ExchangePublicToken implements Provider.
func (m *MockProvider) ExchangePublicToken(ctx context.Context, publicToken string) (string, string, error) {
	if m.ExchangePublicTokenFn != nil {
		return m.ExchangePublicTokenFn(ctx, publicToken)
	}
	return "access-" + publicToken, "item-" + publicToken, nil
}

// Balances implements Provider and records the access token it was called with.
func (m *MockProvider) Balances(ctx context.Context, accessToken string) ([]model.Account, error) {
	m.mu.Lock()
	m.BalancesCalls = append(m.BalancesCalls, accessToken)
	m.mu.Unlock()

	if m.BalancesFn != nil {
		return m.BalancesFn(ctx, accessToken)
	}
	return []model.Account{}, nil
}
