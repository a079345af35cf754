// Package aggregation links financial institutions through Plaid, pulls
// account balances and turns them into net-worth snapshots.
package aggregation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/iwvelando/finance-dashboard/internal/model"
	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"github.com/plaid/plaid-go/v20/plaid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	clientName      = "Finance Dashboard"
	rateLimitedCode = "RATE_LIMIT_EXCEEDED"
)

// Provider is the aggregation surface used by the HTTP layer and the syncer.
type Provider interface {
	CreateLinkToken(ctx context.Context, userID uuid.UUID) (string, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (accessToken, itemID string, err error)
	Balances(ctx context.Context, accessToken string) ([]model.Account, error)
}

// PlaidConfig holds Plaid API credentials.
type PlaidConfig struct {
	ClientID    string
	Secret      string
	Environment string
}

// Validate ensures the credentials and environment are usable.
func (c PlaidConfig) Validate() error {
	if c.ClientID == "" {
		return errors.New("plaid client ID is required")
	}
	if c.Secret == "" {
		return errors.New("plaid secret is required")
	}
	switch c.Environment {
	case constants.PlaidEnvironmentSandbox, constants.PlaidEnvironmentProduction:
		return nil
	default:
		return fmt.Errorf("invalid Plaid environment %q: must be %s or %s",
			c.Environment, constants.PlaidEnvironmentSandbox, constants.PlaidEnvironmentProduction)
	}
}

// PlaidClient implements Provider against the Plaid API.
type PlaidClient struct {
	client *plaid.APIClient
	logger *zap.Logger
	retry  RetryOptions
}

// NewPlaidClient configures a Plaid API client for cfg.Environment.
func NewPlaidClient(cfg PlaidConfig, logger *zap.Logger) (*PlaidClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	configuration := plaid.NewConfiguration()
	configuration.AddDefaultHeader("PLAID-CLIENT-ID", cfg.ClientID)
	configuration.AddDefaultHeader("PLAID-SECRET", cfg.Secret)
	switch cfg.Environment {
	case constants.PlaidEnvironmentSandbox:
		configuration.UseEnvironment(plaid.Sandbox)
	case constants.PlaidEnvironmentProduction:
		configuration.UseEnvironment(plaid.Production)
	}

	return &PlaidClient{
		client: plaid.NewAPIClient(configuration),
		logger: logger,
		retry:  DefaultRetryOptions(),
	}, nil
}

// CreateLinkToken creates a Link token bound to userID.
func (c *PlaidClient) CreateLinkToken(ctx context.Context, userID uuid.UUID) (string, error) {
	user := plaid.LinkTokenCreateRequestUser{ClientUserId: userID.String()}
	request := plaid.NewLinkTokenCreateRequest(clientName, "en", []plaid.CountryCode{plaid.COUNTRYCODE_US}, user)
	request.SetProducts([]plaid.Products{plaid.PRODUCTS_TRANSACTIONS})

	resp, _, err := c.client.PlaidApi.LinkTokenCreate(ctx).LinkTokenCreateRequest(*request).Execute()
	if err != nil {
		return "", wrapPlaidError(err, "failed to create link token")
	}
	return resp.GetLinkToken(), nil
}

// ExchangePublicToken trades a Link public token for an item access token.
func (c *PlaidClient) ExchangePublicToken(ctx context.Context, publicToken string) (string, string, error) {
	request := plaid.NewItemPublicTokenExchangeRequest(publicToken)
	resp, _, err := c.client.PlaidApi.ItemPublicTokenExchange(ctx).ItemPublicTokenExchangeRequest(*request).Execute()
	if err != nil {
		return "", "", wrapPlaidError(err, "failed to exchange public token")
	}
	return resp.GetAccessToken(), resp.GetItemId(), nil
}

// Balances fetches real-time balances for every account on the item.
func (c *PlaidClient) Balances(ctx context.Context, accessToken string) ([]model.Account, error) {
	var accounts []plaid.AccountBase
	err := WithRetry(ctx, c.logger, c.retry, func() error {
		request := plaid.NewAccountsBalanceGetRequest(accessToken)
		resp, _, err := c.client.PlaidApi.AccountsBalanceGet(ctx).AccountsBalanceGetRequest(*request).Execute()
		if err != nil {
			return wrapPlaidError(err, "failed to fetch balances")
		}
		accounts = resp.GetAccounts()
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]model.Account, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, MapAccount(a))
	}
	c.logger.Debug("fetched balances",
		zap.String("op", "aggregation.Balances"),
		zap.Int("accounts", len(out)))
	return out, nil
}

// MapAccount converts a Plaid account. Credit and loan accounts are
// liabilities; everything else is an asset.
func MapAccount(a plaid.AccountBase) model.Account {
	balances := a.GetBalances()
	kind := model.KindAsset
	switch a.GetType() {
	case plaid.ACCOUNTTYPE_CREDIT, plaid.ACCOUNTTYPE_LOAN:
		kind = model.KindLiability
	}

	name := a.GetOfficialName()
	if name == "" {
		name = a.GetName()
	}

	return model.Account{
		ExternalID: a.GetAccountId(),
		Name:       name,
		Kind:       kind,
		Balance:    decimal.NewFromFloat(balances.GetCurrent()),
	}
}

// wrapPlaidError decorates Plaid API errors with their code. Rate limits are
// retryable; other API errors are not.
func wrapPlaidError(err error, msg string) error {
	plaidErr, convErr := plaid.ToPlaidError(err)
	if convErr != nil {
		return fmt.Errorf("%s: %w", msg, err)
	}
	if plaidErr.ErrorCode == rateLimitedCode {
		return &RetryableError{Err: fmt.Errorf("%s: %w", msg, ErrRateLimit), Retryable: true}
	}
	return &RetryableError{
		Err:       fmt.Errorf("%s: plaid API error: %s - %s", msg, plaidErr.ErrorCode, plaidErr.ErrorMessage),
		Retryable: false,
	}
}
