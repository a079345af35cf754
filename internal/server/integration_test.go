package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/iwvelando/finance-dashboard/internal/auth"
	"github.com/iwvelando/finance-dashboard/internal/metrics"
	"github.com/iwvelando/finance-dashboard/internal/retirement"
	"github.com/iwvelando/finance-dashboard/internal/store"
	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TestDashboardIntegration drives the HTTP API end to end against a migrated
// SQLite database.
func TestDashboardIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "dashboard.db")
	db, err := store.Open(ctx, constants.DriverSQLite, dsn, zap.NewNop(), store.WithClock(clock))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	tokens, err := auth.NewTokens("integration-secret", time.Hour, clock)
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	srv := httptest.NewServer(NewHandler(Options{
		Store:   db,
		Tokens:  tokens,
		Metrics: metrics.NewCollector(),
		Logger:  zap.NewNop(),
		Version: "integration",
		Now:     clock,
	}))
	defer srv.Close()

	call := func(method, path, token string, body interface{}, status int, out interface{}) {
		t.Helper()
		var buf bytes.Buffer
		if body != nil {
			if err := json.NewEncoder(&buf).Encode(body); err != nil {
				t.Fatalf("encode body: %v", err)
			}
		}
		req, err := http.NewRequest(method, srv.URL+path, &buf)
		if err != nil {
			t.Fatalf("new request: %v", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := srv.Client().Do(req)
		if err != nil {
			t.Fatalf("%s %s: %v", method, path, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != status {
			var e errorResponse
			_ = json.NewDecoder(resp.Body).Decode(&e)
			t.Fatalf("%s %s: expected status %d, got %d (%+v)", method, path, status, resp.StatusCode, e)
		}
		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				t.Fatalf("%s %s: decode response: %v", method, path, err)
			}
		}
	}

	creds := map[string]string{"email": "investor@example.com", "password": "long enough password"}
	call(http.MethodPost, "/api/auth/register", "", creds, http.StatusCreated, nil)
	call(http.MethodPost, "/api/auth/register", "", creds, http.StatusConflict, nil)

	var login map[string]string
	call(http.MethodPost, "/api/auth/login", "", creds, http.StatusOK, &login)
	token := login["token"]
	if token == "" {
		t.Fatal("login returned no token")
	}

	var created propertyResponse
	call(http.MethodPost, "/api/properties", token, sampleProperty(), http.StatusCreated, &created)

	var fetched propertyResponse
	call(http.MethodGet, "/api/properties/"+created.ID.String(), token, nil, http.StatusOK, &fetched)
	if fetched.Name != "Maple Duplex" || len(fetched.Expenses) != 2 || len(fetched.RentCollected) != 2 {
		t.Fatalf("property did not survive a round trip: %+v", fetched.Property)
	}
	if !fetched.NOI.Equal(decimal.NewFromInt(-300)) || !fetched.CashFlow.Equal(decimal.NewFromInt(-11100)) {
		t.Fatalf("unexpected metrics NOI=%s CashFlow=%s", fetched.NOI, fetched.CashFlow)
	}

	call(http.MethodPut, "/api/retirement/goals", token, map[string]interface{}{
		"currentAge":             30,
		"retirementAge":          32,
		"monthlySpend":           5000,
		"currentNetWorth":        100000,
		"annualSavings":          10000,
		"mortgage":               30,
		"cars":                   10,
		"healthCare":             15,
		"foodAndDrinks":          20,
		"travelAndEntertainment": 15,
		"reinvestedFunds":        10,
	}, http.StatusOK, nil)

	var projection projectionResponse
	call(http.MethodGet, "/api/retirement/projection?rates=0.07", token, nil, http.StatusOK, &projection)
	if !projection.TotalAtRetirement.Equal(decimal.NewFromInt(135190)) {
		t.Fatalf("TotalAtRetirement = %s, expected 135190", projection.TotalAtRetirement)
	}

	call(http.MethodPost, "/api/networth", token, map[string]interface{}{"assets": 300000, "liabilities": 80000}, http.StatusCreated, nil)

	var cmp retirement.PeerComparison
	call(http.MethodGet, "/api/networth/comparison", token, nil, http.StatusOK, &cmp)
	if cmp.Bracket != "30-39" || !cmp.UserNetWorth.Equal(decimal.NewFromInt(220000)) {
		t.Fatalf("unexpected comparison %+v", cmp)
	}

	call(http.MethodDelete, "/api/properties/"+created.ID.String(), token, nil, http.StatusNoContent, nil)
	call(http.MethodGet, "/api/properties/"+created.ID.String(), token, nil, http.StatusNotFound, nil)
}
