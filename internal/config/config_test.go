package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"github.com/shopspring/decimal"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantError string
		check     func(t *testing.T, c *Configuration)
	}{
		{
			name: "defaults for omitted sections",
			body: "logging:\n  level: debug\n",
			check: func(t *testing.T, c *Configuration) {
				if c.Logging.Level != "debug" {
					t.Errorf("Logging.Level = %q, want debug", c.Logging.Level)
				}
				if c.Output.Format != constants.OutputFormatPretty {
					t.Errorf("Output.Format = %q, want pretty", c.Output.Format)
				}
				if c.Server.Address != constants.DefaultServerAddress {
					t.Errorf("Server.Address = %q", c.Server.Address)
				}
				if c.Database.Driver != constants.DriverSQLite {
					t.Errorf("Database.Driver = %q", c.Database.Driver)
				}
				if c.Auth.TokenTTL != 24*time.Hour {
					t.Errorf("Auth.TokenTTL = %s, want 24h", c.Auth.TokenTTL)
				}
				if c.Server.ShutdownTimeout != 15*time.Second {
					t.Errorf("Server.ShutdownTimeout = %s", c.Server.ShutdownTimeout)
				}
				if len(c.GrowthRates()) != 4 {
					t.Errorf("GrowthRates() = %v, want defaults", c.GrowthRates())
				}
			},
		},
		{
			name: "full file",
			body: `
output:
  format: csv
server:
  address: 127.0.0.1:9000
  maxUploadSize: 2M
database:
  driver: postgres
  dsn: postgres://localhost/findash
auth:
  jwtSecret: s3cret
  tokenTTL: 2h
sync:
  enabled: true
  schedule: "*/30 * * * *"
  timeout: 1m
retirement:
  rates: [0.04, 0.07]
benchmarks:
  - {minAge: 18, maxAge: 39, average: 50000}
  - {minAge: 40, maxAge: 0, average: 400000}
`,
			check: func(t *testing.T, c *Configuration) {
				size, err := c.Server.UploadSizeBytes()
				if err != nil || size != 2*1024*1024 {
					t.Errorf("UploadSizeBytes() = %d, %v", size, err)
				}
				if c.Database.Driver != constants.DriverPostgres {
					t.Errorf("Database.Driver = %q", c.Database.Driver)
				}
				if c.Auth.TokenTTL != 2*time.Hour {
					t.Errorf("Auth.TokenTTL = %s", c.Auth.TokenTTL)
				}
				if !c.Sync.Enabled || c.Sync.Timeout != time.Minute {
					t.Errorf("Sync = %+v", c.Sync)
				}
				rates := c.GrowthRates()
				if len(rates) != 2 || rates[1] != 0.07 {
					t.Errorf("GrowthRates() = %v", rates)
				}
				table, err := c.BenchmarkTable()
				if err != nil {
					t.Fatalf("BenchmarkTable() error = %v", err)
				}
				cmp := table.Compare(decimal.NewFromInt(1), 72)
				if cmp.Bracket != "40+" || !cmp.AgeGroupAverage.Equal(decimal.NewFromInt(400000)) {
					t.Errorf("Compare(72) = %+v", cmp)
				}
			},
		},
		{
			name:      "unknown driver",
			body:      "database:\n  driver: mysql\n",
			wantError: "expected database driver",
		},
		{
			name:      "unknown plaid environment",
			body:      "plaid:\n  clientId: abc\n  secret: shh\n  environment: development\n",
			wantError: "expected plaid environment",
		},
		{
			name:      "bad output format",
			body:      "output:\n  format: xml\n",
			wantError: "xml",
		},
		{
			name:      "bad upload size",
			body:      "server:\n  maxUploadSize: 10T\n",
			wantError: "server.maxUploadSize",
		},
		{
			name: "overlapping benchmarks",
			body: `
benchmarks:
  - {minAge: 18, maxAge: 40, average: 1}
  - {minAge: 40, maxAge: 50, average: 2}
`,
			wantError: "benchmarks",
		},
		{
			name:      "malformed yaml",
			body:      "logging: [\n",
			wantError: "error reading config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := LoadConfiguration(writeConfig(t, tt.body))
			if tt.wantError != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantError) {
					t.Fatalf("LoadConfiguration() error = %v, want containing %q", err, tt.wantError)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadConfiguration() error = %v", err)
			}
			tt.check(t, c)
		})
	}
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	if _, err := LoadConfiguration(filepath.Join(t.TempDir(), "nonexistent.yaml")); err == nil {
		t.Error("LoadConfiguration() expected error for missing file")
	}
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("FINDASH_DATABASE_DSN", "/tmp/override.db")
	t.Setenv("FINDASH_AUTH_JWTSECRET", "from-env")

	c, err := LoadConfiguration(writeConfig(t, "database:\n  dsn: file.db\n"))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if c.Database.DSN != "/tmp/override.db" {
		t.Errorf("Database.DSN = %q, want env override", c.Database.DSN)
	}
	if c.Auth.JWTSecret != "from-env" {
		t.Errorf("Auth.JWTSecret = %q, want env override", c.Auth.JWTSecret)
	}
}

func TestDefaultsWithoutFile(t *testing.T) {
	c, err := NewLoader("").Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	table, err := c.BenchmarkTable()
	if err != nil {
		t.Fatalf("BenchmarkTable() error = %v", err)
	}
	if len(table.Brackets()) == 0 {
		t.Error("expected built-in benchmark brackets")
	}
}

func TestGrowthRatesIsACopy(t *testing.T) {
	c := &Configuration{Retirement: RetirementConfig{Rates: []float64{0.03}}}
	rates := c.GrowthRates()
	rates[0] = 0.5
	if c.Retirement.Rates[0] != 0.03 {
		t.Error("GrowthRates() aliases the configured slice")
	}
}

func TestWatchReloads(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: info\n")
	loader := NewLoader(path)
	if _, err := loader.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	changed := make(chan *Configuration, 4)
	loader.Watch(func(c *Configuration) { changed <- c }, nil)

	if err := os.WriteFile(path, []byte("logging:\n  level: warn\n"), 0o600); err != nil {
		t.Fatalf("rewriting config: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-changed:
			if c.Logging.Level == "warn" {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for config reload")
		}
	}
}
