package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/finance-dashboard/internal/config"
	"github.com/iwvelando/finance-dashboard/internal/importer"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// run executes the root command with a quiet config and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfg := writeFile(t, "config.yaml", "logging:\n  level: error\n")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", cfg}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestInitializeLogger(t *testing.T) {
	tests := []struct {
		name     string
		config   config.LoggingConfig
		override string
		wantErr  bool
	}{
		{name: "defaults", config: config.LoggingConfig{}},
		{name: "console debug", config: config.LoggingConfig{Level: "debug", Format: "console"}},
		{name: "override wins", config: config.LoggingConfig{Level: "bogus"}, override: "warn"},
		{name: "invalid level", config: config.LoggingConfig{Level: "loud"}, wantErr: true},
		{name: "invalid format", config: config.LoggingConfig{Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := initializeLogger(tt.config, tt.override)
			if (err != nil) != tt.wantErr {
				t.Fatalf("initializeLogger() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && logger == nil {
				t.Fatal("initializeLogger() returned nil logger")
			}
		})
	}
}

func TestInitializeLoggerOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	logger, err := initializeLogger(config.LoggingConfig{Level: "info", OutputFile: path}, "")
	if err != nil {
		t.Fatalf("initializeLogger() error = %v", err)
	}
	logger.Info("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not created: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("log file missing entry: %s", data)
	}
}

const propertiesYAML = `properties:
  - name: Maple Duplex
    value: 250000
    purchasePrice: 200000
    propertyType: Long-Term Rental
    rentCollected:
      "2024-06": {amount: 1200, collected: true}
    expenses:
      - {category: Insurance, amount: 1500, date: 2024-06-01}
  - name: Home
    value: 400000
    purchasePrice: 350000
    propertyType: Primary Residence
`

func TestMetricsCommandCSV(t *testing.T) {
	file := writeFile(t, "properties.yaml", propertiesYAML)

	out, err := run(t, "metrics", "--file", file, "--as-of", "2024-07-01", "--output-format", "csv")
	if err != nil {
		t.Fatalf("metrics failed: %v\n%s", err, out)
	}

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("output is not CSV: %v\n%s", err, out)
	}
	if len(records) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(records))
	}
	if records[1][0] != "Maple Duplex" || records[1][6] != "-300.00" {
		t.Errorf("unexpected rental row %v", records[1])
	}
	if records[2][6] != "0.00" {
		t.Errorf("primary residence NOI = %q, expected 0.00", records[2][6])
	}
}

func TestMetricsCommandPretty(t *testing.T) {
	file := writeFile(t, "properties.yaml", propertiesYAML)

	out, err := run(t, "metrics", "-f", file, "--as-of", "2024-07-01")
	if err != nil {
		t.Fatalf("metrics failed: %v", err)
	}
	for _, want := range []string{"--- Maple Duplex (Long-Term Rental) ---", "--- Portfolio: 2 properties, 1 rentals ---"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMetricsCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		args []string
		want string
	}{
		{
			name: "invalid property",
			body: "properties:\n  - name: Bad\n    value: -5\n    propertyType: Castle\n",
			want: "properties[0] (Bad)",
		},
		{
			name: "unknown field",
			body: "properties:\n  - name: Typo\n    valu: 5\n",
			want: "failed to parse",
		},
		{
			name: "bad as-of",
			body: propertiesYAML,
			args: []string{"--as-of", "yesterday"},
			want: "--as-of",
		},
		{
			name: "bad output format",
			body: propertiesYAML,
			args: []string{"--output-format", "xml"},
			want: "expected output format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := writeFile(t, "properties.yaml", tt.body)
			_, err := run(t, append([]string{"metrics", "--file", file}, tt.args...)...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

const goalsYAML = `goals:
  currentAge: 30
  retirementAge: 32
  monthlySpend: 5000
  currentNetWorth: 100000
  annualSavings: 10000
  mortgage: 30
  cars: 10
  healthCare: 15
  foodAndDrinks: 20
  travelAndEntertainment: 15
  reinvestedFunds: 10
rates: [0.07]
`

func TestProjectCommand(t *testing.T) {
	file := writeFile(t, "goals.yaml", goalsYAML)

	out, err := run(t, "project", "--file", file)
	if err != nil {
		t.Fatalf("project failed: %v", err)
	}
	for _, want := range []string{"7.00%", "$135,190.00", "Intersection Age    | N/A", "Mortgage            | $1,500.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestProjectCommandRatesFlag(t *testing.T) {
	file := writeFile(t, "goals.yaml", goalsYAML)

	out, err := run(t, "project", "--file", file, "--rates", "0.05,0.09", "--output-format", "csv")
	if err != nil {
		t.Fatalf("project failed: %v", err)
	}
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("output is not CSV: %v", err)
	}
	if got := strings.Join(records[0], "|"); got != "age|value (5.00%)|value (9.00%)" {
		t.Errorf("header = %q", got)
	}
	if len(records) != 3 {
		t.Errorf("expected 2 years of rows, got %d records", len(records))
	}
}

func TestProjectCommandInvalidGoals(t *testing.T) {
	file := writeFile(t, "goals.yaml", "goals:\n  currentAge: 300\n")

	if _, err := run(t, "project", "--file", file); err == nil || !strings.Contains(err.Error(), "goals") {
		t.Fatalf("expected goals validation error, got %v", err)
	}
}

func TestMigrateCommand(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "dashboard.db")
	t.Setenv("FINDASH_DATABASE_DSN", dsn)

	out, err := run(t, "migrate")
	if err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if !strings.Contains(out, "database schema is at version 3") {
		t.Errorf("unexpected output %q", out)
	}
	if _, err := os.Stat(dsn); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

func TestSyncCommandRequiresPlaid(t *testing.T) {
	if _, err := run(t, "sync"); err == nil || !strings.Contains(err.Error(), "plaid") {
		t.Fatalf("expected plaid configuration error, got %v", err)
	}
}

const statementOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240701120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>SAVINGS
</BANKACCTFROM>
<LEDGERBAL>
<BALAMT>2500.00
<DTASOF>20240630120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func TestImportOFXDryRun(t *testing.T) {
	file := writeFile(t, "savings.ofx", statementOFX)

	out, err := run(t, "import-ofx", "--user", uuid.NewString(), "--dry-run", file)
	if err != nil {
		t.Fatalf("import-ofx failed: %v", err)
	}
	if !strings.Contains(out, "savings.ofx: assets $2,500.00, liabilities $0.00, net worth $2,500.00 as of 2024-06-30") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestImportOFXRejectsBadUser(t *testing.T) {
	file := writeFile(t, "savings.ofx", statementOFX)

	if _, err := run(t, "import-ofx", "--user", "bob", file); err == nil || !strings.Contains(err.Error(), "--user") {
		t.Fatalf("expected invalid user error, got %v", err)
	}
}

func TestParseStatementsStopsOnBadFile(t *testing.T) {
	good := writeFile(t, "good.ofx", statementOFX)
	bad := writeFile(t, "bad.ofx", "not a statement")

	_, err := parseStatements(importer.NewParser(nil), uuid.New(), []string{good, bad}, time.Now())
	if err == nil || !strings.Contains(err.Error(), "bad.ofx") {
		t.Fatalf("expected error naming bad.ofx, got %v", err)
	}
}
