// Package constants provides shared constants for the finance-dashboard application.
package constants

// MonthLayout is the format of rent ledger keys and of month-granularity
// dates in input files.
const MonthLayout = "2006-01"

// DateLayout is the format of day-granularity dates in input files and output.
const DateLayout = "2006-01-02"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPlaces is the number of decimal places used when rounding currency
	DecimalPlaces = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// TrailingWindowYears is the length of the income/expense lookback window
	TrailingWindowYears = 1
)

// Retirement planning constants
const (
	// ReferenceGrowthRate is the growth rate whose projection drives goal evaluation
	ReferenceGrowthRate = 0.07

	// MinimumRetirementYears is the shortest retirement horizon used when sizing the nest egg
	MinimumRetirementYears = 30

	// LifeExpectancy is the age the retirement horizon is extended to for early retirees
	LifeExpectancy = 85

	// AllocationTolerance is how far allocation percentages may sum from 100
	AllocationTolerance = 0.001
)

// DefaultGrowthRates returns the annual growth rates projected when none are configured.
func DefaultGrowthRates() []float64 {
	return []float64{0.05, 0.07, 0.09, 0.11}
}

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// EnvPrefix prefixes environment variable overrides, e.g. FINDASH_DATABASE_DSN
	EnvPrefix = "FINDASH"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for statement imports (1 MB)
	DefaultMaxUploadSizeBytes int64 = 1024 * 1024

	// DefaultTokenTTLHours is the default lifetime of an issued session token
	DefaultTokenTTLHours = 24
)

// Storage defaults
const (
	// DriverPostgres selects the PostgreSQL storage driver
	DriverPostgres = "postgres"

	// DriverSQLite selects the SQLite storage driver
	DriverSQLite = "sqlite3"

	// DefaultDatabaseDriver is used when no driver is configured
	DefaultDatabaseDriver = DriverSQLite

	// DefaultDatabaseDSN is used when no DSN is configured
	DefaultDatabaseDSN = "finance-dashboard.db"
)

// Account sync defaults
const (
	// DefaultSyncSchedule runs the account sync once a day at 06:00
	DefaultSyncSchedule = "0 6 * * *"

	// PlaidEnvironmentSandbox selects the Plaid sandbox
	PlaidEnvironmentSandbox = "sandbox"

	// PlaidEnvironmentProduction selects Plaid production
	PlaidEnvironmentProduction = "production"
)
