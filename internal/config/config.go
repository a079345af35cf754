// Package config defines the application configuration and loads it from a
// YAML file with environment overrides.
package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/iwvelando/finance-dashboard/internal/retirement"
	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"github.com/iwvelando/finance-dashboard/pkg/validation"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for finance-dashboard.
type Configuration struct {
	Logging    LoggingConfig     `mapstructure:"logging" yaml:"logging,omitempty"`
	Output     OutputConfig      `mapstructure:"output" yaml:"output,omitempty"`
	Server     ServerConfig      `mapstructure:"server" yaml:"server,omitempty"`
	Database   DatabaseConfig    `mapstructure:"database" yaml:"database,omitempty"`
	Auth       AuthConfig        `mapstructure:"auth" yaml:"auth,omitempty"`
	Plaid      PlaidConfig       `mapstructure:"plaid" yaml:"plaid,omitempty"`
	Sync       SyncConfig        `mapstructure:"sync" yaml:"sync,omitempty"`
	Retirement RetirementConfig  `mapstructure:"retirement" yaml:"retirement,omitempty"`
	Benchmarks []BenchmarkConfig `mapstructure:"benchmarks" yaml:"benchmarks,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format,omitempty"` // pretty, csv
}

// ServerConfig holds HTTP server options.
type ServerConfig struct {
	Address         string        `mapstructure:"address" yaml:"address,omitempty"`
	MaxUploadSize   string        `mapstructure:"maxUploadSize" yaml:"maxUploadSize,omitempty"` // e.g. 512K, 10M
	Version         string        `mapstructure:"version" yaml:"version,omitempty"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout" yaml:"shutdownTimeout,omitempty"`
}

// UploadSizeBytes returns MaxUploadSize in bytes.
func (s ServerConfig) UploadSizeBytes() (int64, error) {
	size, err := ParseSize(s.MaxUploadSize)
	if err != nil {
		return 0, err
	}
	if size <= 0 {
		size = constants.DefaultMaxUploadSizeBytes
	}
	return size, nil
}

// DatabaseConfig selects the storage driver.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver,omitempty"` // postgres, sqlite3
	DSN    string `mapstructure:"dsn" yaml:"dsn,omitempty"`
}

// AuthConfig holds session token settings.
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwtSecret" yaml:"jwtSecret,omitempty"`
	TokenTTL  time.Duration `mapstructure:"tokenTTL" yaml:"tokenTTL,omitempty"`
}

// PlaidConfig holds account aggregation credentials.
type PlaidConfig struct {
	ClientID    string `mapstructure:"clientId" yaml:"clientId,omitempty"`
	Secret      string `mapstructure:"secret" yaml:"secret,omitempty"`
	Environment string `mapstructure:"environment" yaml:"environment,omitempty"` // sandbox, production
}

// Enabled reports whether Plaid credentials were supplied.
func (p PlaidConfig) Enabled() bool {
	return p.ClientID != "" || p.Secret != ""
}

// SyncConfig controls scheduled account sync.
type SyncConfig struct {
	Enabled  bool          `mapstructure:"enabled" yaml:"enabled,omitempty"`
	Schedule string        `mapstructure:"schedule" yaml:"schedule,omitempty"` // five-field cron spec
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout,omitempty"`
}

// RetirementConfig holds projection settings.
type RetirementConfig struct {
	Rates []float64 `mapstructure:"rates" yaml:"rates,omitempty"`
}

// BenchmarkConfig is one peer net-worth bracket. MaxAge 0 is open-ended.
type BenchmarkConfig struct {
	MinAge  int     `mapstructure:"minAge" yaml:"minAge"`
	MaxAge  int     `mapstructure:"maxAge" yaml:"maxAge"`
	Average float64 `mapstructure:"average" yaml:"average"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("server.address", constants.DefaultServerAddress)
	v.SetDefault("server.maxUploadSize", fmt.Sprintf("%d", constants.DefaultMaxUploadSizeBytes))
	v.SetDefault("server.version", "dev")
	v.SetDefault("server.shutdownTimeout", "15s")
	v.SetDefault("database.driver", constants.DefaultDatabaseDriver)
	v.SetDefault("database.dsn", constants.DefaultDatabaseDSN)
	v.SetDefault("auth.jwtSecret", "")
	v.SetDefault("auth.tokenTTL", fmt.Sprintf("%dh", constants.DefaultTokenTTLHours))
	v.SetDefault("plaid.clientId", "")
	v.SetDefault("plaid.secret", "")
	v.SetDefault("plaid.environment", constants.PlaidEnvironmentSandbox)
	v.SetDefault("sync.enabled", false)
	v.SetDefault("sync.schedule", constants.DefaultSyncSchedule)
	v.SetDefault("sync.timeout", "5m")
	v.SetDefault("retirement.rates", constants.DefaultGrowthRates())
}

// Loader reads a configuration file and can watch it for changes.
type Loader struct {
	v    *viper.Viper
	path string
	mu   sync.Mutex
}

// NewLoader prepares a loader for path. An empty path loads only defaults and
// FINDASH_* environment variables, e.g. FINDASH_DATABASE_DSN.
func NewLoader(path string) *Loader {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yml")
	}
	return &Loader{v: v, path: path}
}

// Load reads and validates the configuration.
func (l *Loader) Load() (*Configuration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.path != "" {
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file, %s", err)
		}
	}

	var configuration Configuration
	if err := l.v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	if err := configuration.Validate(); err != nil {
		return nil, err
	}
	return &configuration, nil
}

// Watch calls onChange with the reloaded configuration whenever the file is
// written, or onError when the new contents do not load.
func (l *Loader) Watch(onChange func(*Configuration), onError func(error)) {
	if l.path == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if e.Op&(fsnotify.Write|fsnotify.Create) == 0 {
			return
		}
		conf, err := l.Load()
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("reloading %s: %w", e.Name, err))
			}
			return
		}
		onChange(conf)
	})
	l.v.WatchConfig()
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	return NewLoader(configPath).Load()
}

// Validate checks the settings that would otherwise fail later at startup.
func (c *Configuration) Validate() error {
	var errs []error

	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		errs = append(errs, err)
	}
	if err := validation.ValidateDatabaseDriver(c.Database.Driver); err != nil {
		errs = append(errs, err)
	}
	if c.Plaid.Enabled() {
		if err := validation.ValidatePlaidEnvironment(c.Plaid.Environment); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := c.Server.UploadSizeBytes(); err != nil {
		errs = append(errs, fmt.Errorf("server.maxUploadSize: %w", err))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("auth.tokenTTL must be positive, got %s", c.Auth.TokenTTL))
	}
	for _, rate := range c.Retirement.Rates {
		if rate <= -1 {
			errs = append(errs, fmt.Errorf("retirement.rates: %v would erase the balance", rate))
		}
	}
	if _, err := c.BenchmarkTable(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// GrowthRates returns the configured projection rates or the defaults.
func (c *Configuration) GrowthRates() []float64 {
	if len(c.Retirement.Rates) == 0 {
		return constants.DefaultGrowthRates()
	}
	return append([]float64(nil), c.Retirement.Rates...)
}

// BenchmarkTable builds the peer comparison table, falling back to the
// built-in table when none is configured.
func (c *Configuration) BenchmarkTable() (retirement.BenchmarkTable, error) {
	if len(c.Benchmarks) == 0 {
		return retirement.DefaultBenchmarks(), nil
	}
	brackets := make([]retirement.Bracket, 0, len(c.Benchmarks))
	for _, b := range c.Benchmarks {
		brackets = append(brackets, retirement.Bracket{
			MinAge:  b.MinAge,
			MaxAge:  b.MaxAge,
			Average: decimal.NewFromFloat(b.Average),
		})
	}
	table, err := retirement.NewBenchmarkTable(brackets)
	if err != nil {
		return retirement.BenchmarkTable{}, fmt.Errorf("benchmarks: %w", err)
	}
	return table, nil
}
