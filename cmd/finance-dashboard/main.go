package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/iwvelando/finance-dashboard/internal/config"
	"github.com/iwvelando/finance-dashboard/internal/store"
	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries the state shared by every subcommand once the root command has
// loaded configuration.
type app struct {
	configPath string
	logLevel   string

	loader *config.Loader
	conf   *config.Configuration
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:               "finance-dashboard",
		Short:             "Track property performance, retirement readiness and net worth",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.initialize,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", constants.DefaultConfigFile, "path to configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		a.serveCmd(),
		a.migrateCmd(),
		a.metricsCmd(),
		a.projectCmd(),
		a.syncCmd(),
		a.importOFXCmd(),
	)
	return root
}

// initialize loads configuration and builds the logger. A missing default
// config file is not an error: defaults and environment overrides apply.
func (a *app) initialize(cmd *cobra.Command, _ []string) error {
	path := a.configPath
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}

	a.loader = config.NewLoader(path)
	conf, err := a.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", a.configPath, err)
	}

	logger, err := initializeLogger(conf.Logging, a.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.conf = conf
	a.logger = logger
	return nil
}

func (a *app) openStore(ctx context.Context) (*store.SQLStore, error) {
	st, err := store.Open(ctx, a.conf.Database.Driver, a.conf.Database.DSN, a.logger)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

func (a *app) closeStore(st *store.SQLStore) {
	if err := st.Close(); err != nil {
		a.logger.Warn("failed to close database",
			zap.String("op", "main.closeStore"),
			zap.Error(err),
		)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"error\": %q}\n", err.Error())
		os.Exit(1)
	}
}
