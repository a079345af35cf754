package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/iwvelando/finance-dashboard/internal/aggregation"
	"github.com/iwvelando/finance-dashboard/internal/auth"
	"github.com/iwvelando/finance-dashboard/internal/config"
	"github.com/iwvelando/finance-dashboard/internal/importer"
	"github.com/iwvelando/finance-dashboard/internal/metrics"
	"github.com/iwvelando/finance-dashboard/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API. When sync.enabled is set and Plaid credentials are
configured, linked accounts are also synced on sync.schedule.

Benchmarks and growth rates are reloaded when the config file changes.`,
		Args: cobra.NoArgs,
		RunE: a.runServe,
	}
}

func (a *app) provider() (*aggregation.PlaidClient, error) {
	if !a.conf.Plaid.Enabled() {
		return nil, nil
	}
	return aggregation.NewPlaidClient(aggregation.PlaidConfig{
		ClientID:    a.conf.Plaid.ClientID,
		Secret:      a.conf.Plaid.Secret,
		Environment: a.conf.Plaid.Environment,
	}, a.logger)
}

func (a *app) runServe(cmd *cobra.Command, _ []string) error {
	const op = "main.runServe"
	ctx := cmd.Context()
	conf := a.conf

	st, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer a.closeStore(st)

	tokens, err := auth.NewTokens(conf.Auth.JWTSecret, conf.Auth.TokenTTL, nil)
	if err != nil {
		return fmt.Errorf("auth: %w", err)
	}

	collector := metrics.NewCollector()
	opts := server.Options{
		Store:       st,
		Tokens:      tokens,
		Parser:      importer.NewParser(a.logger),
		Metrics:     collector,
		Logger:      a.logger,
		Version:     conf.Server.Version,
		GrowthRates: conf.GrowthRates(),
	}
	if opts.MaxUploadSize, err = conf.Server.UploadSizeBytes(); err != nil {
		return err
	}
	if opts.Benchmarks, err = conf.BenchmarkTable(); err != nil {
		return err
	}

	plaidClient, err := a.provider()
	if err != nil {
		return err
	}
	var syncer *aggregation.Syncer
	if plaidClient != nil {
		syncer = aggregation.NewSyncer(st, plaidClient, a.logger, collector, nil)
		opts.Provider = plaidClient
		opts.Syncer = syncer
	}

	handler := server.NewHandler(opts)

	a.loader.Watch(func(c *config.Configuration) {
		table, err := c.BenchmarkTable()
		if err != nil {
			a.logger.Warn("ignoring reloaded benchmarks", zap.String("op", op), zap.Error(err))
			return
		}
		handler.SetBenchmarks(table)
		handler.SetGrowthRates(c.GrowthRates())
		a.logger.Info("configuration reloaded",
			zap.String("op", op),
			zap.Int("brackets", len(table.Brackets())),
		)
	}, func(err error) {
		a.logger.Warn("configuration reload failed", zap.String("op", op), zap.Error(err))
	})

	var scheduler *aggregation.Scheduler
	if conf.Sync.Enabled {
		if syncer == nil {
			return errors.New("sync.enabled requires plaid credentials")
		}
		scheduler, err = aggregation.NewScheduler(conf.Sync.Schedule, syncer, conf.Sync.Timeout, a.logger)
		if err != nil {
			return err
		}
		scheduler.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
			defer cancel()
			scheduler.Stop(stopCtx)
		}()
	}

	srv := &http.Server{
		Addr:              conf.Server.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("listening",
			zap.String("op", op),
			zap.String("address", conf.Server.Address),
			zap.String("driver", conf.Database.Driver),
			zap.Bool("aggregation", plaidClient != nil),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down", zap.String("op", op))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
