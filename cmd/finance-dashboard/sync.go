package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/iwvelando/finance-dashboard/internal/aggregation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Sync balances for every linked account once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			plaidClient, err := a.provider()
			if err != nil {
				return err
			}
			if plaidClient == nil {
				return errors.New("plaid credentials are not configured")
			}

			ctx := cmd.Context()
			if a.conf.Sync.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, a.conf.Sync.Timeout)
				defer cancel()
			}

			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer a.closeStore(st)

			synced, err := aggregation.NewSyncer(st, plaidClient, a.logger, nil, nil).SyncAll(ctx)
			fmt.Fprintf(cmd.OutOrStdout(), "synced %d users\n", synced)
			if err != nil {
				a.logger.Error("account sync finished with errors",
					zap.String("op", "main.sync"),
					zap.Error(err),
				)
				return err
			}
			return nil
		},
	}
}
