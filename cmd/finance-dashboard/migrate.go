package main

import (
	"fmt"

	"github.com/iwvelando/finance-dashboard/internal/store"
	"github.com/spf13/cobra"
)

func (a *app) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer a.closeStore(st)

			fmt.Fprintf(cmd.OutOrStdout(), "database schema is at version %d\n", store.SchemaVersion)
			return nil
		},
	}
}
