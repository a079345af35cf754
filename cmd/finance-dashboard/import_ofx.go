package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/finance-dashboard/internal/importer"
	"github.com/iwvelando/finance-dashboard/internal/model"
	"github.com/iwvelando/finance-dashboard/pkg/format"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) importOFXCmd() *cobra.Command {
	var (
		user   string
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "import-ofx --user <id> [files...]",
		Short: "Record net-worth snapshots from OFX/QFX statements",
		Long: `Record one net-worth snapshot per OFX or QFX statement file. Bank balances
count as assets and credit card or credit line balances as liabilities.

Examples:
  # Import a single statement
  finance-dashboard import-ofx --user 2b1e... ~/Downloads/checking.qfx

  # Preview without saving
  finance-dashboard import-ofx --user 2b1e... --dry-run ~/Downloads/*.ofx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(user)
			if err != nil {
				return fmt.Errorf("invalid --user %q: %w", user, err)
			}

			snapshots, err := parseStatements(importer.NewParser(a.logger), userID, args, time.Now().UTC())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, snap := range snapshots {
				fmt.Fprintf(out, "%s: assets %s, liabilities %s, net worth %s as of %s\n",
					filepath.Base(args[i]),
					format.Decimal(snap.Assets),
					format.Decimal(snap.Liabilities),
					format.Decimal(snap.NetWorth),
					snap.RecordedAt.Format(time.DateOnly))
			}
			if dryRun {
				return nil
			}

			st, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer a.closeStore(st)

			for i := range snapshots {
				if err := st.SaveSnapshot(cmd.Context(), &snapshots[i]); err != nil {
					return err
				}
			}
			a.logger.Info("statements imported",
				zap.String("op", "main.importOFX"),
				zap.String("userId", userID.String()),
				zap.Int("files", len(snapshots)),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "ID of the user the snapshots belong to")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "parse and print without saving")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// parseStatements parses every file before anything is saved, so one bad
// file leaves the store untouched.
func parseStatements(parser *importer.Parser, userID uuid.UUID, paths []string, now time.Time) ([]model.NetWorthSnapshot, error) {
	snapshots := make([]model.NetWorthSnapshot, 0, len(paths))
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		snap, err := parser.Snapshot(f, userID, now)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, nil
}
