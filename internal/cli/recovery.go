// filepath: internal/cli/recovery.go
package cli

import (
	"context"
	"pantry/internal/logging"

	"github.com/spf13/cobra"
)

var recoveryCmd = &cobra.Command{
	Use:   "recovery",
	Short: "Run maintenance tasks to fix database inconsistencies",
	Long: `Creates missing count rows, resets negative counts, removes counts of deleted products
and reports barcodes shared by more than one product.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			logging.Log.Info("Starting recovery process...")

			report, err := a.Database.Recover(ctx)
			if err != nil {
				return err
			}

			logging.Log.Infof("Recovery complete. Counts created: %d, clamped: %d, orphans removed: %d",
				report.CountsCreated, report.CountsClamped, report.OrphansRemoved)
			return printJSON(cmd.OutOrStdout(), report)
		})
	},
}

func init() {
	RootCmd.AddCommand(recoveryCmd)
}
