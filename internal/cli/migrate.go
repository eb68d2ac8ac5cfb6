// filepath: internal/cli/migrate.go
package cli

import (
	"errors"
	"fmt"
	"pantry/internal/logging"
	"pantry/internal/migrator"

	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate [path]",
	Short: "Bring a database file to the current layout",
	Long: `Creates the database file if it does not exist, or rebuilds the products table of an
existing file so it carries every current column. Row data is preserved. Defaults to the
configured database path.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.Database.Path
		if len(args) == 1 {
			path = args[0]
		}
		return runMigration(cmd, path)
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}

func runMigration(cmd *cobra.Command, path string) error {
	logging.Log.Infof("Running migration on: %s", path)

	if err := migrator.Migrate(cmd.Context(), path); err != nil {
		var migErr *migrator.MigrationError
		if errors.As(err, &migErr) {
			logging.Log.Errorf("Migration failed during %s: %v", migErr.Step, migErr.Err)
		}
		return err
	}

	logging.Log.Info("Migration operation completed successfully.")
	fmt.Fprintf(cmd.OutOrStdout(), "%s is up to date\n", path)
	return nil
}
