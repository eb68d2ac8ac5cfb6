// filepath: internal/cli/restore.go
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Replace the database with a backup file",
	Long: `Migrates the given file to the current layout and, if that succeeds, swaps it in for the
live database. A file that cannot be migrated is rejected and the live database is left as is.
Use "-" to read the file from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader
		if args[0] == "-" {
			r = cmd.InOrStdin()
		} else {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("could not open %s: %w", args[0], err)
			}
			defer f.Close()
			r = f
		}

		return withApp(cmd, func(ctx context.Context, a *app) error {
			if err := a.Database.Restore(ctx, r); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "database restored")
			return nil
		})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all data and start with an empty database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			if err := a.Database.Reset(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "database reset")
			return nil
		})
	},
}

func init() {
	RootCmd.AddCommand(restoreCmd)
	RootCmd.AddCommand(resetCmd)
}
