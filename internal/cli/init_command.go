// filepath: internal/cli/init_command.go
package cli

import (
	"context"
	"fmt"
	"pantry/internal/initconfig"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init <file>",
	Short: "Seed categories and products from a TOML file",
	Long: `Reads [[category]] and [[product]] entries from the given TOML file and creates the ones
that do not exist yet. Existing entries are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			result, err := initconfig.Run(ctx, a.Inventory, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d categories and %d products, skipped %d, failed %d\n",
				result.CategoriesCreated, result.ProductsCreated, result.Skipped, result.Failed)
			return nil
		})
	},
}

func init() {
	RootCmd.AddCommand(initCmd)
}
