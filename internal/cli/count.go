// filepath: internal/cli/count.go
package cli

import (
	"context"
	"fmt"
	"pantry/internal/models"

	"github.com/spf13/cobra"
)

var countAmount int

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Show and change product counts",
}

var countListCmd = &cobra.Command{
	Use:   "list",
	Short: "List counts keyed by sensor entity id",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			counts, err := a.Inventory.Counts(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), counts)
		})
	},
}

func newCountChangeCmd(action string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <product>",
		Short: fmt.Sprintf("%s the count of a product", action),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				n, err := a.Inventory.UpdateCount(ctx, args[0], action, countAmount)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", args[0], n)
				return nil
			})
		},
	}
}

func init() {
	RootCmd.AddCommand(countCmd)
	countCmd.AddCommand(countListCmd)
	for _, action := range []string{models.ActionIncrease, models.ActionDecrease} {
		c := newCountChangeCmd(action)
		c.Flags().IntVar(&countAmount, "amount", 1, "Amount to change the count by (at least 1).")
		countCmd.AddCommand(c)
	}
}
