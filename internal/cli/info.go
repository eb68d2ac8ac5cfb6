// filepath: internal/cli/info.go
package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Check the database and print a summary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			info, err := a.Info.GetInfo(ctx)
			if printErr := printJSON(cmd.OutOrStdout(), info); printErr != nil {
				return printErr
			}
			return err
		})
	},
}

func init() {
	RootCmd.AddCommand(infoCmd)
}
