// filepath: internal/cli/settings.go
package cli

import (
	"context"
	"fmt"
	"pantry/internal/config"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show and change persisted settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return printJSON(cmd.OutOrStdout(), map[string]string{
				"api_key":       cfg.Settings.APIKey,
				"theme":         cfg.Settings.Theme,
				"database_path": cfg.Database.Path,
				"backup_dir":    cfg.Database.BackupDir,
			})
		})
	},
}

var settingsThemeCmd = &cobra.Command{
	Use:       "theme <light|dark>",
	Short:     "Set the UI theme",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"light", "dark"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.SetTheme(args[0]); err != nil {
			return err
		}
		if err := persistConfig(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "theme set to %s\n", args[0])
		return nil
	},
}

var settingsRegenerateKeyCmd = &cobra.Command{
	Use:   "regenerate-key",
	Short: "Generate a new API key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := config.GenerateAPIKey()
		if err != nil {
			return err
		}
		cfg.Settings.APIKey = key
		if err := persistConfig(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), key)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsThemeCmd)
	settingsCmd.AddCommand(settingsRegenerateKeyCmd)
}
