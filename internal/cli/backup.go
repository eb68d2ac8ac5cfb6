// filepath: internal/cli/backup.go
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"pantry/internal/logging"
	"pantry/internal/storage"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var (
	// Backup flags
	backupOut   string
	backupToDir bool
	backupList  bool
	backupPrune bool
	backupEvery time.Duration
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up the database",
	Long: `Writes a consistent copy of the database. With --out the copy goes to the given file
(use "-" for stdout). Otherwise it is written to the backup directory and the retention rules
from the [backup] section are applied. --every keeps running and takes a backup per interval.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			switch {
			case backupList:
				backups, err := a.Database.ListBackups()
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), backups)
			case backupPrune:
				report, err := a.Housekeeping.TriggerRetention()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), report.Message)
				return nil
			case backupEvery > 0:
				return runScheduledBackups(a)
			case backupOut != "":
				return backupToFile(ctx, cmd, a)
			default:
				path, err := a.Database.BackupToDir(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			}
		})
	},
}

func init() {
	RootCmd.AddCommand(backupCmd)
	backupCmd.Flags().StringVar(&backupOut, "out", "", `Write the backup to this file ("-" for stdout).`)
	backupCmd.Flags().BoolVar(&backupToDir, "dir", false, "Write the backup to the backup directory (default).")
	backupCmd.Flags().BoolVar(&backupList, "list", false, "List backups in the backup directory.")
	backupCmd.Flags().BoolVar(&backupPrune, "prune", false, "Apply the retention rules without taking a backup.")
	backupCmd.Flags().DurationVar(&backupEvery, "every", 0, "Keep running and take a backup at this interval (e.g. 24h).")
	backupCmd.MarkFlagsMutuallyExclusive("out", "dir", "list", "prune", "every")
}

// backupToFile streams a backup to the --out target.
func backupToFile(ctx context.Context, cmd *cobra.Command, a *app) error {
	if backupOut == "-" {
		_, err := a.Database.Backup(ctx, cmd.OutOrStdout())
		return err
	}

	tmp := storage.UploadPath(backupOut)
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", backupOut, err)
	}
	n, err := a.Database.Backup(ctx, f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		storage.RemoveFile(tmp)
		return err
	}
	if err := storage.ReplaceFile(tmp, backupOut); err != nil {
		storage.RemoveFile(tmp)
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", n, backupOut)
	return nil
}

// runScheduledBackups runs the backup worker until SIGINT or SIGTERM.
func runScheduledBackups(a *app) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	a.Housekeeping.Start()
	<-stop
	logging.Log.Info("Shutting down backup worker...")
	a.Housekeeping.Stop()
	return nil
}
