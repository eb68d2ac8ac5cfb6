// filepath: internal/cli/root.go
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"pantry/internal/audit"
	"pantry/internal/housekeeping"
	"pantry/internal/logging"
	"pantry/internal/migrator"
	"pantry/internal/repository"
	"pantry/internal/services"

	"github.com/spf13/cobra"
)

// Version info
var Version = "1.0.0"

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "pantry",
	Short: "Pantry inventory tracker",
	Long: `Tracks pantry products grouped in categories with per-product counts.
The data lives in a single SQLite file that is migrated to the current layout on every start.`,
	SilenceUsage: true,
	// PersistentPreRunE loads the configuration before any command runs.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	registerFlags(RootCmd)
}

// app bundles the services a data command works with.
type app struct {
	Store        *repository.Store
	Inventory    services.InventoryService
	Database     services.DatabaseService
	Info         services.InfoService
	Housekeeping services.HousekeepingService
}

// Close releases the database handle.
func (a *app) Close() {
	if err := a.Store.Close(); err != nil {
		logging.Log.Warnf("Failed to close database: %v", err)
	}
}

// openApp prepares the store for a data command: it persists a generated API
// key, migrates the database file and opens the repository on it.
func openApp(ctx context.Context) (*app, error) {
	// 1. API key
	changed, err := cfg.EnsureAPIKey()
	if err != nil {
		return nil, err
	}
	if changed {
		logging.Log.Info("Generated new API key.")
		if err := persistConfig(); err != nil {
			logging.Log.Warnf("Failed to save new API key to %s: %v", cfgFile, err)
		}
	}

	// 2. Migrate
	if err := migrator.Migrate(ctx, cfg.Database.Path); err != nil {
		logging.Log.Error("---------------------------------------------------------------")
		logging.Log.Errorf("CRITICAL DATABASE ERROR: %v", err)
		logging.Log.Error("---------------------------------------------------------------")
		return nil, err
	}

	// 3. Open
	repo, err := repository.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize repository: %w", err)
	}
	store := repository.NewStore(repo)

	// 4. Services
	auditor := audit.NewLoggerAuditor(cfg.Logging.AuditEnabled, logging.Log)
	storageService := services.NewStorageService(cfg)
	policy := housekeeping.Policy{MaxAge: cfg.BackupMaxAge, MaxCount: cfg.Backup.MaxCount}
	databaseService := services.NewDatabaseService(store, storageService, auditor, policy, cfg.Database.Path)

	return &app{
		Store:        store,
		Inventory:    services.NewInventoryService(store, auditor),
		Database:     databaseService,
		Info:         services.NewInfoService(Version, store),
		Housekeeping: services.NewHousekeepingService(databaseService, storageService, policy, backupEvery),
	}, nil
}

// withApp runs fn with an opened app and an actor-tagged context.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := services.WithActor(cmd.Context(), "cli")
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
