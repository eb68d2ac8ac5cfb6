// filepath: internal/cli/config_loader.go
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"pantry/internal/config"
	"pantry/internal/logging"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	defaultConfigPath   = "config.toml"
	defaultDatabasePath = "pantry_data/pantry_data.db"
	envPrefix           = "PANTRY"
)

var (
	// Global config object populated by flags/env/file
	cfg *config.Config

	// Flags variables
	cfgFile      string
	logLevel     string
	dbPath       string
	backupDir    string
	auditEnabled bool
)

func registerFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&cfgFile, "config_path", defaultConfigPath, "Path to the base configuration file. (Env: PANTRY_CONFIG_PATH)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Logging level (debug, info, warn, error). (Env: PANTRY_LOG_LEVEL)")
	cmd.PersistentFlags().StringVar(&dbPath, "db-path", "", "Path to the SQLite database file. (Env: PANTRY_DATABASE_PATH)")
	cmd.PersistentFlags().StringVar(&backupDir, "backup-dir", "", "Directory for backups. (Env: PANTRY_BACKUP_DIR)")
	cmd.PersistentFlags().BoolVar(&auditEnabled, "audit-enabled", false, "Enable audit logging of destructive operations. (Env: PANTRY_AUDIT_ENABLED=true)")
}

// newEnv returns a viper instance reading PANTRY_ prefixed environment variables.
func newEnv() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// initializeConfig loads and overrides configuration values.
func initializeConfig(cmd *cobra.Command) error {
	// 1. Load a .env file from the working directory, if present
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	env := newEnv()

	// 2. Check environment variable for config path first
	if envPath := env.GetString("config_path"); envPath != "" && !cmd.Flags().Changed("config_path") {
		cfgFile = envPath
	}

	var err error
	cfg, err = config.LoadConfig(cfgFile)
	if err != nil {
		if os.IsNotExist(err) {
			cfg = &config.Config{}
		} else {
			return fmt.Errorf("failed to load configuration from %s: %w", cfgFile, err)
		}
	}

	// 3. Apply Overrides (Env Vars and CLI Flags)
	applyOverrides(cfg, cmd, env)

	// 4. Validate
	if err := cfg.ParseAndValidate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// 5. Initialize Logging
	logging.Init(cfg.Logging.Level)
	goose.SetLogger(logging.Log)

	return nil
}

func applyOverrides(c *config.Config, cmd *cobra.Command, env *viper.Viper) {
	// --- Environment Variables ---
	if v := env.GetString("log_level"); v != "" {
		c.Logging.Level = v
	}
	if v := env.GetString("database_path"); v != "" {
		c.Database.Path = v
	}
	if v := env.GetString("backup_dir"); v != "" {
		c.Database.BackupDir = v
	}
	if env.IsSet("audit_enabled") {
		c.Logging.AuditEnabled = env.GetBool("audit_enabled")
	}

	// --- CLI Flags ---
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if dbPath != "" {
		c.Database.Path = dbPath
	}
	if backupDir != "" {
		c.Database.BackupDir = backupDir
	}
	if flag := cmd.Flags().Lookup("audit-enabled"); flag != nil && flag.Changed {
		c.Logging.AuditEnabled = auditEnabled
	}

	// --- Defaults ---
	if c.Database.Path == "" {
		c.Database.Path = defaultDatabasePath
	}
	if c.Database.BackupDir == "" {
		c.Database.BackupDir = filepath.Join(filepath.Dir(c.Database.Path), "backups")
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// persistConfig writes cfg back to the config file in use.
func persistConfig() error {
	if err := config.SaveConfig(cfgFile, cfg); err != nil {
		return err
	}
	logging.Log.Infof("Configuration saved to %s.", cfgFile)
	return nil
}
