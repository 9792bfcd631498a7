// Command izgubljeno runs the lost and found claim service.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/erazemk/izgubljeno/internal/config"
	"github.com/erazemk/izgubljeno/internal/logging"
)

// Global flags
var (
	dbPath string
	addr   string
)

var rootCmd = &cobra.Command{
	Use:   "izgubljeno",
	Short: "Lost and found claim coordination service",
	Long: `izgubljeno matches found items with their owners.

Configuration is read from IZGUBLJENO_* environment variables. The --db and
--addr flags override IZGUBLJENO_DB_PATH and IZGUBLJENO_ADDR.

Examples:
  izgubljeno serve                          # Serve the HTTP API on :8080
  izgubljeno migrate --db data.sqlite3      # Apply schema migrations
  izgubljeno user create --username ana ... # Create an account`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "SQLite database path (overrides IZGUBLJENO_DB_PATH)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(userCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if addr != "" {
		cfg.Addr = addr
	}
	return cfg, nil
}

// setupLogger installs the process logger described by cfg. INFO/WARN go to
// stdout, ERROR goes to stderr, and everything is copied to the log file if
// one is configured.
func setupLogger(cfg config.Config) (*slog.Logger, func(), error) {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return logging.Setup(logging.Options{
		Level:  level,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
}
