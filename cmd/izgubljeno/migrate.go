package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/erazemk/izgubljeno/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		if err := db.Migrate(database); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Database migrated: %s\n", cfg.DBPath)
		return nil
	},
}
