package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long:  `Create or update the database schema, then add the configured categories and users.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		db := openDatabase(cfg)
		defer db.Close() //nolint: errcheck

		if err := bootstrap(cmd.Context(), cfg, db); err != nil {
			return fmt.Errorf("failed to prepare database: %w", err)
		}

		fmt.Println("Database migrations completed successfully!")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
