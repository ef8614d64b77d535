package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/ccoveille/go-safecast"
	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/spf13/cobra"
)

var dbStatsCmd = &cobra.Command{
	Use:   "db-stats",
	Short: "Show database statistics",
	Long:  `Display the number of categories, recipes, comments and users, and the space used by images.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		db := openDatabase(cfg)
		defer db.Close() //nolint: errcheck

		stats, err := db.GetStoreStats(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get database stats: %w", err)
		}
		imageBytes, err := safecast.ToUint64(stats.ImageBytes)
		if err != nil {
			return fmt.Errorf("invalid image size: %w", err)
		}

		fmt.Println("Database Statistics:")
		fmt.Printf("Database: %s\n", cfg.Database.Path)
		fmt.Printf("Categories: %d\n", stats.Categories)
		fmt.Printf("Recipes: %d\n", stats.Recipes)
		fmt.Printf("Comments: %d\n", stats.Comments)
		fmt.Printf("Users: %d\n", stats.Users)
		fmt.Printf("Stored Images: %s\n", humanize.Bytes(imageBytes))

		usage, err := disk.UsageWithContext(cmd.Context(), filepath.Dir(cfg.Database.Path))
		if err == nil {
			fmt.Printf("Free Disk Space: %s of %s (%.1f%% used)\n",
				humanize.Bytes(usage.Free), humanize.Bytes(usage.Total), usage.UsedPercent)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbStatsCmd)
}
