package cmd

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/recipebook/recipebook/internal/api"
	"github.com/recipebook/recipebook/internal/api/auth"
	"github.com/recipebook/recipebook/internal/cache"
	"github.com/recipebook/recipebook/internal/config"
	"github.com/recipebook/recipebook/internal/database"
	"github.com/recipebook/recipebook/internal/engine"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Recipebook server",
	Long:  `Start the Recipebook web server and the background maintenance jobs.`,
	Example: `recipebook serve --config config.yml
recipebook serve -c /path/to/config.yml --log-level debug
`,
	Run: startServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func startServer(cmd *cobra.Command, _ []string) {
	cfg := loadConfig()

	db := openDatabase(cfg)
	defer db.Close() //nolint:errcheck

	if err := bootstrap(cmd.Context(), cfg, db); err != nil {
		log.Fatalf("failed to prepare database: %v", err)
	}

	thumbs, err := cache.NewThumbnailCache(cfg.Cache, cfg.Images)
	if err != nil {
		log.Fatalf("failed to create thumbnail cache: %v", err)
	}

	eng, err := engine.New(cfg, db, thumbs)
	if err != nil {
		log.Fatalf("failed to create engine: %v", err)
	}
	defer eng.Close() //nolint:errcheck

	server, err := api.New(cfg, db, thumbs, log.GetLevel() == log.DebugLevel)
	if err != nil {
		log.Fatalf("failed to create API server: %v", err)
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		return eng.Run(ctx)
	})
	g.Go(func() error {
		return server.Run(ctx)
	})

	log.Info("recipebook started successfully")
	if err := g.Wait(); err != nil {
		log.Error("recipebook stopped with an error", "error", err)
		return
	}
	log.Info("recipebook stopped")
}

// bootstrap creates the configured categories and seeds the configured users.
func bootstrap(ctx context.Context, cfg *config.Config, db database.DB) error {
	if err := db.EnsureCategories(ctx, cfg.Categories); err != nil {
		return err
	}

	created, err := auth.SeedUsers(ctx, db, cfg.Users, cfg.Auth.PasswordHash)
	if err != nil {
		return err
	}
	if created > 0 {
		log.Info("Seeded users", "count", created, "hash", cfg.Auth.PasswordHash)
	}
	return nil
}
