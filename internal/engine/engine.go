package engine

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/recipebook/recipebook/internal/cache"
	"github.com/recipebook/recipebook/internal/config"
	"github.com/recipebook/recipebook/internal/database"
	"github.com/recipebook/recipebook/internal/scheduler"
)

// Job ids.
const (
	JobClearThumbnailCache = "clear_thumbnail_cache"
	JobStoreStats          = "store_stats"
)

// Engine owns the background maintenance of the recipe book.
type Engine struct {
	cfg       *config.Config
	db        database.DB
	thumbs    *cache.ThumbnailCache
	scheduler *scheduler.Scheduler
}

// New creates a new Engine instance with all maintenance jobs registered.
func New(cfg *config.Config, db database.DB, thumbs *cache.ThumbnailCache) (*Engine, error) {
	sched, err := scheduler.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	e := &Engine{
		cfg:       cfg,
		db:        db,
		thumbs:    thumbs,
		scheduler: sched,
	}
	if err := e.setupJobs(); err != nil {
		return nil, err
	}
	return e, nil
}

// GetScheduler returns the scheduler instance.
func (e *Engine) GetScheduler() *scheduler.Scheduler {
	return e.scheduler
}

// Run starts the scheduler and blocks until ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	e.scheduler.Start()
	<-ctx.Done()
	return nil
}

// Close stops the scheduler.
func (e *Engine) Close() error {
	return e.scheduler.Stop()
}

// setupJobs configures all scheduled jobs.
func (e *Engine) setupJobs() error {
	if err := e.scheduler.AddSingletonJob(
		JobClearThumbnailCache,
		"Clear Thumbnail Cache",
		"Drops all scaled recipe images",
		e.cfg.Cache.ClearSchedule,
		e.clearThumbnailCache,
		false,
	); err != nil {
		return fmt.Errorf("failed to add clear thumbnail cache job: %w", err)
	}

	if err := e.scheduler.AddSingletonJob(
		JobStoreStats,
		"Store Statistics",
		"Logs the size of the recipe book",
		e.cfg.StatsSchedule,
		e.logStoreStats,
		true,
	); err != nil {
		return fmt.Errorf("failed to add store stats job: %w", err)
	}

	log.Debug("Scheduled jobs configured successfully")
	return nil
}

func (e *Engine) clearThumbnailCache(ctx context.Context) error {
	stats := e.thumbs.GetStats()
	if err := e.thumbs.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear thumbnail cache: %w", err)
	}
	log.Info("Cleared thumbnail cache", "hits", stats.Hits, "misses", stats.Misses)
	return nil
}

func (e *Engine) logStoreStats(ctx context.Context) error {
	stats, err := e.db.GetStoreStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to get store stats: %w", err)
	}
	log.Info("Recipe book statistics",
		"categories", stats.Categories,
		"recipes", stats.Recipes,
		"comments", stats.Comments,
		"users", stats.Users,
		"images", humanize.Bytes(uint64(max(stats.ImageBytes, 0))),
	)
	return nil
}
