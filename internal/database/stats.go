package database

import (
	"context"
	"fmt"
)

// StoreStats summarizes the content of the store.
type StoreStats struct {
	Categories int64
	Recipes    int64
	Comments   int64
	Users      int64
	// ImageBytes is the total size of all stored recipe images.
	ImageBytes int64
}

func (c *Client) GetStoreStats(ctx context.Context) (*StoreStats, error) {
	var stats StoreStats
	db := c.db.WithContext(ctx)

	counts := []struct {
		model any
		dst   *int64
	}{
		{&Category{}, &stats.Categories},
		{&Recipe{}, &stats.Recipes},
		{&Comment{}, &stats.Comments},
		{&User{}, &stats.Users},
	}
	for _, count := range counts {
		if err := db.Model(count.model).Count(count.dst).Error; err != nil {
			return nil, fmt.Errorf("failed to count rows: %w", err)
		}
	}

	if err := db.Model(&Recipe{}).
		Select("COALESCE(SUM(LENGTH(dish_image)), 0)").
		Scan(&stats.ImageBytes).Error; err != nil {
		return nil, fmt.Errorf("failed to sum image sizes: %w", err)
	}

	return &stats, nil
}
