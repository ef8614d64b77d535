package database

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
)

// Category groups recipes. Categories are only created out-of-band (CLI or config).
type Category struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"not null"`
}

func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.db.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
		log.Error("failed to list categories", "error", err)
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (c *Client) GetCategory(ctx context.Context, id uint) (*Category, error) {
	var category Category
	if err := c.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}

func (c *Client) CreateCategory(ctx context.Context, name string) (*Category, error) {
	category := Category{Name: name}
	if err := c.db.WithContext(ctx).Create(&category).Error; err != nil {
		log.Error("failed to create category", "error", err)
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &category, nil
}

// EnsureCategories creates every category in names that doesn't exist yet (matched by exact name).
func (c *Client) EnsureCategories(ctx context.Context, names []string) error {
	for _, name := range names {
		var count int64
		if err := c.db.WithContext(ctx).Model(&Category{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to look up category %q: %w", name, err)
		}
		if count > 0 {
			continue
		}
		if _, err := c.CreateCategory(ctx, name); err != nil {
			return err
		}
		log.Info("created category", "name", name)
	}
	return nil
}
