package database

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
)

// Recipe is a dish belonging to a category.
// CategoryID is a logical reference only, no foreign key constraint is declared for it.
type Recipe struct {
	ID           uint   `gorm:"primaryKey"`
	CategoryID   uint   `gorm:"index"`
	Name         string `gorm:"index"`
	Ingredients  string
	Instructions string
	DishImage    []byte
	Comments     []Comment `gorm:"constraint:OnDelete:CASCADE;"`
}

// RecipeSummary is the projection used by list views.
type RecipeSummary struct {
	ID   uint
	Name string
}

func (c *Client) ListRecipesByCategory(ctx context.Context, categoryID uint) ([]RecipeSummary, error) {
	var recipes []RecipeSummary
	if err := c.db.WithContext(ctx).
		Model(&Recipe{}).
		Select("id", "name").
		Where("category_id = ?", categoryID).
		Order("id").
		Find(&recipes).Error; err != nil {
		log.Error("failed to list recipes", "category_id", categoryID, "error", err)
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

func (c *Client) GetRecipe(ctx context.Context, id uint) (*Recipe, error) {
	var recipe Recipe
	if err := c.db.WithContext(ctx).First(&recipe, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &recipe, nil
}

// AddRecipe inserts the recipe as is. Neither the category nor the image are validated.
func (c *Client) AddRecipe(ctx context.Context, recipe *Recipe) error {
	if err := c.db.WithContext(ctx).Omit("Comments").Create(recipe).Error; err != nil {
		log.Error("failed to add recipe", "name", recipe.Name, "error", err)
		return fmt.Errorf("failed to add recipe: %w", err)
	}
	return nil
}

// DeleteRecipe removes the recipe with the given name and returns it without its image.
// If several recipes share the name, the one with the lowest id is removed.
func (c *Client) DeleteRecipe(ctx context.Context, name string) (*Recipe, error) {
	var recipe Recipe
	if err := c.db.WithContext(ctx).
		Select("id", "category_id", "name").
		Where("name = ?", name).
		Order("id").
		First(&recipe).Error; err != nil {
		return nil, notFound(err)
	}

	result := c.db.WithContext(ctx).Delete(&Recipe{}, recipe.ID)
	if result.Error != nil {
		log.Error("failed to delete recipe", "id", recipe.ID, "error", result.Error)
		return nil, fmt.Errorf("failed to delete recipe: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// deleted concurrently
		return nil, ErrNotFound
	}
	return &recipe, nil
}

// GetRecipeImage returns the stored image of a recipe.
// A nil slice means there is nothing to serve, either because the recipe doesn't exist or has no image.
func (c *Client) GetRecipeImage(ctx context.Context, id uint) ([]byte, error) {
	var recipes []Recipe
	if err := c.db.WithContext(ctx).
		Select("dish_image").
		Where("id = ?", id).
		Limit(1).
		Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to get recipe image: %w", err)
	}
	if len(recipes) == 0 || len(recipes[0].DishImage) == 0 {
		return nil, nil
	}
	return recipes[0].DishImage, nil
}
