package models

import (
	"github.com/recipebook/recipebook/internal/config"
	"github.com/recipebook/recipebook/internal/database"
	"github.com/recipebook/recipebook/internal/gravatar"
	"github.com/samber/lo"
)

// ToCategoryItems converts database categories for the index page.
func ToCategoryItems(categories []database.Category) []CategoryItem {
	return lo.Map(categories, func(c database.Category, _ int) CategoryItem {
		return CategoryItem{ID: c.ID, Name: c.Name}
	})
}

// ToRecipeItems converts the recipe projection for category listings.
func ToRecipeItems(recipes []database.RecipeSummary) []RecipeItem {
	return lo.Map(recipes, func(r database.RecipeSummary, _ int) RecipeItem {
		return RecipeItem{ID: r.ID, Name: r.Name}
	})
}

// ToRecipeDetail converts a database.Recipe, dropping the image bytes.
func ToRecipeDetail(r *database.Recipe) RecipeDetail {
	return RecipeDetail{
		ID:           r.ID,
		CategoryID:   r.CategoryID,
		Name:         r.Name,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
		HasImage:     len(r.DishImage) > 0,
		ImageSize:    int64(len(r.DishImage)),
	}
}

// ToCommentItems converts comments and attaches the Gravatar of authors with a configured email.
func ToCommentItems(comments []database.Comment, cfg *config.Config) []CommentItem {
	return lo.Map(comments, func(c database.Comment, _ int) CommentItem {
		item := CommentItem{
			ID:        c.ID,
			UserName:  c.UserName,
			Text:      c.CommentText,
			CreatedAt: c.CreatedAt,
		}
		if cfg != nil {
			item.GravatarURL = gravatar.AvatarURL(c.UserName, cfg.EmailForUser(c.UserName), cfg.Gravatar)
		}
		return item
	})
}
