package database

import "context"

// DB is the data access layer used by the HTTP handlers and the CLI.
type DB interface {
	// Categories
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id uint) (*Category, error)
	CreateCategory(ctx context.Context, name string) (*Category, error)
	EnsureCategories(ctx context.Context, names []string) error

	// Recipes
	ListRecipesByCategory(ctx context.Context, categoryID uint) ([]RecipeSummary, error)
	GetRecipe(ctx context.Context, id uint) (*Recipe, error)
	AddRecipe(ctx context.Context, recipe *Recipe) error
	DeleteRecipe(ctx context.Context, name string) (*Recipe, error)
	GetRecipeImage(ctx context.Context, id uint) ([]byte, error)

	// Comments
	ListComments(ctx context.Context, recipeID uint) ([]Comment, error)
	AddComment(ctx context.Context, recipeID uint, userName, text string) (*Comment, error)

	// Users
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	CreateUser(ctx context.Context, username, passwordDigest string) (*User, error)
	GetAllUsers(ctx context.Context) ([]User, error)

	// Statistics
	GetStoreStats(ctx context.Context) (*StoreStats, error)

	Close() error
}
