package models

import "time"

// User is the logged in user, built from the session.
type User struct {
	Username    string
	GravatarURL string // URL to the user's Gravatar image, empty if not available
}

// CategoryItem is a category as shown on the index page.
type CategoryItem struct {
	ID   uint
	Name string
}

// RecipeItem is a recipe as shown in a category listing.
type RecipeItem struct {
	ID   uint
	Name string
}

// RecipeDetail is a recipe as shown on its own page. The image is served separately.
type RecipeDetail struct {
	ID           uint
	CategoryID   uint
	Name         string
	Ingredients  string
	Instructions string
	HasImage     bool
	ImageSize    int64
}

// CommentItem is a comment as shown below a recipe.
type CommentItem struct {
	ID          uint
	UserName    string
	Text        string
	CreatedAt   time.Time
	GravatarURL string
}
