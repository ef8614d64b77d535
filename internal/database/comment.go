package database

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
)

// MaxCommentLength is the maximum number of characters of a comment.
const MaxCommentLength = 500

// Comment is an entry of the append-only comment ledger of a recipe.
type Comment struct {
	ID          uint      `gorm:"primaryKey"`
	RecipeID    uint      `gorm:"not null;index"`
	UserName    string    `gorm:"not null"`
	CommentText string    `gorm:"type:text;not null;check:length(comment_text) <= 500"`
	CreatedAt   time.Time `gorm:"not null;index"`
}

// ListComments returns the comments of a recipe, most recent first.
func (c *Client) ListComments(ctx context.Context, recipeID uint) ([]Comment, error) {
	var comments []Comment
	if err := c.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&comments).Error; err != nil {
		log.Error("failed to list comments", "recipe_id", recipeID, "error", err)
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// AddComment appends a comment to a recipe. The timestamp is assigned by the server.
func (c *Client) AddComment(ctx context.Context, recipeID uint, userName, text string) (*Comment, error) {
	if utf8.RuneCountInString(text) > MaxCommentLength {
		return nil, ErrCommentTooLong
	}

	comment := Comment{
		RecipeID:    recipeID,
		UserName:    userName,
		CommentText: text,
	}
	if err := c.db.WithContext(ctx).Create(&comment).Error; err != nil {
		switch {
		case isForeignKeyViolation(err):
			return nil, ErrNotFound
		case isCheckViolation(err):
			return nil, ErrCommentTooLong
		}
		log.Error("failed to add comment", "recipe_id", recipeID, "error", err)
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}
	return &comment, nil
}
