package pages

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/recipebook/recipebook/internal/api/flash"
	"github.com/recipebook/recipebook/internal/api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	var buf bytes.Buffer
	err := Login([]flash.Message{{Category: flash.Danger, Text: "Invalid username or password. Please try again."}}).
		Render(context.Background(), &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `action="/login"`)
	assert.Contains(t, out, `class="flash flash-danger"`)
	assert.Contains(t, out, "Invalid username or password. Please try again.")
	assert.NotContains(t, out, "/logout")
}

func TestIndex(t *testing.T) {
	var buf bytes.Buffer
	user := &models.User{Username: "admin"}
	categories := []models.CategoryItem{{ID: 1, Name: "Breakfast"}, {ID: 2, Name: "Soups & Stews"}}
	require.NoError(t, Index(user, nil, categories).Render(context.Background(), &buf))

	out := buf.String()
	assert.Contains(t, out, `href="/category/1"`)
	assert.Contains(t, out, "Soups &amp; Stews")
	assert.Contains(t, out, `action="/add_recipe"`)
	assert.Contains(t, out, `enctype="multipart/form-data"`)
	assert.Contains(t, out, `name="delete_name"`)
	assert.Contains(t, out, "/logout")
}

func TestCategory(t *testing.T) {
	var buf bytes.Buffer
	recipes := []models.RecipeItem{{ID: 7, Name: "Pancakes"}}
	require.NoError(t, Category(nil, nil, models.CategoryItem{ID: 1, Name: "Breakfast"}, recipes).
		Render(context.Background(), &buf))

	out := buf.String()
	assert.Contains(t, out, "<h1>Breakfast</h1>")
	assert.Contains(t, out, `href="/recipe/7"`)
	assert.Contains(t, out, `src="/recipe_thumb/7"`)
}

func TestCategory_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Category(nil, nil, models.CategoryItem{ID: 3, Name: "Desserts"}, nil).
		Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), "No recipes in this category yet.")
}

func TestRecipe(t *testing.T) {
	var buf bytes.Buffer
	recipe := models.RecipeDetail{
		ID:           7,
		CategoryID:   1,
		Name:         "Pancakes",
		Ingredients:  "2 eggs\n1 cup flour",
		Instructions: "Mix.\nFry.",
	}
	comments := []models.CommentItem{
		{ID: 2, UserName: "shivam", Text: "<b>yum</b>", CreatedAt: time.Now().Add(-time.Hour)},
		{ID: 1, UserName: "admin", Text: "first", CreatedAt: time.Now().Add(-2 * time.Hour)},
	}
	require.NoError(t, Recipe(&models.User{Username: "admin"}, nil, recipe, comments).Render(context.Background(), &buf))

	out := buf.String()
	assert.Contains(t, out, `src="/recipe_image/7"`)
	assert.Contains(t, out, "<li>2 eggs</li>")
	assert.Contains(t, out, `action="/add_comment/7"`)
	assert.Contains(t, out, `maxlength="500"`)
	assert.Contains(t, out, "&lt;b&gt;yum&lt;/b&gt;")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("yum")), bytes.Index(buf.Bytes(), []byte("first")))
}

func TestRecipe_Anonymous(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Recipe(nil, nil, models.RecipeDetail{ID: 1, Name: "Soup"}, nil).Render(context.Background(), &buf))

	out := buf.String()
	assert.NotContains(t, out, "/add_comment/")
	assert.Contains(t, out, "No comments yet.")
}
