package database

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type DatabaseTestSuite struct {
	suite.Suite
	client *Client
	ctx    context.Context
}

func (s *DatabaseTestSuite) SetupTest() {
	client, err := New(filepath.Join(s.T().TempDir(), "data", "recipes.db"))
	s.Require().NoError(err)
	s.client = client
	s.ctx = context.Background()
}

func (s *DatabaseTestSuite) TearDownTest() {
	if s.client != nil {
		s.NoError(s.client.Close())
	}
}

func (s *DatabaseTestSuite) addRecipe(categoryID uint, name string, image []byte) *Recipe {
	recipe := &Recipe{
		CategoryID:   categoryID,
		Name:         name,
		Ingredients:  "water",
		Instructions: "boil",
		DishImage:    image,
	}
	s.Require().NoError(s.client.AddRecipe(s.ctx, recipe))
	s.Require().NotZero(recipe.ID)
	return recipe
}

func (s *DatabaseTestSuite) TestCategories() {
	categories, err := s.client.ListCategories(s.ctx)
	s.Require().NoError(err)
	s.Empty(categories)

	soups, err := s.client.CreateCategory(s.ctx, "Soups")
	s.Require().NoError(err)
	_, err = s.client.CreateCategory(s.ctx, "Desserts")
	s.Require().NoError(err)

	categories, err = s.client.ListCategories(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(categories, 2)
	s.Equal("Soups", categories[0].Name)
	s.Equal("Desserts", categories[1].Name)

	category, err := s.client.GetCategory(s.ctx, soups.ID)
	s.Require().NoError(err)
	s.Equal("Soups", category.Name)

	_, err = s.client.GetCategory(s.ctx, 999)
	s.ErrorIs(err, ErrNotFound)
}

func (s *DatabaseTestSuite) TestEnsureCategoriesIsIdempotent() {
	s.Require().NoError(s.client.EnsureCategories(s.ctx, []string{"Soups", "Salads"}))
	s.Require().NoError(s.client.EnsureCategories(s.ctx, []string{"Salads", "Soups", "Breads"}))

	categories, err := s.client.ListCategories(s.ctx)
	s.Require().NoError(err)
	s.Len(categories, 3)
}

func (s *DatabaseTestSuite) TestAddRecipeDoesNotValidateCategory() {
	recipe := s.addRecipe(42, "Orphan", nil)

	stored, err := s.client.GetRecipe(s.ctx, recipe.ID)
	s.Require().NoError(err)
	s.Equal(uint(42), stored.CategoryID)
	s.Equal("Orphan", stored.Name)
}

func (s *DatabaseTestSuite) TestListRecipesByCategory() {
	soup := s.addRecipe(1, "Soup", []byte{0xff, 0xd8})
	s.addRecipe(2, "Cake", nil)
	stew := s.addRecipe(1, "Stew", nil)

	recipes, err := s.client.ListRecipesByCategory(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal([]RecipeSummary{{ID: soup.ID, Name: "Soup"}, {ID: stew.ID, Name: "Stew"}}, recipes)

	recipes, err = s.client.ListRecipesByCategory(s.ctx, 3)
	s.Require().NoError(err)
	s.Empty(recipes)
}

func (s *DatabaseTestSuite) TestGetRecipe() {
	image := []byte("not really a jpeg")
	recipe := s.addRecipe(1, "Soup", image)

	stored, err := s.client.GetRecipe(s.ctx, recipe.ID)
	s.Require().NoError(err)
	s.Equal("water", stored.Ingredients)
	s.Equal("boil", stored.Instructions)
	s.Equal(image, stored.DishImage)

	_, err = s.client.GetRecipe(s.ctx, recipe.ID+1)
	s.ErrorIs(err, ErrNotFound)
}

func (s *DatabaseTestSuite) TestDeleteRecipe() {
	recipe := s.addRecipe(7, "Soup", nil)

	deleted, err := s.client.DeleteRecipe(s.ctx, "Soup")
	s.Require().NoError(err)
	s.Equal(recipe.ID, deleted.ID)
	s.Equal(uint(7), deleted.CategoryID)

	_, err = s.client.GetRecipe(s.ctx, recipe.ID)
	s.ErrorIs(err, ErrNotFound)

	// second call reports not found
	_, err = s.client.DeleteRecipe(s.ctx, "Soup")
	s.ErrorIs(err, ErrNotFound)
}

func (s *DatabaseTestSuite) TestDeleteRecipeRequiresExactName() {
	s.addRecipe(1, "Tomato Soup", nil)

	for _, name := range []string{"Tomato", "tomato soup", "Tomato Soup "} {
		_, err := s.client.DeleteRecipe(s.ctx, name)
		s.ErrorIs(err, ErrNotFound, name)
	}

	stats, err := s.client.GetStoreStats(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), stats.Recipes)
}

func (s *DatabaseTestSuite) TestDeleteRecipeWithDuplicateNames() {
	first := s.addRecipe(1, "Soup", nil)
	second := s.addRecipe(2, "Soup", nil)

	deleted, err := s.client.DeleteRecipe(s.ctx, "Soup")
	s.Require().NoError(err)
	s.Equal(first.ID, deleted.ID)

	deleted, err = s.client.DeleteRecipe(s.ctx, "Soup")
	s.Require().NoError(err)
	s.Equal(second.ID, deleted.ID)
	s.Equal(uint(2), deleted.CategoryID)
}

func (s *DatabaseTestSuite) TestDeleteRecipeCascadesComments() {
	recipe := s.addRecipe(1, "Soup", nil)
	other := s.addRecipe(1, "Stew", nil)
	_, err := s.client.AddComment(s.ctx, recipe.ID, "admin", "Great!")
	s.Require().NoError(err)
	_, err = s.client.AddComment(s.ctx, other.ID, "admin", "Meh")
	s.Require().NoError(err)

	_, err = s.client.DeleteRecipe(s.ctx, "Soup")
	s.Require().NoError(err)

	comments, err := s.client.ListComments(s.ctx, recipe.ID)
	s.Require().NoError(err)
	s.Empty(comments)

	stats, err := s.client.GetStoreStats(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), stats.Comments)
}

func (s *DatabaseTestSuite) TestGetRecipeImage() {
	withImage := s.addRecipe(1, "Soup", []byte{1, 2, 3})
	withoutImage := s.addRecipe(1, "Stew", nil)
	emptyImage := s.addRecipe(1, "Salad", []byte{})

	image, err := s.client.GetRecipeImage(s.ctx, withImage.ID)
	s.Require().NoError(err)
	s.Equal([]byte{1, 2, 3}, image)

	for _, id := range []uint{withoutImage.ID, emptyImage.ID, 999} {
		image, err := s.client.GetRecipeImage(s.ctx, id)
		s.Require().NoError(err)
		s.Nil(image)
	}
}

func (s *DatabaseTestSuite) TestAddCommentLengthLimit() {
	recipe := s.addRecipe(1, "Soup", nil)

	comment, err := s.client.AddComment(s.ctx, recipe.ID, "admin", strings.Repeat("a", MaxCommentLength))
	s.Require().NoError(err)
	s.NotZero(comment.ID)
	s.False(comment.CreatedAt.IsZero())

	// multi byte characters count once
	_, err = s.client.AddComment(s.ctx, recipe.ID, "admin", strings.Repeat("é", MaxCommentLength))
	s.Require().NoError(err)

	_, err = s.client.AddComment(s.ctx, recipe.ID, "admin", strings.Repeat("a", MaxCommentLength+1))
	s.ErrorIs(err, ErrCommentTooLong)

	comments, err := s.client.ListComments(s.ctx, recipe.ID)
	s.Require().NoError(err)
	s.Len(comments, 2)
}

func (s *DatabaseTestSuite) TestCommentLengthIsEnforcedByTheStore() {
	recipe := s.addRecipe(1, "Soup", nil)

	err := s.client.db.Create(&Comment{
		RecipeID:    recipe.ID,
		UserName:    "admin",
		CommentText: strings.Repeat("a", MaxCommentLength+1),
	}).Error
	s.Error(err)
}

func (s *DatabaseTestSuite) TestAddCommentUnknownRecipe() {
	_, err := s.client.AddComment(s.ctx, 999, "admin", "Hello")
	s.ErrorIs(err, ErrNotFound)
}

func (s *DatabaseTestSuite) TestListCommentsNewestFirst() {
	recipe := s.addRecipe(1, "Soup", nil)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i, offset := range []time.Duration{time.Minute, 3 * time.Minute, 0, 3 * time.Minute} {
		s.Require().NoError(s.client.db.Create(&Comment{
			RecipeID:    recipe.ID,
			UserName:    "admin",
			CommentText: string(rune('a' + i)),
			CreatedAt:   base.Add(offset),
		}).Error)
	}

	comments, err := s.client.ListComments(s.ctx, recipe.ID)
	s.Require().NoError(err)
	s.Require().Len(comments, 4)

	for i := 1; i < len(comments); i++ {
		s.False(comments[i].CreatedAt.After(comments[i-1].CreatedAt))
	}
	// equal timestamps: the later insert comes first
	s.Equal("d", comments[0].CommentText)
	s.Equal("b", comments[1].CommentText)
	s.Equal("a", comments[2].CommentText)
	s.Equal("c", comments[3].CommentText)
}

func (s *DatabaseTestSuite) TestAddCommentAssignsTimestamp() {
	recipe := s.addRecipe(1, "Soup", nil)
	before := time.Now().Add(-time.Second)

	_, err := s.client.AddComment(s.ctx, recipe.ID, "admin", "first")
	s.Require().NoError(err)
	_, err = s.client.AddComment(s.ctx, recipe.ID, "shivam", "second")
	s.Require().NoError(err)

	comments, err := s.client.ListComments(s.ctx, recipe.ID)
	s.Require().NoError(err)
	s.Require().Len(comments, 2)
	s.Equal("second", comments[0].CommentText)
	s.Equal("shivam", comments[0].UserName)
	s.True(comments[1].CreatedAt.After(before))
}

func (s *DatabaseTestSuite) TestUsers() {
	user, err := s.client.CreateUser(s.ctx, "admin", "digest")
	s.Require().NoError(err)
	s.NotZero(user.ID)

	// usernames are unique, the existing user is kept
	again, err := s.client.CreateUser(s.ctx, "admin", "other-digest")
	s.Require().NoError(err)
	s.Equal(user.ID, again.ID)
	s.Equal("digest", again.PasswordDigest)

	found, err := s.client.GetUserByUsername(s.ctx, "admin")
	s.Require().NoError(err)
	s.Equal("digest", found.PasswordDigest)

	_, err = s.client.GetUserByUsername(s.ctx, "nobody")
	s.ErrorIs(err, ErrNotFound)

	users, err := s.client.GetAllUsers(s.ctx)
	s.Require().NoError(err)
	s.Len(users, 1)
}

func (s *DatabaseTestSuite) TestStoreStats() {
	_, err := s.client.CreateCategory(s.ctx, "Soups")
	s.Require().NoError(err)
	recipe := s.addRecipe(1, "Soup", make([]byte, 1024))
	s.addRecipe(1, "Stew", nil)
	_, err = s.client.AddComment(s.ctx, recipe.ID, "admin", "Great!")
	s.Require().NoError(err)

	stats, err := s.client.GetStoreStats(s.ctx)
	s.Require().NoError(err)
	s.Equal(&StoreStats{
		Categories: 1,
		Recipes:    2,
		Comments:   1,
		Users:      0,
		ImageBytes: 1024,
	}, stats)
}

func (s *DatabaseTestSuite) TestReopenKeepsData() {
	path := filepath.Join(s.T().TempDir(), "recipes.db")
	client, err := New(path)
	s.Require().NoError(err)
	_, err = client.CreateCategory(s.ctx, "Soups")
	s.Require().NoError(err)
	s.Require().NoError(client.Close())

	client, err = New(path)
	s.Require().NoError(err)
	defer client.Close() //nolint:errcheck

	categories, err := client.ListCategories(s.ctx)
	s.Require().NoError(err)
	s.Len(categories, 1)
}

func TestDatabaseTestSuite(t *testing.T) {
	suite.Run(t, new(DatabaseTestSuite))
}
