package mock

import (
	"context"
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/recipebook/recipebook/internal/database"
)

var _ database.DB = (*MockDB)(nil)

// MockDB is a mock implementation of database.DB for testing.
type MockDB struct {
	mu sync.RWMutex

	categories     map[uint]*database.Category
	nextCategoryID uint

	recipes      map[uint]*database.Recipe
	nextRecipeID uint

	comments      []database.Comment
	nextCommentID uint

	users      map[string]*database.User
	nextUserID uint

	// Error simulation
	ListCategoriesError        error
	GetCategoryError           error
	ListRecipesByCategoryError error
	GetRecipeError             error
	AddRecipeError             error
	DeleteRecipeError          error
	GetRecipeImageError        error
	ListCommentsError          error
	AddCommentError            error
	GetUserByUsernameError     error
	CreateUserError            error
}

// NewMockDB creates a new MockDB instance.
func NewMockDB() *MockDB {
	m := &MockDB{}
	m.Reset()
	return m
}

// Reset clears all data and errors from the mock database.
func (m *MockDB) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.categories = make(map[uint]*database.Category)
	m.nextCategoryID = 1
	m.recipes = make(map[uint]*database.Recipe)
	m.nextRecipeID = 1
	m.comments = nil
	m.nextCommentID = 1
	m.users = make(map[string]*database.User)
	m.nextUserID = 1

	m.ListCategoriesError = nil
	m.GetCategoryError = nil
	m.ListRecipesByCategoryError = nil
	m.GetRecipeError = nil
	m.AddRecipeError = nil
	m.DeleteRecipeError = nil
	m.GetRecipeImageError = nil
	m.ListCommentsError = nil
	m.AddCommentError = nil
	m.GetUserByUsernameError = nil
	m.CreateUserError = nil
}

// Category operations

func (m *MockDB) ListCategories(ctx context.Context) ([]database.Category, error) {
	if m.ListCategoriesError != nil {
		return nil, m.ListCategoriesError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	categories := make([]database.Category, 0, len(m.categories))
	for _, category := range m.categories {
		categories = append(categories, *category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return categories, nil
}

func (m *MockDB) GetCategory(ctx context.Context, id uint) (*database.Category, error) {
	if m.GetCategoryError != nil {
		return nil, m.GetCategoryError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	category, ok := m.categories[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	c := *category
	return &c, nil
}

func (m *MockDB) CreateCategory(ctx context.Context, name string) (*database.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	category := &database.Category{ID: m.nextCategoryID, Name: name}
	m.nextCategoryID++
	m.categories[category.ID] = category
	c := *category
	return &c, nil
}

func (m *MockDB) EnsureCategories(ctx context.Context, names []string) error {
	for _, name := range names {
		exists := false
		m.mu.RLock()
		for _, category := range m.categories {
			if category.Name == name {
				exists = true
				break
			}
		}
		m.mu.RUnlock()
		if !exists {
			if _, err := m.CreateCategory(ctx, name); err != nil {
				return err
			}
		}
	}
	return nil
}

// Recipe operations

func (m *MockDB) ListRecipesByCategory(ctx context.Context, categoryID uint) ([]database.RecipeSummary, error) {
	if m.ListRecipesByCategoryError != nil {
		return nil, m.ListRecipesByCategoryError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var recipes []database.RecipeSummary
	for _, recipe := range m.recipes {
		if recipe.CategoryID == categoryID {
			recipes = append(recipes, database.RecipeSummary{ID: recipe.ID, Name: recipe.Name})
		}
	}
	sort.Slice(recipes, func(i, j int) bool { return recipes[i].ID < recipes[j].ID })
	return recipes, nil
}

func (m *MockDB) GetRecipe(ctx context.Context, id uint) (*database.Recipe, error) {
	if m.GetRecipeError != nil {
		return nil, m.GetRecipeError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	recipe, ok := m.recipes[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	r := *recipe
	return &r, nil
}

func (m *MockDB) AddRecipe(ctx context.Context, recipe *database.Recipe) error {
	if m.AddRecipeError != nil {
		return m.AddRecipeError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	recipe.ID = m.nextRecipeID
	m.nextRecipeID++
	r := *recipe
	m.recipes[r.ID] = &r
	return nil
}

func (m *MockDB) DeleteRecipe(ctx context.Context, name string) (*database.Recipe, error) {
	if m.DeleteRecipeError != nil {
		return nil, m.DeleteRecipeError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var match *database.Recipe
	for _, recipe := range m.recipes {
		if recipe.Name == name && (match == nil || recipe.ID < match.ID) {
			match = recipe
		}
	}
	if match == nil {
		return nil, database.ErrNotFound
	}

	delete(m.recipes, match.ID)
	comments := m.comments[:0]
	for _, comment := range m.comments {
		if comment.RecipeID != match.ID {
			comments = append(comments, comment)
		}
	}
	m.comments = comments

	return &database.Recipe{ID: match.ID, CategoryID: match.CategoryID, Name: match.Name}, nil
}

func (m *MockDB) GetRecipeImage(ctx context.Context, id uint) ([]byte, error) {
	if m.GetRecipeImageError != nil {
		return nil, m.GetRecipeImageError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	recipe, ok := m.recipes[id]
	if !ok || len(recipe.DishImage) == 0 {
		return nil, nil
	}
	return recipe.DishImage, nil
}

// Comment operations

func (m *MockDB) ListComments(ctx context.Context, recipeID uint) ([]database.Comment, error) {
	if m.ListCommentsError != nil {
		return nil, m.ListCommentsError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var comments []database.Comment
	for i := len(m.comments) - 1; i >= 0; i-- {
		if m.comments[i].RecipeID == recipeID {
			comments = append(comments, m.comments[i])
		}
	}
	return comments, nil
}

func (m *MockDB) AddComment(ctx context.Context, recipeID uint, userName, text string) (*database.Comment, error) {
	if m.AddCommentError != nil {
		return nil, m.AddCommentError
	}
	if utf8.RuneCountInString(text) > database.MaxCommentLength {
		return nil, database.ErrCommentTooLong
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.recipes[recipeID]; !ok {
		return nil, database.ErrNotFound
	}

	comment := database.Comment{
		ID:          m.nextCommentID,
		RecipeID:    recipeID,
		UserName:    userName,
		CommentText: text,
		CreatedAt:   time.Now().UTC(),
	}
	m.nextCommentID++
	m.comments = append(m.comments, comment)
	return &comment, nil
}

// User operations

func (m *MockDB) GetUserByUsername(ctx context.Context, username string) (*database.User, error) {
	if m.GetUserByUsernameError != nil {
		return nil, m.GetUserByUsernameError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[username]
	if !ok {
		return nil, database.ErrNotFound
	}
	u := *user
	return &u, nil
}

func (m *MockDB) CreateUser(ctx context.Context, username, passwordDigest string) (*database.User, error) {
	if m.CreateUserError != nil {
		return nil, m.CreateUserError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if user, ok := m.users[username]; ok {
		u := *user
		return &u, nil
	}
	user := &database.User{ID: m.nextUserID, Username: username, PasswordDigest: passwordDigest}
	m.nextUserID++
	m.users[username] = user
	u := *user
	return &u, nil
}

func (m *MockDB) GetAllUsers(ctx context.Context) ([]database.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]database.User, 0, len(m.users))
	for _, user := range m.users {
		users = append(users, *user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// Statistics

func (m *MockDB) GetStoreStats(ctx context.Context) (*database.StoreStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &database.StoreStats{
		Categories: int64(len(m.categories)),
		Recipes:    int64(len(m.recipes)),
		Comments:   int64(len(m.comments)),
		Users:      int64(len(m.users)),
	}
	for _, recipe := range m.recipes {
		stats.ImageBytes += int64(len(recipe.DishImage))
	}
	return stats, nil
}

func (m *MockDB) Close() error {
	return nil
}
