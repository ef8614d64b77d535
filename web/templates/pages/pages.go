// Package pages renders the html pages of the recipe book.
package pages

import (
	"embed"
	"html/template"

	"github.com/a-h/templ"
	"github.com/recipebook/recipebook/internal/api/flash"
	"github.com/recipebook/recipebook/internal/api/models"
	"github.com/recipebook/recipebook/internal/database"
	"github.com/recipebook/recipebook/web/templates/components"
)

//go:embed html/*.html
var templatesFS embed.FS

var (
	loginPage    = mustParse("login")
	indexPage    = mustParse("index")
	categoryPage = mustParse("category")
	recipePage   = mustParse("recipe")
)

// mustParse parses the layout together with one page, so every page can define its own "content".
func mustParse(page string) *template.Template {
	t := template.Must(template.New(page).Funcs(components.FuncMap()).
		ParseFS(templatesFS, "html/layout.html", "html/"+page+".html"))
	return t.Lookup("layout")
}

type pageData struct {
	Title   string
	User    *models.User
	Flashes []flash.Message
}

type indexData struct {
	pageData
	Categories []models.CategoryItem
}

type categoryData struct {
	pageData
	Category models.CategoryItem
	Recipes  []models.RecipeItem
}

type recipeData struct {
	pageData
	Recipe           models.RecipeDetail
	Comments         []models.CommentItem
	MaxCommentLength int
}

// Login renders the login form.
func Login(flashes []flash.Message) templ.Component {
	return templ.FromGoHTML(loginPage, pageData{Title: "Log in", Flashes: flashes})
}

// Index renders the category overview with the add and delete recipe forms.
func Index(user *models.User, flashes []flash.Message, categories []models.CategoryItem) templ.Component {
	return templ.FromGoHTML(indexPage, indexData{
		pageData:   pageData{Title: "Categories", User: user, Flashes: flashes},
		Categories: categories,
	})
}

// Category renders the recipes of one category.
func Category(user *models.User, flashes []flash.Message, category models.CategoryItem, recipes []models.RecipeItem) templ.Component {
	return templ.FromGoHTML(categoryPage, categoryData{
		pageData: pageData{Title: category.Name, User: user, Flashes: flashes},
		Category: category,
		Recipes:  recipes,
	})
}

// Recipe renders a recipe with its comments, newest first.
func Recipe(user *models.User, flashes []flash.Message, recipe models.RecipeDetail, comments []models.CommentItem) templ.Component {
	return templ.FromGoHTML(recipePage, recipeData{
		pageData:         pageData{Title: recipe.Name, User: user, Flashes: flashes},
		Recipe:           recipe,
		Comments:         comments,
		MaxCommentLength: database.MaxCommentLength,
	})
}
