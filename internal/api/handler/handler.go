package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/ccoveille/go-safecast"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/recipebook/recipebook/internal/api/auth"
	"github.com/recipebook/recipebook/internal/api/flash"
	"github.com/recipebook/recipebook/internal/api/models"
	"github.com/recipebook/recipebook/internal/cache"
	"github.com/recipebook/recipebook/internal/config"
	"github.com/recipebook/recipebook/internal/database"
	"github.com/recipebook/recipebook/web/templates/pages"
)

type Handler struct {
	db          database.DB
	config      *config.Config
	auth        *auth.Provider
	thumbs      *cache.ThumbnailCache
	placeholder []byte
}

func New(db database.DB, cfg *config.Config, authProvider *auth.Provider, thumbs *cache.ThumbnailCache, placeholder []byte) *Handler {
	return &Handler{
		db:          db,
		config:      cfg,
		auth:        authProvider,
		thumbs:      thumbs,
		placeholder: placeholder,
	}
}

func (h *Handler) Root(c *gin.Context) {
	c.Redirect(http.StatusFound, "/login")
}

func (h *Handler) Login(c *gin.Context) {
	if h.auth.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, "/index")
		return
	}
	h.render(c, "login", pages.Login(flash.Pop(c)))
}

func (h *Handler) Index(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	categories, err := h.db.ListCategories(c.Request.Context())
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err) //nolint:errcheck
		return
	}

	h.render(c, "index", pages.Index(user, flash.Pop(c), models.ToCategoryItems(categories)))
}

func (h *Handler) Category(c *gin.Context) {
	categoryID, err := parseUintParam(c.Param("id"))
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	ctx := c.Request.Context()
	category, err := h.db.GetCategory(ctx, categoryID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			h.redirectWithFlash(c, flash.Danger, "Category not found.", "/index")
			return
		}
		c.AbortWithError(http.StatusInternalServerError, err) //nolint:errcheck
		return
	}

	recipes, err := h.db.ListRecipesByCategory(ctx, categoryID)
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err) //nolint:errcheck
		return
	}

	h.render(c, "category", pages.Category(
		h.auth.CurrentUser(c),
		flash.Pop(c),
		models.CategoryItem{ID: category.ID, Name: category.Name},
		models.ToRecipeItems(recipes),
	))
}

func (h *Handler) Recipe(c *gin.Context) {
	recipeID, err := parseUintParam(c.Param("id"))
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	ctx := c.Request.Context()
	recipe, err := h.db.GetRecipe(ctx, recipeID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			h.redirectWithFlash(c, flash.Danger, "Recipe not found.", "/index")
			return
		}
		c.AbortWithError(http.StatusInternalServerError, err) //nolint:errcheck
		return
	}

	comments, err := h.db.ListComments(ctx, recipeID)
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err) //nolint:errcheck
		return
	}

	h.render(c, "recipe", pages.Recipe(
		h.auth.CurrentUser(c),
		flash.Pop(c),
		models.ToRecipeDetail(recipe),
		models.ToCommentItems(comments, h.config),
	))
}

// AddRecipe stores a submitted recipe. Only the category id has to be well-formed,
// the category itself, the name and the image are stored as given.
func (h *Handler) AddRecipe(c *gin.Context) {
	categoryID, err := parseUintParam(strings.TrimSpace(c.PostForm("category_id")))
	if err != nil {
		h.redirectWithFlash(c, flash.Danger, "Please choose a valid category.", "/index")
		return
	}

	image, err := readFormFile(c, "image")
	if err != nil {
		log.Error("Failed to read uploaded image", "error", err)
		h.redirectWithFlash(c, flash.Danger, "The uploaded image could not be read.", "/index")
		return
	}

	recipe := &database.Recipe{
		CategoryID:   categoryID,
		Name:         c.PostForm("name"),
		Ingredients:  c.PostForm("ingredients"),
		Instructions: c.PostForm("instructions"),
		DishImage:    image,
	}
	if err := h.db.AddRecipe(c.Request.Context(), recipe); err != nil {
		c.AbortWithError(http.StatusInternalServerError, err) //nolint:errcheck
		return
	}

	log.Info("Recipe added", "id", recipe.ID, "name", recipe.Name, "category_id", categoryID, "image_bytes", len(image))
	h.redirectWithFlash(c, flash.Success, "Recipe added!", fmt.Sprintf("/category/%d", categoryID))
}

// DeleteRecipe removes the recipe whose name matches the submitted one exactly.
func (h *Handler) DeleteRecipe(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("delete_name"))
	if name == "" {
		h.redirectWithFlash(c, flash.Danger, "Please enter a recipe name to delete.", "/index")
		return
	}

	ctx := c.Request.Context()
	recipe, err := h.db.DeleteRecipe(ctx, name)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			h.redirectWithFlash(c, flash.Danger, fmt.Sprintf("No recipe found with the name %q.", name), "/index")
			return
		}
		c.AbortWithError(http.StatusInternalServerError, err) //nolint:errcheck
		return
	}

	if err := h.thumbs.Evict(ctx, recipe.ID); err != nil {
		log.Warn("Failed to evict thumbnail", "recipe_id", recipe.ID, "error", err)
	}

	log.Info("Recipe deleted", "id", recipe.ID, "name", recipe.Name)
	h.redirectWithFlash(c, flash.Success, fmt.Sprintf("Recipe %q has been deleted.", name), fmt.Sprintf("/category/%d", recipe.CategoryID))
}

func (h *Handler) AddComment(c *gin.Context) {
	recipeID, err := parseUintParam(c.Param("id"))
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	user := c.MustGet("user").(*models.User)
	recipePath := fmt.Sprintf("/recipe/%d", recipeID)

	_, err = h.db.AddComment(c.Request.Context(), recipeID, user.Username, c.PostForm("comment"))
	switch {
	case errors.Is(err, database.ErrCommentTooLong):
		h.redirectWithFlash(c, flash.Danger,
			fmt.Sprintf("Comments can be at most %d characters long.", database.MaxCommentLength), recipePath)
	case errors.Is(err, database.ErrNotFound):
		h.redirectWithFlash(c, flash.Danger, "Recipe not found.", "/index")
	case err != nil:
		c.AbortWithError(http.StatusInternalServerError, err) //nolint:errcheck
	default:
		h.redirectWithFlash(c, flash.Success, "Your comment has been posted.", recipePath)
	}
}

// RecipeImage serves the stored image as jpeg. The placeholder is served if there is no
// image or it can't be loaded. Ids that are not numbers are a 404 like on the page routes.
func (h *Handler) RecipeImage(c *gin.Context) {
	recipeID, err := parseUintParam(c.Param("id"))
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	image, err := h.db.GetRecipeImage(c.Request.Context(), recipeID)
	if err != nil {
		log.Error("Failed to load recipe image", "recipe_id", recipeID, "error", err)
		h.servePlaceholder(c)
		return
	}
	if len(image) == 0 {
		h.servePlaceholder(c)
		return
	}

	c.Data(http.StatusOK, "image/jpeg", image)
}

// RecipeThumb serves the scaled image of a recipe, or the placeholder.
func (h *Handler) RecipeThumb(c *gin.Context) {
	recipeID, err := parseUintParam(c.Param("id"))
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	thumb, err := h.thumbs.Get(c.Request.Context(), recipeID, func(ctx context.Context) ([]byte, error) {
		return h.db.GetRecipeImage(ctx, recipeID)
	})
	if err != nil {
		if !errors.Is(err, cache.ErrNoImage) {
			log.Warn("Failed to create thumbnail", "recipe_id", recipeID, "error", err)
		}
		h.servePlaceholder(c)
		return
	}

	c.Data(http.StatusOK, "image/jpeg", thumb.Data)
}

func (h *Handler) servePlaceholder(c *gin.Context) {
	c.Data(http.StatusOK, "image/jpeg", h.placeholder)
}

func (h *Handler) redirectWithFlash(c *gin.Context, category flash.Category, text, location string) {
	flash.Add(c, category, text)
	c.Redirect(http.StatusFound, location)
}

func (h *Handler) render(c *gin.Context, page string, component templ.Component) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(c.Request.Context(), c.Writer); err != nil {
		log.Error("Failed to render page", "page", page, "error", err)
	}
}

// readFormFile reads an optional uploaded file. A missing file yields nil.
func readFormFile(c *gin.Context, field string) ([]byte, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}

	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}

func parseUintParam(param string) (uint, error) {
	id, err := strconv.ParseUint(param, 10, 64)
	if err != nil {
		return 0, err
	}
	return safecast.ToUint(id)
}
