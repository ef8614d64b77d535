package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/recipebook/recipebook/internal/api/auth"
	"github.com/recipebook/recipebook/internal/api/handler"
	"github.com/recipebook/recipebook/internal/cache"
	"github.com/recipebook/recipebook/internal/config"
	"github.com/recipebook/recipebook/internal/database"
	"github.com/recipebook/recipebook/internal/gravatar"
	"github.com/recipebook/recipebook/internal/static"
)

const sessionName = "recipebook_session"

// maxUploadMemory is the part of a multipart upload kept in memory, the rest spills to disk.
const maxUploadMemory = 16 << 20

type Server struct {
	cfg          *config.Config
	ginEngine    *gin.Engine
	db           database.DB
	authProvider *auth.Provider
	thumbs       *cache.ThumbnailCache
	placeholder  []byte
}

// New creates the http server. The placeholder image is loaded once here.
func New(cfg *config.Config, db database.DB, thumbs *cache.ThumbnailCache, debug bool) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := gravatar.Validate(cfg.Gravatar); err != nil {
		return nil, err
	}

	placeholder, err := static.LoadPlaceholder(cfg.Images.PlaceholderPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load placeholder image: %w", err)
	}

	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}
	ginEngine := gin.New()
	ginEngine.MaxMultipartMemory = maxUploadMemory
	ginEngine.Use(gin.Recovery(), requestLogger())

	s := &Server{
		cfg:          cfg,
		ginEngine:    ginEngine,
		db:           db,
		authProvider: auth.NewProvider(db, cfg),
		thumbs:       thumbs,
		placeholder:  placeholder,
	}
	s.setupRoutes()
	return s, nil
}

// Handler returns the http handler of the server.
func (s *Server) Handler() http.Handler {
	return s.ginEngine
}

func (s *Server) setupSession() {
	store := cookie.NewStore([]byte(s.cfg.SessionKey))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   s.cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	s.ginEngine.Use(sessions.Sessions(sessionName, store))
}

func (s *Server) setupRoutes() {
	s.ginEngine.Use(gzip.Gzip(gzip.DefaultCompression,
		// images are already compressed
		gzip.WithExcludedPaths([]string{"/recipe_image/", "/recipe_thumb/"}),
	))
	s.ginEngine.StaticFS("/static", http.FS(static.Assets()))

	s.setupSession()

	h := handler.New(s.db, s.cfg, s.authProvider, s.thumbs, s.placeholder)

	s.ginEngine.GET("/", h.Root)
	s.ginEngine.GET("/login", h.Login)
	s.ginEngine.POST("/login", s.authProvider.Login)
	s.ginEngine.GET("/logout", s.authProvider.Logout)

	s.ginEngine.GET("/category/:id", h.Category)
	s.ginEngine.GET("/recipe/:id", h.Recipe)
	s.ginEngine.GET("/recipe_image/:id", h.RecipeImage)
	s.ginEngine.GET("/recipe_thumb/:id", h.RecipeThumb)

	s.ginEngine.GET("/index",
		s.authProvider.RequireAuth("You must be logged in to access the main page."), h.Index)
	s.ginEngine.POST("/add_recipe",
		s.authProvider.RequireAuth("Login required to add a recipe."), h.AddRecipe)
	s.ginEngine.POST("/delete_recipe",
		s.authProvider.RequireAuth("You must be logged in to delete a recipe."), h.DeleteRecipe)
	s.ginEngine.POST("/add_comment/:id",
		s.authProvider.RequireAuth("You must be logged in to comment."), h.AddComment)
}

// Run serves http until ctx is done, then shuts the server down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.ginEngine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting server", "listen", s.cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
