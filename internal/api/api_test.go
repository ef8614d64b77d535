package api

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/recipebook/recipebook/internal/api/auth"
	"github.com/recipebook/recipebook/internal/cache"
	"github.com/recipebook/recipebook/internal/config"
	"github.com/recipebook/recipebook/internal/database"
	"github.com/recipebook/recipebook/internal/database/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ServerTestSuite struct {
	suite.Suite
	db      *database.Client
	server  *Server
	cookies map[string]*http.Cookie
}

func (s *ServerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	cfg := &config.Config{
		Listen:     "127.0.0.1:0",
		SessionKey: "test-session-key",
		Database:   &config.DatabaseConfig{Path: filepath.Join(s.T().TempDir(), "recipes.db")},
		Auth:       &config.AuthConfig{PasswordHash: config.PasswordHashBcrypt},
		Users:      config.DefaultUsers(),
		Categories: []string{"Soups", "Desserts"},
		Images:     &config.ImagesConfig{ThumbnailWidth: 340, ThumbnailHeight: 500, JPEGQuality: 85},
		Cache:      &config.CacheConfig{Type: config.CacheTypeMemory},
		Gravatar:   &config.GravatarConfig{},
	}

	db, err := database.New(cfg.Database.Path)
	s.Require().NoError(err)
	s.db = db
	s.Require().NoError(db.EnsureCategories(ctx, cfg.Categories))
	_, err = auth.SeedUsers(ctx, db, cfg.Users, cfg.Auth.PasswordHash)
	s.Require().NoError(err)

	thumbs, err := cache.NewThumbnailCache(cfg.Cache, cfg.Images)
	s.Require().NoError(err)

	s.server, err = New(cfg, db, thumbs, true)
	s.Require().NoError(err)
	s.cookies = make(map[string]*http.Cookie)
}

func (s *ServerTestSuite) TearDownTest() {
	s.NoError(s.db.Close())
}

func (s *ServerTestSuite) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range s.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.server.Handler().ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		s.cookies[c.Name] = c
	}
	return w
}

func (s *ServerTestSuite) get(path string) *httptest.ResponseRecorder {
	return s.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (s *ServerTestSuite) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req)
}

func (s *ServerTestSuite) TestRecipeLifecycle() {
	// log in as a seeded user
	w := s.postForm("/login", url.Values{"username": {"admin"}, "password": {"admin"}})
	s.Require().Equal(http.StatusFound, w.Code)
	s.Require().Equal("/index", w.Header().Get("Location"))

	w = s.get("/index")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "Login successful!")
	s.Contains(w.Body.String(), "Soups")

	// add a recipe with an image
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	s.Require().NoError(mw.WriteField("category_id", "1"))
	s.Require().NoError(mw.WriteField("name", "Soup"))
	s.Require().NoError(mw.WriteField("ingredients", "water"))
	s.Require().NoError(mw.WriteField("instructions", "boil"))
	fw, err := mw.CreateFormFile("image", "soup.jpg")
	s.Require().NoError(err)
	image := []byte{0xff, 0xd8, 0xff, 0xdb, 0x00}
	_, err = fw.Write(image)
	s.Require().NoError(err)
	s.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/add_recipe", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w = s.do(req)
	s.Require().Equal(http.StatusFound, w.Code)
	s.Equal("/category/1", w.Header().Get("Location"))

	w = s.get("/category/1")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "Recipe added!")
	s.Contains(w.Body.String(), "Soup")
	s.Contains(w.Body.String(), `href="/recipe/1"`)

	// comment on it
	w = s.postForm("/add_comment/1", url.Values{"comment": {"Great!"}})
	s.Require().Equal(http.StatusFound, w.Code)
	s.Equal("/recipe/1", w.Header().Get("Location"))

	comments, err := s.db.ListComments(context.Background(), 1)
	s.Require().NoError(err)
	s.Require().NotEmpty(comments)
	s.Equal("admin", comments[0].UserName)
	s.Equal("Great!", comments[0].CommentText)

	w = s.get("/recipe/1")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "Great!")
	s.Contains(w.Body.String(), "Your comment has been posted.")

	w = s.get("/recipe_image/1")
	s.Equal("image/jpeg", w.Header().Get("Content-Type"))
	s.Equal(image, w.Body.Bytes())

	// deleting the recipe removes its comments too
	w = s.postForm("/delete_recipe", url.Values{"delete_name": {"Soup"}})
	s.Require().Equal(http.StatusFound, w.Code)
	s.Equal("/category/1", w.Header().Get("Location"))

	comments, err = s.db.ListComments(context.Background(), 1)
	s.Require().NoError(err)
	s.Empty(comments)

	// logging out locks the main page again
	w = s.get("/logout")
	s.Equal("/login", w.Header().Get("Location"))
	w = s.get("/index")
	s.Equal(http.StatusFound, w.Code)
	s.Equal("/login", w.Header().Get("Location"))
}

func (s *ServerTestSuite) TestForgedSessionIsRejected() {
	s.postForm("/login", url.Values{"username": {"admin"}, "password": {"admin"}})
	for name, c := range s.cookies {
		forged := *c
		forged.Value = strings.ToUpper(c.Value)
		s.cookies[name] = &forged
	}

	w := s.get("/index")
	s.Equal(http.StatusFound, w.Code)
	s.Equal("/login", w.Header().Get("Location"))
}

func (s *ServerTestSuite) TestGzip() {
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := s.do(req)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("gzip", w.Header().Get("Content-Encoding"))

	req = httptest.NewRequest(http.MethodGet, "/recipe_image/1", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w = s.do(req)
	s.Equal(http.StatusOK, w.Code)
	s.Empty(w.Header().Get("Content-Encoding"))
	s.Equal("image/jpeg", w.Header().Get("Content-Type"))
}

func (s *ServerTestSuite) TestStaticAssets() {
	w := s.get("/static/style.css")
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Header().Get("Content-Type"), "text/css")
}

func (s *ServerTestSuite) TestRequestID() {
	w := s.get("/login")
	s.NotEmpty(w.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w = s.do(req)
	s.Equal("abc-123", w.Header().Get(requestIDHeader))
}

func (s *ServerTestSuite) TestRun_Shutdown() {
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Run(ctx)
	}()
	cancel()
	s.NoError(<-errCh)
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(nil, nil, nil, true)
	assert.Error(t, err)
}

func TestNew_RejectsInvalidGravatar(t *testing.T) {
	tests := []struct {
		name     string
		gravatar *config.GravatarConfig
		wantErr  string
	}{
		{"size", &config.GravatarConfig{Enabled: true, Size: 99999}, "gravatar size"},
		{"default image", &config.GravatarConfig{Enabled: true, DefaultImage: "bogus"}, "default image"},
		{"rating", &config.GravatarConfig{Enabled: true, Rating: "zzz"}, "rating"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				SessionKey: "test-secret",
				Images:     &config.ImagesConfig{ThumbnailWidth: 340, ThumbnailHeight: 500, JPEGQuality: 85},
				Cache:      &config.CacheConfig{Type: config.CacheTypeMemory},
				Gravatar:   tt.gravatar,
			}
			_, err := New(cfg, mock.NewMockDB(), nil, true)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
