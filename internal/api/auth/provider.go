package auth

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/recipebook/recipebook/internal/api/flash"
	"github.com/recipebook/recipebook/internal/api/models"
	"github.com/recipebook/recipebook/internal/config"
	"github.com/recipebook/recipebook/internal/gravatar"
)

const (
	sessionLoggedIn = "logged_in"
	sessionUsername = "username"
)

const (
	msgLoginSuccess = "Login successful!"
	msgLoginFailed  = "Invalid username or password. Please try again."
	msgLoggedOut    = "Logged out successfully."
)

// Provider authenticates users against the seeded accounts and keeps the login in the session.
type Provider struct {
	verifier *CredentialVerifier
	cfg      *config.Config
}

// NewProvider creates a new Provider.
func NewProvider(users UserStore, cfg *config.Config) *Provider {
	return &Provider{
		verifier: NewCredentialVerifier(users),
		cfg:      cfg,
	}
}

// Login handles the submitted login form.
func (p *Provider) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	ok, err := p.verifier.Verify(c.Request.Context(), username, password)
	if err != nil {
		log.Error("Failed to verify credentials", "error", err)
		c.AbortWithError(http.StatusInternalServerError, err) //nolint:errcheck
		return
	}
	if !ok {
		log.Debug("Rejected login attempt", "username", username)
		flash.Add(c, flash.Danger, msgLoginFailed)
		c.Redirect(http.StatusFound, "/login")
		return
	}

	session := sessions.Default(c)
	session.Set(sessionLoggedIn, true)
	session.Set(sessionUsername, username)
	flash.Queue(session, flash.Success, msgLoginSuccess)
	if err := session.Save(); err != nil {
		log.Error("Failed to save session", "error", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	log.Info("User logged in", "username", username)
	c.Redirect(http.StatusFound, "/index")
}

// Logout ends the login and redirects to the login page.
func (p *Provider) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Delete(sessionLoggedIn)
	session.Delete(sessionUsername)
	flash.Queue(session, flash.Info, msgLoggedOut)
	if err := session.Save(); err != nil {
		log.Error("Failed to save session", "error", err)
	}
	c.Redirect(http.StatusFound, "/login")
}

// RequireAuth returns middleware that redirects anonymous requests to the login page
// with the given warning.
func (p *Provider) RequireAuth(warning string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := p.CurrentUser(c)
		if user == nil {
			flash.Add(c, flash.Warning, warning)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Next()
	}
}

// CurrentUser returns the logged in user, or nil.
func (p *Provider) CurrentUser(c *gin.Context) *models.User {
	session := sessions.Default(c)
	if !getSessionBool(session, sessionLoggedIn) {
		return nil
	}
	username := getSessionString(session, sessionUsername)
	if username == "" {
		return nil
	}

	user := &models.User{Username: username}
	if p.cfg != nil {
		user.GravatarURL = gravatar.AvatarURL(username, p.cfg.EmailForUser(username), p.cfg.Gravatar)
	}
	return user
}

// getSessionString safely gets a string value from the session.
func getSessionString(session sessions.Session, key string) string {
	if val := session.Get(key); val != nil {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

// getSessionBool safely gets a bool value from the session.
func getSessionBool(session sessions.Session, key string) bool {
	if val := session.Get(key); val != nil {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return false
}
