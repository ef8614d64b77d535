package config

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

type CacheType string

const (
	CacheTypeMemory CacheType = "memory"
	CacheTypeRedis  CacheType = "redis"
)

type PasswordHash string

const (
	// PasswordHashBcrypt stores salted bcrypt digests.
	PasswordHashBcrypt PasswordHash = "bcrypt"
	// PasswordHashSHA256 stores unsalted hex encoded sha256 digests.
	// It is only kept to produce digests compatible with legacy recipe databases.
	PasswordHashSHA256 PasswordHash = "sha256"
)

// Config holds the configuration for the Recipebook server and its dependencies.
type Config struct {
	// Listen is the address the Recipebook server will listen on.
	Listen string `yaml:"listen" mapstructure:"listen"`
	// SessionKey is the key used to sign session cookies.
	SessionKey string `yaml:"session_key" mapstructure:"session_key"`
	// SessionMaxAge is the maximum age of a session in seconds. 0 keeps the cookie for the browser session.
	SessionMaxAge int `yaml:"session_max_age" mapstructure:"session_max_age"`
	// SecureCookies marks the session cookie as secure (https only).
	SecureCookies bool `yaml:"secure_cookies" mapstructure:"secure_cookies"`
	// StatsSchedule is the cron schedule for logging store statistics.
	StatsSchedule string `yaml:"stats_schedule" mapstructure:"stats_schedule"`
	// Database holds the database configuration.
	Database *DatabaseConfig `yaml:"database" mapstructure:"database"`
	// Auth holds the authentication configuration.
	Auth *AuthConfig `yaml:"auth" mapstructure:"auth"`
	// Users is the list of accounts seeded into the database on startup.
	Users []UserConfig `yaml:"users" mapstructure:"users"`
	// Categories is a list of category names created on startup if they don't exist yet.
	Categories []string `yaml:"categories" mapstructure:"categories"`
	// Images holds the image pipeline configuration.
	Images *ImagesConfig `yaml:"images" mapstructure:"images"`
	// Cache holds the thumbnail cache configuration.
	Cache *CacheConfig `yaml:"cache" mapstructure:"cache"`
	// Gravatar holds the configuration for Gravatar profile pictures next to comments.
	Gravatar *GravatarConfig `yaml:"gravatar" mapstructure:"gravatar"`
}

// DatabaseConfig holds the database configuration.
type DatabaseConfig struct {
	// Path is the path to the database file.
	Path string `yaml:"path" mapstructure:"path"`
}

// AuthConfig holds the authentication configuration.
type AuthConfig struct {
	// PasswordHash is the scheme used to store the digests of seeded users.
	// Stored digests of either scheme are always accepted at login.
	PasswordHash PasswordHash `yaml:"password_hash" mapstructure:"password_hash"`
}

// UserConfig is a seeded account.
type UserConfig struct {
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
	// Email is optional and only used to look up a Gravatar.
	Email string `yaml:"email" mapstructure:"email"`
}

// ImagesConfig holds the image pipeline configuration.
type ImagesConfig struct {
	// PlaceholderPath is an optional path to a jpeg served when a recipe has no image.
	PlaceholderPath string `yaml:"placeholder_path" mapstructure:"placeholder_path"`
	// ThumbnailWidth is the maximum width of generated thumbnails.
	ThumbnailWidth int `yaml:"thumbnail_width" mapstructure:"thumbnail_width"`
	// ThumbnailHeight is the maximum height of generated thumbnails.
	ThumbnailHeight int `yaml:"thumbnail_height" mapstructure:"thumbnail_height"`
	// JPEGQuality is the quality used to encode thumbnails (1-100).
	JPEGQuality int `yaml:"jpeg_quality" mapstructure:"jpeg_quality"`
}

// CacheConfig holds the configuration for the cache engine.
type CacheConfig struct {
	// Type is the type of cache engine to use (e.g., "memory", "redis").
	Type CacheType `yaml:"type" mapstructure:"type"`
	// RedisURL is the URL for the Redis cache if using Redis.
	RedisURL string `yaml:"redis_url" mapstructure:"redis_url"`
	// ClearSchedule is the cron schedule for clearing the thumbnail cache.
	ClearSchedule string `yaml:"clear_schedule" mapstructure:"clear_schedule"`
}

// GravatarConfig holds the configuration for Gravatar profile pictures.
type GravatarConfig struct {
	// Enabled indicates whether Gravatar support is enabled.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// DefaultImage is the default image to use when no Gravatar is found.
	// Valid values: "404", "mp", "identicon", "monsterid", "wavatar", "retro", "robohash", "blank"
	DefaultImage string `yaml:"default_image" mapstructure:"default_image"`
	// Rating is the maximum rating for Gravatar images.
	// Valid values: "g", "pg", "r", "x"
	Rating string `yaml:"rating" mapstructure:"rating"`
	// Size is the size of the Gravatar image in pixels (1-2048).
	Size int `yaml:"size" mapstructure:"size"`
}

// Load reads the configuration from the specified path and returns a Config struct.
// If path is empty, it will use default search paths for config files.
// If no config file is found, defaults and environment variables are used.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix("RECIPEBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var configFileFound bool
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.recipebook")
		v.AddConfigPath("/etc/recipebook")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		configFileFound = true
	}

	if configFileFound {
		log.Debug("Using config file", "file", v.ConfigFileUsed())
		log.Debug("Some environment variables can be set with the RECIPEBOOK_ prefix to override config file values")
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	sanitizeConfig(&c)

	if err := validateConfig(&c); err != nil {
		return nil, err
	}

	return &c, nil
}

// DefaultUsers are the accounts seeded when the config doesn't list any.
func DefaultUsers() []UserConfig {
	return []UserConfig{
		{Username: "admin", Password: "admin"},
		{Username: "shreyash", Password: "shreyashguptacdac"},
		{Username: "shivam", Password: "shivam"},
	}
}

// setDefaults sets default values for the configuration.
func setDefaults(v *viper.Viper) {
	v.SetDefault("listen", "0.0.0.0:5000")
	v.SetDefault("session_key", "")
	v.SetDefault("session_max_age", 0)
	v.SetDefault("secure_cookies", false)
	v.SetDefault("stats_schedule", "0 * * * *") // Every hour

	// Database defaults
	v.SetDefault("database.path", "./data/recipes.db")

	// Auth defaults
	v.SetDefault("auth.password_hash", PasswordHashBcrypt)

	// Image defaults
	v.SetDefault("images.placeholder_path", "")
	v.SetDefault("images.thumbnail_width", 340)
	v.SetDefault("images.thumbnail_height", 500)
	v.SetDefault("images.jpeg_quality", 85)

	// Cache defaults
	v.SetDefault("cache.type", CacheTypeMemory)
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.clear_schedule", "0 0 * * 0") // Every Sunday at midnight

	// Gravatar defaults
	v.SetDefault("gravatar.enabled", false)
	v.SetDefault("gravatar.default_image", "identicon")
	v.SetDefault("gravatar.rating", "g")
	v.SetDefault("gravatar.size", 40)
}

// validateConfig validates the configuration.
func validateConfig(c *Config) error {
	if c == nil {
		return fmt.Errorf("missing recipebook config")
	}

	if c.SessionKey == "" {
		return fmt.Errorf("session key is required")
	}

	if c.SessionMaxAge < 0 {
		return fmt.Errorf("session max age must not be negative")
	}

	if c.Database == nil || c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}

	if c.Auth == nil {
		c.Auth = &AuthConfig{PasswordHash: PasswordHashBcrypt}
	}
	switch c.Auth.PasswordHash {
	case PasswordHashBcrypt, PasswordHashSHA256:
	default:
		return fmt.Errorf("unknown password hash %q, must be one of: bcrypt, sha256", c.Auth.PasswordHash)
	}
	if c.Auth.PasswordHash == PasswordHashSHA256 {
		log.Warn("auth.password_hash is set to sha256, seeded digests are unsalted. Consider switching to bcrypt.")
	}

	if len(c.Users) == 0 {
		c.Users = DefaultUsers()
	}
	seen := make(map[string]struct{}, len(c.Users))
	for i, u := range c.Users {
		if u.Username == "" {
			return fmt.Errorf("user %d: username is required", i)
		}
		if u.Password == "" {
			return fmt.Errorf("user %q: password is required", u.Username)
		}
		if _, ok := seen[u.Username]; ok {
			return fmt.Errorf("user %q is configured more than once", u.Username)
		}
		seen[u.Username] = struct{}{}
	}

	if c.Images == nil {
		c.Images = &ImagesConfig{ThumbnailWidth: 340, ThumbnailHeight: 500, JPEGQuality: 85}
	}
	if c.Images.ThumbnailWidth <= 0 || c.Images.ThumbnailHeight <= 0 {
		return fmt.Errorf("thumbnail dimensions must be greater than 0")
	}
	if c.Images.JPEGQuality < 1 || c.Images.JPEGQuality > 100 {
		return fmt.Errorf("jpeg quality must be between 1 and 100")
	}

	if c.Cache != nil {
		if c.Cache.Type == "" {
			return fmt.Errorf("cache type is required when cache is enabled")
		}
		if c.Cache.Type != CacheTypeMemory && c.Cache.Type != CacheTypeRedis {
			return fmt.Errorf("unknown cache type %q", c.Cache.Type)
		}
		if c.Cache.Type == CacheTypeRedis && c.Cache.RedisURL == "" {
			return fmt.Errorf("Redis URL is required when Redis cache is enabled") //nolint:staticcheck
		}
	} else {
		c.Cache = &CacheConfig{
			Type: CacheTypeMemory, // Default to in-memory cache if not enabled
		}
	}

	for _, schedule := range []string{c.StatsSchedule, c.Cache.ClearSchedule} {
		if schedule == "" {
			continue
		}
		// Basic validation for cron format (5 fields)
		if len(strings.Fields(schedule)) != 5 {
			return fmt.Errorf("schedule %q must be a valid cron expression with 5 fields (minute hour day month weekday)", schedule)
		}
	}

	return nil
}

// sanitizeConfig sanitizes the configuration values.
func sanitizeConfig(c *Config) {
	if c == nil {
		return
	}

	c.Listen = strings.TrimSpace(c.Listen)

	for i := range c.Users {
		c.Users[i].Username = strings.TrimSpace(c.Users[i].Username)
		c.Users[i].Email = strings.TrimSpace(c.Users[i].Email)
	}

	categories := c.Categories[:0]
	for _, name := range c.Categories {
		if name = strings.TrimSpace(name); name != "" {
			categories = append(categories, name)
		}
	}
	c.Categories = categories
}

// EmailForUser returns the configured email of a seeded user, if any.
func (c *Config) EmailForUser(username string) string {
	if c == nil {
		return ""
	}
	for _, u := range c.Users {
		if u.Username == username {
			return u.Email
		}
	}
	return ""
}
