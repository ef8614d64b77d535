package cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/recipebook/recipebook/internal/config"
	"golang.org/x/sync/singleflight"
)

// ThumbnailCachePrefix is the key prefix of cached thumbnails.
const ThumbnailCachePrefix = "recipe-thumb-"

// ErrNoImage is returned when a recipe has no stored image to scale.
var ErrNoImage = errors.New("recipe has no image")

// Thumbnail is a scaled recipe image.
type Thumbnail struct {
	Data   []byte `json:"data"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ImageLoader returns the stored image bytes of a recipe, or nil if there are none.
type ImageLoader func(ctx context.Context) ([]byte, error)

// ThumbnailCache scales recipe images and keeps the results in the configured cache.
type ThumbnailCache struct {
	cache     *PrefixedCache[Thumbnail]
	group     singleflight.Group
	maxWidth  int // Maximum width for scaled images
	maxHeight int // Maximum height for scaled images
	quality   int // JPEG quality (1-100)
}

// NewThumbnailCache creates a thumbnail cache backed by memory or redis.
func NewThumbnailCache(cacheCfg *config.CacheConfig, imagesCfg *config.ImagesConfig) (*ThumbnailCache, error) {
	instance, err := newCacheInstanceByType(cacheCfg)
	if err != nil {
		return nil, err
	}
	return &ThumbnailCache{
		cache:     NewPrefixedCache[Thumbnail](instance, cacheCfg.Type, ThumbnailCachePrefix),
		maxWidth:  imagesCfg.ThumbnailWidth,
		maxHeight: imagesCfg.ThumbnailHeight,
		quality:   imagesCfg.JPEGQuality,
	}, nil
}

// Get returns the thumbnail of a recipe, scaling the image returned by load on a cache miss.
// Concurrent misses for the same recipe share one scaling run.
func (t *ThumbnailCache) Get(ctx context.Context, recipeID uint, load ImageLoader) (*Thumbnail, error) {
	thumb, err := t.cache.Get(ctx, recipeID)
	if err == nil {
		return &thumb, nil
	}
	if !errors.Is(err, store.NotFound{}) {
		log.Debug("Thumbnail cache lookup failed", "recipe_id", recipeID, "error", err)
	}

	v, err, _ := t.group.Do(fmt.Sprintf("%d", recipeID), func() (any, error) {
		data, err := load(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load recipe image: %w", err)
		}
		if len(data) == 0 {
			return nil, ErrNoImage
		}

		thumb, err := t.Scale(data)
		if err != nil {
			return nil, err
		}
		if err := t.cache.Set(ctx, recipeID, *thumb); err != nil {
			log.Warn("Failed to cache thumbnail", "recipe_id", recipeID, "error", err)
		}
		return thumb, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Thumbnail), nil
}

// Scale decodes an image and fits it into the configured bounds, returning it as jpeg.
// Images that already fit are only re-encoded.
func (t *ThumbnailCache) Scale(data []byte) (*Thumbnail, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	newWidth, newHeight := t.calculateScaledDimensions(bounds.Dx(), bounds.Dy())
	if newWidth != bounds.Dx() || newHeight != bounds.Dy() {
		// Resize the image using high-quality Lanczos resampling
		img = imaging.Resize(img, newWidth, newHeight, imaging.Lanczos)
		log.Debugf("Resized image from %dx%d to %dx%d", bounds.Dx(), bounds.Dy(), newWidth, newHeight)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(t.quality)); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return &Thumbnail{
		Data:   buf.Bytes(),
		Width:  newWidth,
		Height: newHeight,
	}, nil
}

// Evict removes the thumbnail of a recipe.
func (t *ThumbnailCache) Evict(ctx context.Context, recipeID uint) error {
	return t.cache.Delete(ctx, recipeID)
}

// Clear removes all thumbnails.
func (t *ThumbnailCache) Clear(ctx context.Context) error {
	return t.cache.Clear(ctx)
}

// Stats holds the counters of a cache.
type Stats struct {
	Hits      int
	Misses    int
	CacheType config.CacheType
}

// GetStats returns hit and miss counters of the thumbnail cache.
func (t *ThumbnailCache) GetStats() Stats {
	s := t.cache.GetStats()
	return Stats{
		Hits:      s.Hits,
		Misses:    s.Miss,
		CacheType: t.cache.GetType(),
	}
}

// calculateScaledDimensions calculates new dimensions while maintaining aspect ratio
func (t *ThumbnailCache) calculateScaledDimensions(originalWidth, originalHeight int) (int, int) {
	// If both dimensions are within limits, don't scale
	if originalWidth <= t.maxWidth && originalHeight <= t.maxHeight {
		return originalWidth, originalHeight
	}

	widthRatio := float64(t.maxWidth) / float64(originalWidth)
	heightRatio := float64(t.maxHeight) / float64(originalHeight)

	// Use the smaller ratio to ensure both dimensions fit within limits
	ratio := min(widthRatio, heightRatio)

	return max(1, int(float64(originalWidth)*ratio)), max(1, int(float64(originalHeight)*ratio))
}
