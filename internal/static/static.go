package static

import (
	"bytes"
	"embed"
	"fmt"
	"image/color"
	"io/fs"
	"os"

	"github.com/disintegration/imaging"
)

//go:embed static/*
var StaticFS embed.FS

const (
	placeholderWidth  = 340
	placeholderHeight = 500
)

var placeholderColor = color.NRGBA{R: 0xd9, G: 0xd4, B: 0xcc, A: 0xff}

// Assets returns the embedded files rooted at the static directory, for serving under /static.
func Assets() fs.FS {
	sub, err := fs.Sub(StaticFS, "static")
	if err != nil {
		// the directory is embedded at build time
		panic(err)
	}
	return sub
}

// LoadPlaceholder returns the jpeg served for recipes without a usable image.
// If path is empty a plain placeholder is generated.
func LoadPlaceholder(path string) ([]byte, error) {
	if path == "" {
		return GeneratePlaceholder()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read placeholder image: %w", err)
	}
	if _, err := imaging.Decode(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("placeholder image %s is not a valid image: %w", path, err)
	}
	return data, nil
}

// GeneratePlaceholder encodes a neutral 340x500 jpeg.
func GeneratePlaceholder() ([]byte, error) {
	img := imaging.New(placeholderWidth, placeholderHeight, placeholderColor)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return nil, fmt.Errorf("failed to encode placeholder image: %w", err)
	}
	return buf.Bytes(), nil
}
