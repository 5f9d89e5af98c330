package service

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	// Quality settings
	qualityThumb  = 60
	qualityMedium = 75
	// Size settings (max dimension)
	maxSizeThumb  = 300
	maxSizeMedium = 800

	SizeThumb  = "thumb"
	SizeMedium = "medium"

	mediaURLPrefix = "/media/"
)

// MediaStore keeps optimized product images under a directory served at /media/
type MediaStore struct {
	dir string
}

func NewMediaStore(dir string) *MediaStore {
	return &MediaStore{dir: dir}
}

// Dir is the served root
func (m *MediaStore) Dir() string {
	return m.dir
}

// EnsureDir ensures the media directory exists, creates it if it doesn't
func (m *MediaStore) EnsureDir() error {
	if err := os.MkdirAll(filepath.Join(m.dir, "products"), 0755); err != nil {
		return fmt.Errorf("failed to create media directory: %w", err)
	}
	return nil
}

func productImageName(productID, size string) string {
	return filepath.Join("products", fmt.Sprintf("%s_%s.jpg", productID, size))
}

// SaveProductImage writes the thumb and medium renditions and returns the
// public URL of the medium one
func (m *MediaStore) SaveProductImage(productID string, imageData []byte) (string, error) {
	if err := m.EnsureDir(); err != nil {
		return "", err
	}
	for _, size := range []string{SizeThumb, SizeMedium} {
		optimized, err := OptimizeImage(imageData, size)
		if err != nil {
			return "", err
		}
		path := filepath.Join(m.dir, productImageName(productID, size))
		if err := os.WriteFile(path, optimized, 0644); err != nil {
			return "", fmt.Errorf("failed to write image: %w", err)
		}
		log.Printf("✓ Image stored: %s", path)
	}
	return mediaURLPrefix + filepath.ToSlash(productImageName(productID, SizeMedium)), nil
}

// ThumbURL maps a medium image URL to its thumbnail
func ThumbURL(mediumURL string) string {
	ext := filepath.Ext(mediumURL)
	if base, ok := strings.CutSuffix(mediumURL, "_"+SizeMedium+ext); ok {
		return base + "_" + SizeThumb + ext
	}
	return mediumURL
}

// OptimizeImage converts an image to JPEG and shrinks it to the size bucket
// imageData: raw image bytes (PNG, JPEG)
// size: "thumb" or "medium"
func OptimizeImage(imageData []byte, size string) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	log.Printf("📸 Image decoded: format=%s, bounds=%v", format, img.Bounds())

	var maxDim int
	var quality int

	switch size {
	case SizeThumb:
		maxDim = maxSizeThumb
		quality = qualityThumb
	case SizeMedium:
		maxDim = maxSizeMedium
		quality = qualityMedium
	default:
		maxDim = maxSizeMedium
		quality = qualityMedium
		log.Printf("⚠️  Unknown size '%s', defaulting to medium", size)
	}

	bounds := img.Bounds()
	var resized image.Image = img
	if bounds.Dx() > maxDim || bounds.Dy() > maxDim {
		// imaging.Fit keeps the aspect ratio
		resized = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
		log.Printf("🔄 Resized image: %dx%d -> %dx%d", bounds.Dx(), bounds.Dy(), resized.Bounds().Dx(), resized.Bounds().Dy())
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}

	log.Printf("✓ Image optimized: size=%s, quality=%d, output_size=%d bytes", size, quality, buf.Len())
	return buf.Bytes(), nil
}
