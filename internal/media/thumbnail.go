package media

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"photo-library/internal/metrics"
)

// MaxThumbnailSize bounds the longer edge of generated previews.
const MaxThumbnailSize = 512

// thumbnailQuality is the lossy WebP quality used for previews.
const thumbnailQuality = 80

// Thumbnail downsamples a normalized image so its longer edge fits
// MaxThumbnailSize, preserving aspect ratio. Images already within the
// bound are returned at their own size.
func Thumbnail(img image.Image) image.Image {
	return imaging.Fit(img, MaxThumbnailSize, MaxThumbnailSize, imaging.Lanczos)
}

// WriteThumbnail generates a preview for img and writes it as lossy
// WebP to path, creating the destination directory if needed. Encode
// or write failures are hard errors for the item being ingested.
func WriteThumbnail(img image.Image, path string) error {
	start := time.Now()

	thumb := Thumbnail(img)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		metrics.ThumbnailsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to create thumbnail directory: %w", err)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, thumb, &webp.Options{Quality: thumbnailQuality}); err != nil {
		metrics.ThumbnailsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		metrics.ThumbnailsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to write thumbnail: %w", err)
	}

	metrics.ThumbnailsTotal.WithLabelValues("success").Inc()
	metrics.ThumbnailDuration.Observe(time.Since(start).Seconds())
	return nil
}
