// Package media decodes still images (including HEIC/HEIF via
// libvips), normalizes EXIF orientation, and generates WebP
// thumbnails.
package media
