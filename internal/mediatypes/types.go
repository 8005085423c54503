package mediatypes

import (
	"path/filepath"
	"strings"
)

// MimeTypes maps lowercase file extensions (without the leading dot) to
// their MIME types. Extensions outside this table resolve to
// "application/octet-stream".
var MimeTypes = map[string]string{
	// Images
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"webp": "image/webp",
	"heic": "image/heic",
	"heif": "image/heic",

	// Videos
	"mp4": "video/mp4",
	"mov": "video/quicktime",
	"avi": "video/x-msvideo",
}

// rasterExtensions are the still-image formats the standard raster codec
// can decode (stdlib decoders plus golang.org/x/image registrations).
var rasterExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"bmp":  true,
	"webp": true,
}

// heifExtensions are the block-tiled container formats that need libvips.
var heifExtensions = map[string]bool{
	"heic": true,
	"heif": true,
}

// MimeType returns the MIME type for a file extension. The extension may
// be passed with or without the leading dot and in any case.
func MimeType(ext string) string {
	if mime, ok := MimeTypes[Normalize(ext)]; ok {
		return mime
	}
	return "application/octet-stream"
}

// Normalize lowercases an extension and strips the leading dot.
func Normalize(ext string) string {
	return strings.TrimPrefix(strings.ToLower(ext), ".")
}

// Ext returns the normalized extension of a path ("" if none).
func Ext(path string) string {
	return Normalize(filepath.Ext(path))
}

// IsRaster reports whether the extension belongs to the natively
// decodable raster family.
func IsRaster(ext string) bool {
	return rasterExtensions[Normalize(ext)]
}

// IsHEIF reports whether the extension belongs to the HEIC/HEIF container
// family.
func IsHEIF(ext string) bool {
	return heifExtensions[Normalize(ext)]
}

// IsJPEG reports whether the extension is in the JPEG family, the only
// family whose EXIF orientation metadata we honor.
func IsJPEG(ext string) bool {
	n := Normalize(ext)
	return n == "jpg" || n == "jpeg"
}

// IsDecodable reports whether the extension can be decoded to pixels at
// all. Video and unknown formats are ingested without dimensions or a
// thumbnail.
func IsDecodable(ext string) bool {
	return IsRaster(ext) || IsHEIF(ext)
}
