package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"photo-library/internal/logging"
	"photo-library/internal/mediatypes"

	// Raster format decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"  // BMP format support
	_ "golang.org/x/image/webp" // WebP format support
)

// ErrUnsupportedFormat marks a file extension outside the decodable
// set. It is not an ingestion failure: callers use it to skip
// dimension extraction and thumbnailing for video and other non-image
// assets.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// DecodeError reports a codec failure on a format that is nominally
// supported.
type DecodeError struct {
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s image: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Codec is one decodable format family. The zero value is the
// unsupported codec.
type Codec struct {
	name   string
	decode func(data []byte) (image.Image, error)
}

var (
	// codecRaster covers the formats the general-purpose raster
	// decoder handles: jpeg, png, gif (first frame), bmp, webp.
	codecRaster = Codec{name: "raster", decode: decodeRaster}

	// codecHEIF covers the HEIC/HEIF container family, decoded
	// through libvips.
	codecHEIF = Codec{name: "heif", decode: decodeHEIF}

	// codecNone is the explicit unsupported variant.
	codecNone = Codec{name: "unsupported"}
)

// CodecFor returns the codec family for a file extension.
func CodecFor(ext string) Codec {
	switch {
	case mediatypes.IsRaster(ext):
		return codecRaster
	case mediatypes.IsHEIF(ext):
		return codecHEIF
	default:
		return codecNone
	}
}

// Name returns the codec family name.
func (c Codec) Name() string {
	return c.name
}

// Supported reports whether this codec can decode at all.
func (c Codec) Supported() bool {
	return c.decode != nil
}

// Decode decodes raw file bytes into a pixel buffer. The unsupported
// codec returns ErrUnsupportedFormat without touching the data.
func (c Codec) Decode(data []byte) (image.Image, error) {
	if c.decode == nil {
		return nil, ErrUnsupportedFormat
	}
	return c.decode(data)
}

// Decode decodes raw file bytes using the codec family selected by the
// lowercase extension hint.
func Decode(data []byte, ext string) (image.Image, error) {
	return CodecFor(ext).Decode(data)
}

func decodeRaster(data []byte) (image.Image, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Format: "raster", Err: err}
	}
	logging.Debug("Decoded %s image: %dx%d", format, img.Bounds().Dx(), img.Bounds().Dy())
	return img, nil
}
