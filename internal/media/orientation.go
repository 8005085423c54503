package media

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"

	"photo-library/internal/logging"
	"photo-library/internal/mediatypes"
)

// ReadOrientation extracts the EXIF orientation tag (1-8) from the raw
// bytes of a JPEG-family file. Anything that prevents reading the tag
// degrades to orientation 1 (identity); orientation never fails an
// ingestion.
func ReadOrientation(data []byte, ext string) int {
	if !mediatypes.IsJPEG(ext) {
		return 1
	}

	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		logging.Debug("No readable EXIF container: %v", err)
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	orientation, err := tag.Int(0)
	if err != nil || orientation < 1 || orientation > 8 {
		return 1
	}
	return orientation
}

// ApplyOrientation applies the canonical transform for an EXIF
// orientation value. Values outside 1-8 are treated as identity.
func ApplyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// Normalize orients a decoded image upright using the orientation
// metadata embedded in the original raw bytes.
func Normalize(img image.Image, data []byte, ext string) image.Image {
	return ApplyOrientation(img, ReadOrientation(data, ext))
}
