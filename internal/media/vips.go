package media

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/davidbyttow/govips/v2/vips"

	"photo-library/internal/logging"
)

var (
	vipsInitMutex   sync.Mutex
	vipsInitialized bool
	vipsAvailable   bool
)

// InitVips initializes the libvips library.
// This should be called once at startup.
func InitVips() {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		return
	}

	// Route vips messages through our logger; suppress chatter below
	// warning unless debug logging is on.
	vipsLogLevel := vips.LogLevelWarning
	if logging.IsDebugEnabled() {
		vipsLogLevel = vips.LogLevelInfo
	}
	vips.LoggingSettings(func(domain string, level vips.LogLevel, msg string) {
		switch {
		case level <= vips.LogLevelCritical:
			logging.Error("[%s] %s", domain, msg)
		case level == vips.LogLevelWarning:
			logging.Warn("[%s] %s", domain, msg)
		default:
			logging.Debug("[%s] %s", domain, msg)
		}
	}, vipsLogLevel)

	// Conservative memory settings; decode work is parallelized by the
	// importer, not inside vips.
	vips.Startup(&vips.Config{
		ConcurrencyLevel: 1,
		MaxCacheMem:      50 * 1024 * 1024,
		MaxCacheSize:     100,
	})

	vipsInitialized = true
	vipsAvailable = true
	logging.Info("libvips initialized (version: %s)", vips.Version)
}

// ShutdownVips cleans up libvips resources.
func ShutdownVips() {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		vips.Shutdown()
		vipsInitialized = false
		vipsAvailable = false
		logging.Info("libvips shutdown complete")
	}
}

// decodeHEIF decodes a HEIC/HEIF container through libvips: open the
// container, take the primary image, export the raw interleaved plane
// and rebuild a raster image from it.
func decodeHEIF(data []byte) (image.Image, error) {
	vipsInitMutex.Lock()
	available := vipsAvailable
	vipsInitMutex.Unlock()
	if !available {
		return nil, &DecodeError{Format: "heif", Err: errors.New("libvips not initialized")}
	}

	ref, err := vips.NewImageFromBuffer(data)
	if err != nil {
		return nil, &DecodeError{Format: "heif", Err: err}
	}
	defer ref.Close()

	if err := ref.ToColorSpace(vips.InterpretationSRGB); err != nil {
		return nil, &DecodeError{Format: "heif", Err: err}
	}

	width := ref.Width()
	height := ref.Height()
	bands := ref.Bands()

	plane, err := ref.ToBytes()
	if err != nil {
		return nil, &DecodeError{Format: "heif", Err: err}
	}

	return imageFromPlane(plane, width, height, bands)
}

// imageFromPlane rebuilds a raster image from a raw interleaved pixel
// plane. The plane length must divide evenly into the reported
// geometry.
func imageFromPlane(plane []byte, width, height, bands int) (image.Image, error) {
	if len(plane) == 0 {
		return nil, &DecodeError{Format: "heif", Err: errors.New("empty pixel plane")}
	}
	if bands != 3 && bands != 4 {
		return nil, &DecodeError{Format: "heif", Err: fmt.Errorf("unsupported band count %d", bands)}
	}
	if width <= 0 || height <= 0 || len(plane) != width*height*bands {
		return nil, &DecodeError{
			Format: "heif",
			Err:    fmt.Errorf("plane size %d does not match %dx%dx%d", len(plane), width, height, bands),
		}
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < width*height; i++ {
		src := i * bands
		dst := i * 4
		img.Pix[dst] = plane[src]
		img.Pix[dst+1] = plane[src+1]
		img.Pix[dst+2] = plane[src+2]
		if bands == 4 {
			img.Pix[dst+3] = plane[src+3]
		} else {
			img.Pix[dst+3] = 0xFF
		}
	}
	return img, nil
}
