package importer

import (
	"crypto/md5" //nolint:gosec // MD5 is a content fingerprint for display/audit, not security
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"photo-library/internal/database"
	"photo-library/internal/logging"
	"photo-library/internal/media"
	"photo-library/internal/mediatypes"
	"photo-library/internal/metrics"
)

// ErrSourceNotFound marks a missing input file.
var ErrSourceNotFound = errors.New("source file does not exist")

// ItemError tags a preparation failure with the offending source path.
type ItemError struct {
	Path string
	Err  error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// prepareItem turns one source file into a fully populated item
// record: identity (checksum, size), decode, orientation
// normalization, original placement and thumbnail synthesis. Any
// failure aborts this item only.
func prepareItem(sourcePath, originalsDir, thumbsDir string, deleteSource bool) (*database.Item, error) {
	start := time.Now()

	item, err := doPrepare(sourcePath, originalsDir, thumbsDir, deleteSource)
	if err != nil {
		metrics.ImportItemsTotal.WithLabelValues("error").Inc()
		return nil, &ItemError{Path: sourcePath, Err: err}
	}

	metrics.ImportItemsTotal.WithLabelValues("success").Inc()
	metrics.ImportItemDuration.Observe(time.Since(start).Seconds())
	return item, nil
}

func doPrepare(sourcePath, originalsDir, thumbsDir string, deleteSource bool) (*database.Item, error) {
	if _, err := os.Stat(sourcePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrSourceNotFound
		}
		return nil, fmt.Errorf("failed to stat source: %w", err)
	}

	originalName := filepath.Base(sourcePath)
	ext := mediatypes.Ext(sourcePath)
	fileType := mediatypes.MimeType(ext)

	// Single read: checksum, size and decode all share this buffer.
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}
	checksum := fmt.Sprintf("%x", md5.Sum(data)) //nolint:gosec // content fingerprint, not security
	fileSize := int64(len(data))

	var width, height int
	img, err := media.Decode(data, ext)
	switch {
	case errors.Is(err, media.ErrUnsupportedFormat):
		// Video and other non-image assets land here: no dimensions,
		// no thumbnail, not a failure.
		img = nil
		metrics.ImportItemsTotal.WithLabelValues("skipped_decode").Inc()
	case err != nil:
		return nil, err
	default:
		img = media.Normalize(img, data, ext)
		bounds := img.Bounds()
		width = bounds.Dx()
		height = bounds.Dy()
	}

	// The id exists before any side effect, so the original copy, the
	// thumbnail and the metadata row all share it as their join key.
	id := uuid.NewString()

	if err := os.WriteFile(filepath.Join(originalsDir, originalFileName(id, ext)), data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to place original: %w", err)
	}

	if img != nil {
		if err := media.WriteThumbnail(img, filepath.Join(thumbsDir, id+".webp")); err != nil {
			return nil, err
		}
	}

	if deleteSource {
		if err := os.Remove(sourcePath); err != nil {
			logging.Warn("failed to remove source %s after import: %v", sourcePath, err)
		}
	}

	return &database.Item{
		ID:           id,
		OriginalName: originalName,
		FileType:     fileType,
		FileSize:     fileSize,
		Width:        width,
		Height:       height,
		Checksum:     checksum,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

func originalFileName(id, ext string) string {
	if ext == "" {
		return id
	}
	return id + "." + ext
}
