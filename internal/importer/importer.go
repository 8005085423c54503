package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"photo-library/internal/database"
	"photo-library/internal/logging"
	"photo-library/internal/mediatypes"
	"photo-library/internal/metrics"
	"photo-library/internal/registry"
	"photo-library/internal/workers"
)

const (
	originalsDirName  = "originals"
	thumbnailsDirName = "thumbnails"
)

// Importer drives batch ingestion of source files into a library:
// parallel per-file preparation followed by one atomic metadata
// transaction.
type Importer struct {
	registry *registry.Registry
	workers  int
}

// New creates an Importer resolving library roots through reg.
func New(reg *registry.Registry) *Importer {
	count := workers.ForCPU(0)
	metrics.ImportWorkers.Set(float64(count))
	return &Importer{
		registry: reg,
		workers:  count,
	}
}

// ImportBatch imports sourcePaths into the library, preparing files
// concurrently and persisting all records in a single transaction.
//
// Any per-file failure fails the whole batch and no metadata is
// written; originals and thumbnails already produced by sibling tasks
// are left on disk (an orphan sweep can reclaim them on next library
// open). On success the returned items mirror what was committed, in
// insertion order.
func (imp *Importer) ImportBatch(ctx context.Context, libraryID string, sourcePaths []string, deleteSource bool) ([]database.Item, error) {
	start := time.Now()

	items, err := imp.importBatch(ctx, libraryID, sourcePaths, deleteSource)
	if err != nil {
		metrics.ImportBatchesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.ImportBatchesTotal.WithLabelValues("success").Inc()
	metrics.ImportBatchDuration.Observe(time.Since(start).Seconds())
	logging.Info("Imported %d items into library %s in %v", len(items), libraryID, time.Since(start))
	return items, nil
}

func (imp *Importer) importBatch(ctx context.Context, libraryID string, sourcePaths []string, deleteSource bool) ([]database.Item, error) {
	root, err := imp.registry.Resolve(libraryID)
	if err != nil {
		return nil, err
	}

	originalsDir := filepath.Join(root, originalsDirName)
	thumbsDir := filepath.Join(root, thumbnailsDirName)
	for _, dir := range []string{originalsDir, thumbsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	// Scatter: one task per file, first error wins. The group context
	// stops tasks that have not started yet; in-flight tasks run to
	// completion.
	prepared := make([]*database.Item, len(sourcePaths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(imp.workers)

	for i, sourcePath := range sourcePaths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			item, err := prepareItem(sourcePath, originalsDir, thumbsDir, deleteSource)
			if err != nil {
				return err
			}
			prepared[i] = item
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]database.Item, 0, len(prepared))
	for _, item := range prepared {
		items = append(items, *item)
	}

	// Gather: the single serialized write of the batch.
	store, err := database.Open(ctx, root)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logging.Warn("failed to close library database: %v", closeErr)
		}
	}()

	tx, err := store.BeginBatch()
	if err != nil {
		return nil, err
	}

	stmt, err := store.PrepareItemInsert(tx)
	if err != nil {
		return nil, store.EndBatch(tx, err)
	}

	for i := range items {
		if err = database.ExecItemInsert(stmt, &items[i]); err != nil {
			break
		}
	}
	if closeErr := stmt.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err := store.EndBatch(tx, err); err != nil {
		return nil, err
	}
	return items, nil
}

// OriginalPath returns where an item's original file lives under a
// library root. The extension comes from the preserved original name.
func OriginalPath(root string, item *database.Item) string {
	return filepath.Join(root, originalsDirName, originalFileName(item.ID, mediatypes.Ext(item.OriginalName)))
}

// ThumbnailPath returns where an item's thumbnail lives under a
// library root.
func ThumbnailPath(root, itemID string) string {
	return filepath.Join(root, thumbnailsDirName, itemID+".webp")
}
